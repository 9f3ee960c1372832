// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modules

import (
	"fmt"
	"slices"

	"github.com/goplus/extdeps/internal/deperr"
	"github.com/goplus/extdeps/internal/settings"
	"github.com/goplus/extdeps/pkgs/platform"
)

// Module is a feature unit that may require native dependencies per platform.
type Module interface {
	// Name is the stable identifier of the module. Android manifests are
	// named after it, so it must be unique within a Registry.
	Name() string

	// Enabled reports whether the module is active for the platform.
	// It must not have side effects.
	Enabled(s *settings.Snapshot, p platform.Platform) (bool, error)

	// AndroidDependencies returns the androidPackage fragment the module
	// needs, or "" if it has no Android dependencies.
	AndroidDependencies(s *settings.Snapshot) string

	// IOSTemplateNames returns the iOS dependency templates of the module.
	IOSTemplateNames() []string
}

// Registry is the fixed, ordered set of feature modules of a build.
type Registry struct {
	mods []Module
}

// NewRegistry creates a Registry listing mods in order.
// Module names must be unique and non-empty.
func NewRegistry(mods ...Module) (*Registry, error) {
	seen := make(map[string]bool, len(mods))
	for _, m := range mods {
		name := m.Name()
		if name == "" {
			return nil, fmt.Errorf("failed to create registry: module with empty name")
		}
		if seen[name] {
			return nil, fmt.Errorf("failed to create registry: duplicate module %q", name)
		}
		seen[name] = true
	}
	return &Registry{mods: slices.Clone(mods)}, nil
}

// Modules returns the modules in registration order.
// The order is the same on every call.
func (r *Registry) Modules() []Module {
	return slices.Clone(r.mods)
}

// Lookup returns the module named name.
func (r *Registry) Lookup(name string) (Module, bool) {
	for _, m := range r.mods {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

// IsEnabled reports whether m is enabled under s for p.
// A malformed snapshot is a configuration error, never a default.
func (r *Registry) IsEnabled(m Module, s *settings.Snapshot, p platform.Platform) (bool, error) {
	if err := s.Validate(); err != nil {
		return false, err
	}
	enabled, err := m.Enabled(s, p)
	if err != nil {
		if deperr.KindOf(err) != deperr.KindUnknown {
			return false, err
		}
		return false, deperr.New(deperr.KindConfiguration, "modules.IsEnabled", m.Name(), err)
	}
	return enabled, nil
}
