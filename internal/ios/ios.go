// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ios activates iOS dependency templates by copying them into the
// active dependency directory and tracks what one build activated.
package ios

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/goplus/extdeps/internal/assets"
	"github.com/goplus/extdeps/internal/deperr"
	"github.com/goplus/extdeps/internal/host"
	"github.com/goplus/extdeps/internal/metrics"
	"github.com/goplus/extdeps/internal/modules"
	"github.com/goplus/extdeps/internal/settings"
	"github.com/goplus/extdeps/internal/symbols"
	"github.com/goplus/extdeps/pkgs/platform"
)

// Reconciler owns the active dependency directory and the set of
// templates activated during the current build.
type Reconciler struct {
	dir       string
	templates TemplateSource

	registry *modules.Registry
	index    host.AssetIndex
	logger   *slog.Logger
	symbols  symbols.Store
	plugins  PluginLocator
	metrics  *metrics.Session

	// active holds templates whose file this build materialized.
	active map[string]struct{}
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithRegistry sets the modules ManageDependencies walks.
// The default is modules.Default().
func WithRegistry(reg *modules.Registry) Option {
	return func(r *Reconciler) {
		r.registry = reg
	}
}

// WithAssetIndex sets the index refreshed after each file change.
func WithAssetIndex(idx host.AssetIndex) Option {
	return func(r *Reconciler) {
		r.index = idx
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = l
	}
}

// WithSymbols sets the store of define-symbol lists.
func WithSymbols(s symbols.Store) Option {
	return func(r *Reconciler) {
		r.symbols = s
	}
}

// WithPluginLocator sets how resolver plugins are found.
func WithPluginLocator(p PluginLocator) Option {
	return func(r *Reconciler) {
		r.plugins = p
	}
}

// WithMetrics records template transitions into m.
func WithMetrics(m *metrics.Session) Option {
	return func(r *Reconciler) {
		r.metrics = m
	}
}

// New creates a Reconciler activating templates from src into dir.
func New(dir string, src TemplateSource, opts ...Option) *Reconciler {
	r := &Reconciler{
		dir:       dir,
		templates: src,
		registry:  modules.Default(),
		index:     host.Nop,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		active:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ActivePath returns the active dependency file of template name.
func (r *Reconciler) ActivePath(name string) string {
	return filepath.Join(r.dir, name+TemplateExt)
}

// SetEnabled makes the active file of template name exist iff enabled.
// Calling it again with the same arguments changes nothing.
func (r *Reconciler) SetEnabled(enabled bool, name string) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return deperr.New(deperr.KindIO, "ios.SetEnabled", r.dir, err)
	}
	dst := r.ActivePath(name)
	_, err := os.Stat(dst)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return deperr.New(deperr.KindIO, "ios.SetEnabled", dst, err)
	}

	switch {
	case enabled && !exists:
		src := r.templates.Path(name)
		if _, err := os.Stat(src); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return deperr.New(deperr.KindMissingResource, "ios.SetEnabled", name, err)
			}
			return deperr.New(deperr.KindIO, "ios.SetEnabled", src, err)
		}
		if err := copyFile(dst, src); err != nil {
			return deperr.New(deperr.KindIO, "ios.SetEnabled", dst, err)
		}
		r.logger.Info("activated ios dependencies", "template", name, "file", dst)
	case !enabled && exists:
		if err := os.Remove(dst); err != nil {
			return deperr.New(deperr.KindIO, "ios.SetEnabled", dst, err)
		}
		if err := os.Remove(dst + assets.MetaExt); err != nil && !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("failed to remove meta file", "file", dst+assets.MetaExt, "err", err)
		}
		r.logger.Info("deactivated ios dependencies", "template", name)
	default:
		return nil
	}

	r.metrics.TemplateToggled(name, enabled)
	if err := r.index.Refresh(); err != nil {
		r.logger.Warn("asset index refresh failed", "err", err)
	}
	return nil
}

// ManageDependencies activates the templates of every module enabled for
// iOS and deactivates the others. The active set is rebuilt from scratch.
//
// A missing template is logged and its module stays disabled for this
// build. Settings and I/O errors stop the pass.
func (r *Reconciler) ManageDependencies(ctx context.Context, s *settings.Snapshot) error {
	clear(r.active)
	for _, m := range r.registry.Modules() {
		if err := ctx.Err(); err != nil {
			return err
		}
		enabled, err := r.registry.IsEnabled(m, s, platform.IOS)
		if err != nil {
			r.metrics.Failed(deperr.KindOf(err).String())
			return err
		}
		for _, name := range m.IOSTemplateNames() {
			if err := r.SetEnabled(enabled, name); err != nil {
				r.metrics.Failed(deperr.KindOf(err).String())
				if deperr.IsFatal(err) {
					return err
				}
				r.logger.Error("ios dependencies not activated", "module", m.Name(), "template", name, "err", err)
				continue
			}
			if enabled {
				r.active[name] = struct{}{}
			}
		}
	}
	r.metrics.ActiveTemplates(len(r.active))
	return nil
}

// Cleanup deactivates every template activated during this build.
func (r *Reconciler) Cleanup(ctx context.Context) error {
	var errs []error
	for _, name := range r.Active() {
		if err := r.SetEnabled(false, name); err != nil {
			errs = append(errs, err)
			continue
		}
		delete(r.active, name)
	}
	r.metrics.ActiveTemplates(len(r.active))
	if err := errors.Join(errs...); err != nil {
		r.metrics.Failed(deperr.KindOf(err).String())
		return err
	}
	return nil
}

// Active returns the templates activated during this build, sorted.
func (r *Reconciler) Active() []string {
	names := make([]string, 0, len(r.active))
	for name := range r.active {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func copyFile(dst, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
