package modules

import (
	"slices"

	"github.com/goplus/extdeps/internal/settings"
	"github.com/goplus/extdeps/pkgs/platform"
)

// Func adapts plain functions to the Module interface.
// A nil EnabledFn means always enabled; a nil AndroidFn means no Android
// dependencies.
type Func struct {
	ID        string
	EnabledFn func(s *settings.Snapshot, p platform.Platform) (bool, error)
	AndroidFn func(s *settings.Snapshot) string
	Templates []string
}

var _ Module = (*Func)(nil)

func (f *Func) Name() string { return f.ID }

func (f *Func) Enabled(s *settings.Snapshot, p platform.Platform) (bool, error) {
	if f.EnabledFn == nil {
		return true, nil
	}
	return f.EnabledFn(s, p)
}

func (f *Func) AndroidDependencies(s *settings.Snapshot) string {
	if f.AndroidFn == nil {
		return ""
	}
	return f.AndroidFn(s)
}

func (f *Func) IOSTemplateNames() []string {
	return slices.Clone(f.Templates)
}
