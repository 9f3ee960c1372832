// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package android

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goplus/extdeps/internal/deperr"
	"github.com/goplus/extdeps/internal/host"
	"github.com/goplus/extdeps/internal/manifest"
	"github.com/goplus/extdeps/internal/metrics"
	"github.com/goplus/extdeps/internal/modules"
	"github.com/goplus/extdeps/internal/settings"
	"github.com/goplus/extdeps/pkgs/platform"
)

// State is the per-build state of the staging directory.
type State int

const (
	Idle State = iota
	Staging
	Resolved
)

func (s State) String() string {
	switch s {
	case Staging:
		return "staging"
	case Resolved:
		return "resolved"
	default:
		return "idle"
	}
}

// Reconciler stages one manifest per enabled module for the external
// resolver and removes them again after an unattended build.
type Reconciler struct {
	dir      string
	registry *modules.Registry
	resolver host.Resolver
	logger   *slog.Logger
	metrics  *metrics.Session
	batch    bool

	state State
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithResolver sets the resolution trigger. The default does nothing.
func WithResolver(r host.Resolver) Option {
	return func(rc *Reconciler) {
		rc.resolver = r
	}
}

// WithLogger sets the logger failures and progress are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(rc *Reconciler) {
		rc.logger = l
	}
}

// WithMetrics records the session counters into m.
func WithMetrics(m *metrics.Session) Option {
	return func(rc *Reconciler) {
		rc.metrics = m
	}
}

// WithBatchResolve triggers resolution once per Stage, after every
// manifest is written, instead of once per written manifest.
func WithBatchResolve(batch bool) Option {
	return func(rc *Reconciler) {
		rc.batch = batch
	}
}

// New creates a Reconciler staging manifests into dir.
func New(dir string, reg *modules.Registry, opts ...Option) *Reconciler {
	r := &Reconciler{
		dir:      dir,
		registry: reg,
		resolver: host.Nop,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dir returns the staging directory.
func (r *Reconciler) Dir() string {
	return r.dir
}

// State returns the current state.
func (r *Reconciler) State() State {
	return r.state
}

// StageResult describes one Stage pass.
type StageResult struct {
	// Written lists the manifest files written, in registry order.
	Written []string
	// Disabled lists modules not enabled for Android.
	Disabled []string
	// Empty lists enabled modules without Android dependencies.
	Empty []string
	// Failed maps modules whose snippet did not validate to the error.
	Failed map[string]error
	// Resolutions counts resolution triggers.
	Resolutions int
}

// Stage recreates the staging directory and writes a manifest for every
// enabled module with Android dependencies.
//
// A module whose snippet does not parse is logged and skipped; the other
// modules are still written. Directory, write and settings failures abort
// the pass and leave the reconciler Idle.
func (r *Reconciler) Stage(ctx context.Context, s *settings.Snapshot) (res *StageResult, err error) {
	r.state = Staging
	defer func() {
		if err != nil {
			r.state = Idle
			r.metrics.Failed(deperr.KindOf(err).String())
		}
	}()

	// Recreating the directory drops manifests of modules that are no
	// longer enabled.
	if err := os.RemoveAll(r.dir); err != nil {
		return nil, deperr.New(deperr.KindIO, "android.Stage", r.dir, err)
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, deperr.New(deperr.KindIO, "android.Stage", r.dir, err)
	}

	res = &StageResult{Failed: make(map[string]error)}
	for _, m := range r.registry.Modules() {
		name := m.Name()
		enabled, err := r.registry.IsEnabled(m, s, platform.Android)
		if err != nil {
			return res, err
		}
		if !enabled {
			res.Disabled = append(res.Disabled, name)
			continue
		}
		snippet := manifest.Synthesize(m, s)
		if snippet == "" {
			res.Empty = append(res.Empty, name)
			continue
		}
		doc, err := manifest.Build(name, snippet)
		if err != nil {
			r.logger.Error("android dependencies rejected, manifest not written", "module", name, "err", err)
			r.metrics.Failed(deperr.KindOf(err).String())
			res.Failed[name] = err
			continue
		}

		file := manifest.FileName(name)
		path := filepath.Join(r.dir, file)
		if err := os.WriteFile(path, doc, 0o644); err != nil {
			return res, deperr.New(deperr.KindIO, "android.Stage", path, err)
		}
		res.Written = append(res.Written, file)
		r.metrics.ManifestWritten(name)
		r.logger.Info("staged android dependencies", "module", name, "file", path)

		if !r.batch {
			r.resolve(ctx, res)
		}
	}
	if r.batch && len(res.Written) > 0 {
		r.resolve(ctx, res)
	}

	r.state = Resolved
	return res, nil
}

// Cleanup deletes the staging directory and triggers resolution so the
// resolved state no longer includes any module dependency. A missing
// directory is not an error.
func (r *Reconciler) Cleanup(ctx context.Context) error {
	if err := os.RemoveAll(r.dir); err != nil {
		r.metrics.Failed(deperr.KindIO.String())
		return deperr.New(deperr.KindIO, "android.Cleanup", r.dir, err)
	}
	r.logger.Info("removed android staging directory", "dir", r.dir)
	r.resolve(ctx, nil)
	r.state = Idle
	return nil
}

// Manifests returns the names of the staged manifests, sorted.
func (r *Reconciler) Manifests() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, deperr.New(deperr.KindIO, "android.Manifests", r.dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), "Dependencies.xml") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// resolve triggers resolution without waiting on its outcome beyond
// logging a failure.
func (r *Reconciler) resolve(ctx context.Context, res *StageResult) {
	if res != nil {
		res.Resolutions++
	}
	r.metrics.Resolved()
	if err := r.resolver.Resolve(ctx); err != nil {
		r.logger.Warn("dependency resolution failed", "err", err)
	}
}
