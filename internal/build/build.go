// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package build drives the reconcilers around one host build.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/goplus/extdeps/internal/android"
	"github.com/goplus/extdeps/internal/env"
	"github.com/goplus/extdeps/internal/host"
	"github.com/goplus/extdeps/internal/ios"
	"github.com/goplus/extdeps/internal/metrics"
	"github.com/goplus/extdeps/internal/modules"
	"github.com/goplus/extdeps/internal/settings"
	"github.com/goplus/extdeps/internal/symbols"
	"github.com/goplus/extdeps/pkgs/platform"
)

// Options contains options for New.
type Options struct {
	// Layout locates the project directories.
	Layout env.Layout
	// Registry lists the feature modules. Defaults to modules.Default().
	Registry *modules.Registry
	// Resolver triggers external dependency resolution.
	Resolver host.Resolver
	// AssetIndex is refreshed after iOS dependency files change.
	AssetIndex host.AssetIndex
	// Symbols stores the define-symbol lists.
	Symbols symbols.Store
	// Templates locates iOS dependency templates. Defaults to
	// Layout.TemplatesDir().
	Templates ios.TemplateSource
	// Plugins locates the iOS resolver plugin.
	Plugins ios.PluginLocator
	// Batch, if true, undoes the pre-build changes after the build.
	Batch bool
	// BatchResolve, if true, triggers Android resolution once per
	// pre-build instead of once per manifest.
	BatchResolve bool
	Logger       *slog.Logger
	Metrics      *metrics.Session
}

// Session holds the reconcilers of one build invocation.
type Session struct {
	layout  env.Layout
	batch   bool
	logger  *slog.Logger
	android *android.Reconciler
	ios     *ios.Reconciler
	now     func() time.Time
}

// New creates a Session.
func New(opts Options) *Session {
	if opts.Registry == nil {
		opts.Registry = modules.Default()
	}
	if opts.Resolver == nil {
		opts.Resolver = host.Nop
	}
	if opts.AssetIndex == nil {
		opts.AssetIndex = host.Nop
	}
	if opts.Templates == nil {
		opts.Templates = ios.DirTemplates(opts.Layout.TemplatesDir())
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	iosOpts := []ios.Option{
		ios.WithRegistry(opts.Registry),
		ios.WithAssetIndex(opts.AssetIndex),
		ios.WithLogger(opts.Logger.With("platform", platform.IOS.String())),
		ios.WithMetrics(opts.Metrics),
	}
	if opts.Symbols != nil {
		iosOpts = append(iosOpts, ios.WithSymbols(opts.Symbols))
	}
	if opts.Plugins != nil {
		iosOpts = append(iosOpts, ios.WithPluginLocator(opts.Plugins))
	}

	return &Session{
		layout: opts.Layout,
		batch:  opts.Batch,
		logger: opts.Logger,
		android: android.New(opts.Layout.StagingDir(), opts.Registry,
			android.WithResolver(opts.Resolver),
			android.WithLogger(opts.Logger.With("platform", platform.Android.String())),
			android.WithBatchResolve(opts.BatchResolve),
			android.WithMetrics(opts.Metrics),
		),
		ios: ios.New(opts.Layout.EditorDir(), opts.Templates, iosOpts...),
		now: time.Now,
	}
}

// Android returns the Android reconciler.
func (s *Session) Android() *android.Reconciler {
	return s.android
}

// IOS returns the iOS reconciler.
func (s *Session) IOS() *ios.Reconciler {
	return s.ios
}

// PreBuild brings the dependency files of p in line with snap.
// Per-module failures are logged by the reconcilers; only errors that
// must stop the build are returned.
func (s *Session) PreBuild(ctx context.Context, p platform.Platform, snap *settings.Snapshot) error {
	rec := &Record{Platform: p.String(), Batch: s.batch, BuildTime: s.now()}
	switch p {
	case platform.Android:
		res, err := s.android.Stage(ctx, snap)
		if err != nil {
			return fmt.Errorf("failed to stage android dependencies: %w", err)
		}
		s.logger.Info("android dependencies staged",
			"written", len(res.Written), "failed", len(res.Failed), "resolutions", res.Resolutions)
		rec.Manifests = res.Written
	case platform.IOS:
		if err := s.ios.ManageDependencies(ctx, snap); err != nil {
			return fmt.Errorf("failed to manage ios dependencies: %w", err)
		}
		rec.Templates = s.ios.Active()
		s.logger.Info("ios dependencies activated", "templates", rec.Templates)
	default:
		s.logger.Debug("no native dependencies for platform", "platform", p.String())
		return nil
	}
	if err := saveRecord(s.layout.SessionFile(), rec); err != nil {
		return fmt.Errorf("failed to save session record: %w", err)
	}
	return nil
}

// PostBuild undoes the pre-build changes of p in batch mode. In
// interactive mode it does nothing.
func (s *Session) PostBuild(ctx context.Context, p platform.Platform) error {
	if !s.batch {
		return nil
	}
	var err error
	switch p {
	case platform.Android:
		err = s.android.Cleanup(ctx)
	case platform.IOS:
		err = s.ios.Cleanup(ctx)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to clean up %s dependencies: %w", p, err)
	}
	if err := removeRecord(s.layout.SessionFile()); err != nil {
		return fmt.Errorf("failed to remove session record: %w", err)
	}
	return nil
}

// Run runs PreBuild, build and PostBuild. PostBuild runs even when build
// fails; both errors are returned.
func (s *Session) Run(ctx context.Context, p platform.Platform, snap *settings.Snapshot, build func(context.Context) error) error {
	if err := s.PreBuild(ctx, p, snap); err != nil {
		return err
	}
	var errs []error
	if build != nil {
		if err := build(ctx); err != nil {
			errs = append(errs, fmt.Errorf("build failed: %w", err))
		}
	}
	if err := s.PostBuild(ctx, p); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Clean removes the staged Android manifests and deactivates the iOS
// templates the last pre-build recorded, whatever the mode it ran in.
func (s *Session) Clean(ctx context.Context) error {
	path := s.layout.SessionFile()
	rec, err := LoadRecord(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("ignoring unreadable session record", "file", path, "err", err)
		rec = nil
	}
	if err := s.android.Cleanup(ctx); err != nil {
		return fmt.Errorf("failed to clean up android dependencies: %w", err)
	}
	if rec != nil {
		for _, name := range rec.Templates {
			if err := s.ios.SetEnabled(false, name); err != nil {
				return fmt.Errorf("failed to deactivate %s: %w", name, err)
			}
		}
	}
	return removeRecord(path)
}
