package internal

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goplus/extdeps/internal/assets"
	"github.com/goplus/extdeps/internal/build"
	"github.com/goplus/extdeps/internal/deperr"
	"github.com/goplus/extdeps/internal/env"
	"github.com/goplus/extdeps/internal/host"
	"github.com/goplus/extdeps/internal/ios"
	"github.com/goplus/extdeps/internal/metrics"
	"github.com/goplus/extdeps/internal/modules"
	"github.com/goplus/extdeps/internal/settings"
	"github.com/goplus/extdeps/internal/symbols"
)

// project is everything a command needs to reconcile one project.
type project struct {
	layout   env.Layout
	settings *settings.Snapshot
	index    *assets.Index
	logger   *slog.Logger
	metrics  *metrics.Session
}

func openProject(cmd *cobra.Command) (*project, error) {
	logger, err := newLogger(logLevel, logFormat, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	root, err := env.FindProjectRoot(projectDir)
	if err != nil {
		return nil, err
	}
	layout := env.Layout{Root: root}

	var snap *settings.Snapshot
	if settingsPath != "" {
		snap, err = settings.Load(settingsPath)
	} else {
		snap, err = settings.LoadOptional(root)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	p := &project{
		layout:   layout,
		settings: snap,
		index:    assets.New([]string{layout.AssetsDir(), layout.ExtensionsDir()}, assets.WithImport()),
		logger:   logger,
	}
	if metricsFile != "" {
		p.metrics = metrics.New()
	}
	logger.Debug("opened project", "root", root)
	return p, nil
}

// templates finds the template repository by GUID, falling back to the
// default directory when it is not indexed.
func (p *project) templates() (ios.TemplateSource, error) {
	src, err := ios.ResolveTemplates(p.index, ios.TemplatesGUID)
	if err == nil {
		return src, nil
	}
	if errors.Is(err, deperr.ErrMissingResource) {
		p.logger.Debug("template repository not indexed, using default", "dir", p.layout.TemplatesDir())
		return ios.DirTemplates(p.layout.TemplatesDir()), nil
	}
	return nil, err
}

func (p *project) session(batch bool) (*build.Session, error) {
	src, err := p.templates()
	if err != nil {
		return nil, err
	}
	return build.New(build.Options{
		Layout:       p.layout,
		Registry:     modules.Default(),
		Resolver:     host.NewCommandResolver(resolveCmd, host.WithDir(p.layout.Root)),
		AssetIndex:   p.index,
		Symbols:      symbols.NewFileStore(p.layout.SymbolsFile()),
		Templates:    src,
		Plugins:      ios.AssetPlugins(p.index),
		Batch:        batch,
		BatchResolve: batchResolve,
		Logger:       p.logger,
		Metrics:      p.metrics,
	}), nil
}

// finish writes the metrics textfile, if requested, and returns err.
func (p *project) finish(err error) error {
	if werr := p.metrics.WriteFile(metricsFile); werr != nil {
		p.logger.Warn("failed to write metrics", "file", metricsFile, "err", werr)
	}
	return err
}
