// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package assets indexes project assets by the GUID recorded in their
// companion .meta files, so resources can be located by a stable
// identifier instead of a literal path.
package assets

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goplus/extdeps/internal/deperr"
)

// MetaExt is the suffix of the companion metadata file of an asset.
const MetaExt = ".meta"

type meta struct {
	GUID string `yaml:"guid"`
}

// Index maps asset GUIDs to asset paths under a set of roots.
type Index struct {
	roots   []string
	imports bool
	scanned bool
	byGUID  map[string][]string
	paths   []string
}

// Option configures an Index.
type Option func(*Index)

// WithImport makes Refresh write a .meta companion for every file that
// lacks one, the way the host imports new assets. The GUID is derived
// from the path relative to its root so repeated imports agree.
func WithImport() Option {
	return func(x *Index) {
		x.imports = true
	}
}

// New creates an Index over roots. Nothing is read until the first
// Refresh or lookup.
func New(roots []string, opts ...Option) *Index {
	x := &Index{roots: slices.Clone(roots)}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Refresh rescans every root. Absent roots are skipped.
func (x *Index) Refresh() error {
	if x.imports {
		if err := x.importNew(); err != nil {
			return err
		}
	}

	byGUID := make(map[string][]string)
	var paths []string
	for _, root := range x.roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) && path == root {
					return fs.SkipDir
				}
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, MetaExt) {
				return nil
			}
			guid, err := readGUID(path)
			if err != nil {
				return err
			}
			asset := strings.TrimSuffix(path, MetaExt)
			paths = append(paths, asset)
			if guid != "" {
				byGUID[guid] = append(byGUID[guid], asset)
			}
			return nil
		})
		if err != nil {
			return deperr.New(deperr.KindIO, "assets.Refresh", root, err)
		}
	}
	slices.Sort(paths)
	x.byGUID = byGUID
	x.paths = paths
	x.scanned = true
	return nil
}

func (x *Index) ensure() error {
	if x.scanned {
		return nil
	}
	return x.Refresh()
}

// PathOf returns the asset whose .meta records guid.
func (x *Index) PathOf(guid string) (string, error) {
	if err := x.ensure(); err != nil {
		return "", err
	}
	found := x.byGUID[guid]
	switch len(found) {
	case 0:
		return "", deperr.Errorf(deperr.KindMissingResource, "assets.PathOf", guid, "no asset with this guid")
	case 1:
		return found[0], nil
	}
	return "", deperr.Errorf(deperr.KindDuplicateResource, "assets.PathOf", guid,
		"%d assets share this guid: %s", len(found), strings.Join(found, ", "))
}

// Glob returns the indexed assets whose base name matches pattern, sorted.
func (x *Index) Glob(pattern string) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("failed to glob assets: %w", err)
	}
	if err := x.ensure(); err != nil {
		return nil, err
	}
	var out []string
	for _, p := range x.paths {
		if ok, _ := filepath.Match(pattern, filepath.Base(p)); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (x *Index) importNew() error {
	for _, root := range x.roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) && path == root {
					return fs.SkipDir
				}
				return err
			}
			if d.IsDir() || strings.HasSuffix(path, MetaExt) || strings.HasPrefix(d.Name(), ".") {
				return nil
			}
			if _, err := os.Stat(path + MetaExt); err == nil {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			return WriteMeta(path, guidOf(filepath.ToSlash(rel)))
		})
		if err != nil {
			return deperr.New(deperr.KindIO, "assets.Import", root, err)
		}
	}
	return nil
}

func guidOf(rel string) string {
	sum := md5.Sum([]byte(rel))
	return hex.EncodeToString(sum[:])
}

func readGUID(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var m meta
	if err := yaml.Unmarshal(data, &m); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return m.GUID, nil
}

// WriteMeta writes a minimal .meta companion for asset.
func WriteMeta(asset, guid string) error {
	data, err := yaml.Marshal(struct {
		FileFormatVersion int    `yaml:"fileFormatVersion"`
		GUID              string `yaml:"guid"`
	}{2, guid})
	if err != nil {
		return err
	}
	return os.WriteFile(asset+MetaExt, data, 0o644)
}
