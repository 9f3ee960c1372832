package symbols

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/goplus/extdeps/internal/deperr"
)

// Store reads and writes the define-symbol list of a platform group.
type Store interface {
	Get(group string) (string, error)
	Set(group, value string) error
}

// FileStore keeps every group's list in one yaml document:
//
//	Android: FOO;BAR
//	iOS: ARCORE_EXTENSIONS_IOS_SUPPORT
type FileStore struct {
	path string
}

// NewFileStore returns a Store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	groups := map[string]string{}
	if err := yaml.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(f.path), err)
	}
	return groups, nil
}

// Get returns the list of group; an absent file or group reads as "".
func (f *FileStore) Get(group string) (string, error) {
	groups, err := f.load()
	if err != nil {
		return "", deperr.New(deperr.KindIO, "symbols.Get", group, err)
	}
	return groups[group], nil
}

// Set replaces the list of group, keeping the other groups.
func (f *FileStore) Set(group, value string) error {
	groups, err := f.load()
	if err != nil {
		return deperr.New(deperr.KindIO, "symbols.Set", group, err)
	}
	if value == "" {
		delete(groups, group)
	} else {
		groups[group] = value
	}
	data, err := yaml.Marshal(groups)
	if err != nil {
		return deperr.New(deperr.KindIO, "symbols.Set", group, err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return deperr.New(deperr.KindIO, "symbols.Set", group, err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return deperr.New(deperr.KindIO, "symbols.Set", group, err)
	}
	return nil
}

// Toggle adds sym to group's list when enabled and removes it otherwise.
// The store is written only when the list changes.
func Toggle(s Store, group, sym string, enabled bool) (changed bool, err error) {
	cur, err := s.Get(group)
	if err != nil {
		return false, err
	}
	l := Parse(cur)
	switch {
	case enabled && !l.Has(sym):
		l = l.Add(sym)
	case !enabled && l.Has(sym):
		l = l.Remove(sym)
	default:
		return false, nil
	}
	if err := s.Set(group, l.String()); err != nil {
		return false, err
	}
	return true, nil
}
