package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/goplus/extdeps/internal/deperr"
)

// FileName is the settings file looked up at the project root.
const FileName = "extdeps.yaml"

// SchemaMajor is the only settings schema major version understood.
const SchemaMajor = "v1"

// AuthStrategy selects how a platform authenticates against the cloud services.
type AuthStrategy string

const (
	AuthNone    AuthStrategy = "none"
	AuthAPIKey  AuthStrategy = "api_key"
	AuthKeyless AuthStrategy = "keyless"
)

func (a AuthStrategy) valid() bool {
	switch a {
	case "", AuthNone, AuthAPIKey, AuthKeyless:
		return true
	}
	return false
}

// Snapshot is the user-configured view of the options that affect module
// enablement for one build. Nothing in this repository mutates a Snapshot
// after Parse returns it.
type Snapshot struct {
	Version               string       `yaml:"version,omitempty"`
	IOSSupport            bool         `yaml:"ios_support"`
	AndroidAuthentication AuthStrategy `yaml:"android_authentication,omitempty"`
	IOSAuthentication     AuthStrategy `yaml:"ios_authentication,omitempty"`
	CloudAnchors          bool         `yaml:"cloud_anchors"`
	Geospatial            bool         `yaml:"geospatial"`
	Semantics             bool         `yaml:"semantics"`
}

// Parse decodes and validates a settings document.
// Unknown fields are rejected so a typo never silently disables a module.
func Parse(data []byte) (*Snapshot, error) {
	var s Snapshot
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// An empty document decodes as io.EOF and means "all defaults".
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, deperr.New(deperr.KindConfiguration, "settings.Parse", "", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads the settings file at path.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return Parse(data)
}

// LoadOptional reads extdeps.yaml from dir if present.
// An absent file yields the zero Snapshot: every module disabled.
func LoadOptional(dir string) (*Snapshot, error) {
	s, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Snapshot{}, nil
		}
		return nil, err
	}
	return s, nil
}

// Validate reports a configuration error if the snapshot is malformed.
func (s *Snapshot) Validate() error {
	if s == nil {
		return deperr.Errorf(deperr.KindConfiguration, "settings.Validate", "", "no settings snapshot")
	}
	if s.Version != "" {
		if !semver.IsValid(s.Version) {
			return deperr.Errorf(deperr.KindConfiguration, "settings.Validate", "version", "invalid version %q", s.Version)
		}
		if semver.Major(s.Version) != SchemaMajor {
			return deperr.Errorf(deperr.KindConfiguration, "settings.Validate", "version",
				"unsupported settings version %s (want %s.x.y)", s.Version, SchemaMajor)
		}
	}
	if !s.AndroidAuthentication.valid() {
		return deperr.Errorf(deperr.KindConfiguration, "settings.Validate", "android_authentication",
			"unknown strategy %q", s.AndroidAuthentication)
	}
	if !s.IOSAuthentication.valid() {
		return deperr.Errorf(deperr.KindConfiguration, "settings.Validate", "ios_authentication",
			"unknown strategy %q", s.IOSAuthentication)
	}
	return nil
}
