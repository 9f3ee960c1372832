package modules

import (
	"github.com/goplus/extdeps/internal/manifest"
	"github.com/goplus/extdeps/internal/settings"
	"github.com/goplus/extdeps/pkgs/platform"
)

// Android package coordinates of the builtin modules.
const (
	authPackage     = "com.google.android.gms:play-services-auth-base:16+"
	locationPackage = "com.google.android.gms:play-services-location:16+"
)

// iOS dependency templates of the builtin modules.
const (
	CloudAnchorTemplate = "ARCoreiOSCloudAnchorDependencies"
	GeospatialTemplate  = "ARCoreiOSGeospatialDependencies"
	SemanticsTemplate   = "ARCoreiOSSemanticsDependencies"
)

// Default returns the registry of builtin feature modules.
func Default() *Registry {
	r, err := NewRegistry(keyless{}, cloudAnchor{}, geospatial{}, semantics{})
	if err != nil {
		panic(err)
	}
	return r
}

// keyless pulls in the Play Services authentication library used to mint
// OAuth tokens when the Android build authenticates without an API key.
type keyless struct{}

func (keyless) Name() string { return "Keyless" }

func (keyless) Enabled(s *settings.Snapshot, p platform.Platform) (bool, error) {
	if p != platform.Android {
		return false, nil
	}
	return s.AndroidAuthentication == settings.AuthKeyless && (s.CloudAnchors || s.Geospatial), nil
}

func (keyless) AndroidDependencies(*settings.Snapshot) string {
	return manifest.Packages(manifest.AndroidPackage{Spec: authPackage})
}

func (keyless) IOSTemplateNames() []string { return nil }

type cloudAnchor struct{}

func (cloudAnchor) Name() string { return "CloudAnchor" }

func (cloudAnchor) Enabled(s *settings.Snapshot, p platform.Platform) (bool, error) {
	if p != platform.IOS {
		return false, nil
	}
	return s.IOSSupport && s.CloudAnchors, nil
}

func (cloudAnchor) AndroidDependencies(*settings.Snapshot) string { return "" }

func (cloudAnchor) IOSTemplateNames() []string {
	return []string{CloudAnchorTemplate}
}

type geospatial struct{}

func (geospatial) Name() string { return "Geospatial" }

func (geospatial) Enabled(s *settings.Snapshot, p platform.Platform) (bool, error) {
	switch p {
	case platform.Android:
		return s.Geospatial, nil
	case platform.IOS:
		return s.IOSSupport && s.Geospatial, nil
	}
	return false, nil
}

func (geospatial) AndroidDependencies(*settings.Snapshot) string {
	return manifest.Packages(manifest.AndroidPackage{Spec: locationPackage})
}

func (geospatial) IOSTemplateNames() []string {
	return []string{GeospatialTemplate}
}

type semantics struct{}

func (semantics) Name() string { return "Semantics" }

func (semantics) Enabled(s *settings.Snapshot, p platform.Platform) (bool, error) {
	if p != platform.IOS {
		return false, nil
	}
	return s.IOSSupport && s.Semantics, nil
}

func (semantics) AndroidDependencies(*settings.Snapshot) string { return "" }

func (semantics) IOSTemplateNames() []string {
	return []string{SemanticsTemplate}
}
