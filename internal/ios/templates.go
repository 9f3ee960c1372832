package ios

import (
	"fmt"
	"path/filepath"

	"github.com/goplus/extdeps/internal/assets"
)

// TemplateExt is the extension of template and active dependency files.
const TemplateExt = ".xml"

// TemplatesGUID identifies the template repository directory in the
// asset index. The directory may be moved; its GUID is stable.
const TemplatesGUID = "0a5f3c1e8b2d4f6a9c7e1b3d5f7a9c2e"

// ResolverPluginPattern matches the iOS resolver plugin assemblies.
const ResolverPluginPattern = "Google.IOSResolver*.dll"

// TemplateSource locates the source file of a dependency template.
type TemplateSource interface {
	// Path returns where the template named name is read from. The
	// file need not exist.
	Path(name string) string
}

// DirTemplates is a template repository at a fixed directory.
type DirTemplates string

func (d DirTemplates) Path(name string) string {
	return filepath.Join(string(d), name+TemplateExt)
}

// ResolveTemplates finds the template repository through idx by guid.
func ResolveTemplates(idx *assets.Index, guid string) (DirTemplates, error) {
	dir, err := idx.PathOf(guid)
	if err != nil {
		return "", fmt.Errorf("failed to locate template repository: %w", err)
	}
	return DirTemplates(dir), nil
}

// PluginLocator lists candidate resolver plugins.
type PluginLocator interface {
	Plugins() ([]string, error)
}

// PluginLocatorFunc adapts a function to the PluginLocator interface.
type PluginLocatorFunc func() ([]string, error)

func (f PluginLocatorFunc) Plugins() ([]string, error) { return f() }

// AssetPlugins locates resolver plugins in idx by base name.
func AssetPlugins(idx *assets.Index) PluginLocator {
	return PluginLocatorFunc(func() ([]string, error) {
		return idx.Glob(ResolverPluginPattern)
	})
}
