package env

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Project layout, relative to the project root:
//
//	extdeps.yaml                                      # settings snapshot
//	Assets/                                           # indexed by the host (.meta files)
//	ProjectSettings/ScriptingDefineSymbols.yaml       # define symbols per group
//	ExtensionsAssets/Editor/<Template>.xml            # active iOS dependency files
//	ExtensionsAssets/Editor/DependenciesTempFolder/   # staged Android manifests
//	ExtensionsAssets/Templates/<Template>.xml         # iOS dependency templates
//	Library/extdeps-session.json                      # record of the last pre-build
const (
	extensionsDir = "ExtensionsAssets"
	editorDir     = "Editor"
	stagingDir    = "DependenciesTempFolder"
	symbolsFile   = "ScriptingDefineSymbols.yaml"
	settingsFile  = "extdeps.yaml"
	templatesDir  = "Templates"
	sessionFile   = "extdeps-session.json"
)

// BatchEnv names the variable that forces unattended mode.
const BatchEnv = "EXTDEPS_BATCH"

// Layout locates the directories of one project.
type Layout struct {
	Root string
}

// ExtensionsDir is the root of the files the reconcilers own.
func (l Layout) ExtensionsDir() string {
	return filepath.Join(l.Root, extensionsDir)
}

// EditorDir is where active iOS dependency files live.
func (l Layout) EditorDir() string {
	return filepath.Join(l.Root, extensionsDir, editorDir)
}

// StagingDir is where Android manifests are staged for one build.
func (l Layout) StagingDir() string {
	return filepath.Join(l.EditorDir(), stagingDir)
}

// AssetsDir is the asset tree the host indexes.
func (l Layout) AssetsDir() string {
	return filepath.Join(l.Root, "Assets")
}

// SymbolsFile is the file holding the define-symbol lists.
func (l Layout) SymbolsFile() string {
	return filepath.Join(l.Root, "ProjectSettings", symbolsFile)
}

// SettingsFile is the settings snapshot of the project.
func (l Layout) SettingsFile() string {
	return filepath.Join(l.Root, settingsFile)
}

// TemplatesDir is the default iOS template repository, used when the
// repository cannot be found by GUID.
func (l Layout) TemplatesDir() string {
	return filepath.Join(l.Root, extensionsDir, templatesDir)
}

// SessionFile records what the last pre-build changed.
func (l Layout) SessionFile() string {
	return filepath.Join(l.Root, "Library", sessionFile)
}

// FindProjectRoot walks up from dir to the first directory holding a
// ProjectSettings directory or an extdeps.yaml file.
func FindProjectRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if fi, err := os.Stat(filepath.Join(dir, "ProjectSettings")); err == nil && fi.IsDir() {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, settingsFile)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a project (no ProjectSettings or %s found)", settingsFile)
		}
		dir = parent
	}
}

// BatchMode reports whether the host runs unattended: EXTDEPS_BATCH when
// set, otherwise the conventional CI variable.
func BatchMode() bool {
	if v, ok := os.LookupEnv(BatchEnv); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	}
	ci, err := strconv.ParseBool(os.Getenv("CI"))
	return err == nil && ci
}
