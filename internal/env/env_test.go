package env

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLayout(t *testing.T) {
	l := Layout{Root: "/proj"}
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"editor", l.EditorDir(), filepath.Join("/proj", "ExtensionsAssets", "Editor")},
		{"staging", l.StagingDir(), filepath.Join("/proj", "ExtensionsAssets", "Editor", "DependenciesTempFolder")},
		{"assets", l.AssetsDir(), filepath.Join("/proj", "Assets")},
		{"symbols", l.SymbolsFile(), filepath.Join("/proj", "ProjectSettings", "ScriptingDefineSymbols.yaml")},
		{"settings", l.SettingsFile(), filepath.Join("/proj", "extdeps.yaml")},
		{"extensions", l.ExtensionsDir(), filepath.Join("/proj", "ExtensionsAssets")},
		{"templates", l.TemplatesDir(), filepath.Join("/proj", "ExtensionsAssets", "Templates")},
		{"session", l.SessionFile(), filepath.Join("/proj", "Library", "extdeps-session.json")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "ProjectSettings"), 0755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "Assets", "Scripts")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot() failed: %v", err)
	}
	want, _ := filepath.EvalSymlinks(root)
	if gotEval, _ := filepath.EvalSymlinks(got); gotEval != want {
		t.Errorf("FindProjectRoot() = %q, want %q", got, root)
	}
}

func TestFindProjectRootSettingsFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "extdeps.yaml"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	got, err := FindProjectRoot(root)
	if err != nil {
		t.Fatalf("FindProjectRoot() failed: %v", err)
	}
	if got != root {
		t.Errorf("FindProjectRoot() = %q, want %q", got, root)
	}
}

func TestBatchMode(t *testing.T) {
	tests := []struct {
		name  string
		batch string
		ci    string
		want  bool
	}{
		{"explicit true", "true", "", true},
		{"explicit false wins over CI", "0", "true", false},
		{"garbage", "sometimes", "", false},
		{"ci fallback", "", "true", true},
		{"nothing", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.batch != "" {
				t.Setenv(BatchEnv, tt.batch)
			} else {
				t.Setenv(BatchEnv, "")
				os.Unsetenv(BatchEnv)
			}
			t.Setenv("CI", tt.ci)
			if got := BatchMode(); got != tt.want {
				t.Errorf("BatchMode() = %v, want %v", got, tt.want)
			}
		})
	}
}
