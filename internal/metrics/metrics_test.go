package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNilSession(t *testing.T) {
	var s *Session
	s.ManifestWritten("A")
	s.Resolved()
	s.TemplateToggled("Foo", true)
	s.ActiveTemplates(3)
	s.Failed("io")
	if err := s.WriteFile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Errorf("WriteFile() on nil session = %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	s := New()
	s.ManifestWritten("Geospatial")
	s.ManifestWritten("Geospatial")
	s.Resolved()
	s.TemplateToggled("ARCoreiOSGeospatialDependencies", true)
	s.ActiveTemplates(1)
	s.Failed("configuration")

	path := filepath.Join(t.TempDir(), "extdeps.prom")
	if err := s.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{
		`extdeps_manifests_written_total{module="Geospatial"} 2`,
		`extdeps_resolutions_total 1`,
		`extdeps_template_transitions_total{state="enabled",template="ARCoreiOSGeospatialDependencies"} 1`,
		`extdeps_active_templates 1`,
		`extdeps_failures_total{kind="configuration"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q:\n%s", want, out)
		}
	}
}

func TestWriteFileEmptyPath(t *testing.T) {
	if err := New().WriteFile(""); err != nil {
		t.Errorf("WriteFile(\"\") = %v", err)
	}
}
