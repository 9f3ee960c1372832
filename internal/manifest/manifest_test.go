package manifest

import (
	"encoding/xml"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goplus/extdeps/internal/deperr"
	"github.com/goplus/extdeps/internal/settings"
)

type producerFunc func(s *settings.Snapshot) string

func (f producerFunc) AndroidDependencies(s *settings.Snapshot) string { return f(s) }

// document mirrors the wrapper for decoding in tests.
type document struct {
	XMLName  xml.Name `xml:"dependencies"`
	Packages struct {
		Text  string `xml:",chardata"`
		Items []struct {
			Spec         string   `xml:"spec,attr"`
			Repositories []string `xml:"repositories>repository"`
		} `xml:"androidPackage"`
	} `xml:"androidPackages"`
}

func TestPackagesRoundTrip(t *testing.T) {
	snippet := Packages(
		AndroidPackage{Spec: "com.example:lib:1.0"},
		AndroidPackage{Spec: "com.example:other:2.0", Repositories: []string{"https://maven.example.com/?a=1&b=2"}},
	)
	doc := Wrap(snippet)
	if err := Validate(doc); err != nil {
		t.Fatalf("Validate() failed: %v\n%s", err, doc)
	}

	var got document
	if err := xml.Unmarshal(doc, &got); err != nil {
		t.Fatalf("xml.Unmarshal() failed: %v", err)
	}
	var specs []string
	for _, item := range got.Packages.Items {
		specs = append(specs, item.Spec)
	}
	if diff := cmp.Diff([]string{"com.example:lib:1.0", "com.example:other:2.0"}, specs); diff != "" {
		t.Errorf("specs mismatch (-want +got):\n%s", diff)
	}
	if repos := got.Packages.Items[1].Repositories; len(repos) != 1 || repos[0] != "https://maven.example.com/?a=1&b=2" {
		t.Errorf("repositories = %v", repos)
	}
}

func TestPackagesEscapesSpec(t *testing.T) {
	snippet := Packages(AndroidPackage{Spec: `a"b<c>`})
	if err := Validate(Wrap(snippet)); err != nil {
		t.Fatalf("escaped spec does not validate: %v", err)
	}
	if strings.Contains(snippet, `a"b`) {
		t.Errorf("quote was not escaped: %s", snippet)
	}
}

func TestSynthesize(t *testing.T) {
	s := &settings.Snapshot{}
	if got := Synthesize(producerFunc(func(*settings.Snapshot) string { return "  \n" }), s); got != "" {
		t.Errorf("Synthesize() = %q, want empty", got)
	}
	if got := Synthesize(producerFunc(func(*settings.Snapshot) string { return " pkg:a:1.0\n" }), s); got != "pkg:a:1.0" {
		t.Errorf("Synthesize() = %q, want %q", got, "pkg:a:1.0")
	}
}

func TestWrapOpaqueSnippet(t *testing.T) {
	doc := Wrap("pkg:a:1.0")
	if err := Validate(doc); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	var got document
	if err := xml.Unmarshal(doc, &got); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(got.Packages.Text) != "pkg:a:1.0" {
		t.Errorf("wrapped text = %q, want %q", got.Packages.Text, "pkg:a:1.0")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"wrapped empty", string(Wrap("")), false},
		{"unclosed element", string(Wrap(`<androidPackage spec="x">`)), true},
		{"injected sibling", string(Wrap(`</androidPackages><androidPackages>`)), true},
		{"mismatched tags", string(Wrap(`<a></b>`)), true},
		{"wrong root", `<packages><androidPackages/></packages>`, true},
		{"no packages element", `<dependencies/>`, true},
		{"two packages elements", `<dependencies><androidPackages/><androidPackages/></dependencies>`, true},
		{"trailing text", `<dependencies><androidPackages/></dependencies>junk`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.doc))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, deperr.ErrConfiguration) {
				t.Errorf("Validate() error = %v, want a configuration error", err)
			}
		})
	}
}

func TestBuildNamesModule(t *testing.T) {
	_, err := Build("Broken", `<androidPackage spec="x">`)
	if err == nil {
		t.Fatal("Build() succeeded for malformed snippet")
	}
	var e *deperr.Error
	if !errors.As(err, &e) || e.Resource != "Broken" {
		t.Errorf("Build() error = %v, want resource Broken", err)
	}
}

func TestFileName(t *testing.T) {
	if got := FileName("Geospatial"); got != "GeospatialDependencies.xml" {
		t.Errorf("FileName() = %q", got)
	}
}
