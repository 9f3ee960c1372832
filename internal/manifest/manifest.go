// Package manifest synthesizes Android dependency manifests.
//
// A module contributes an inner fragment of androidPackage elements. The
// fragment is embedded into a fixed wrapper and the whole document is parsed
// before it is allowed on disk.
package manifest

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goplus/extdeps/internal/deperr"
	"github.com/goplus/extdeps/internal/settings"
)

const (
	header      = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
	wrapperHead = "<dependencies>\n  <androidPackages>\n"
	wrapperTail = "  </androidPackages>\n</dependencies>\n"
)

// SnippetProducer is the Android capability of a feature module.
type SnippetProducer interface {
	AndroidDependencies(s *settings.Snapshot) string
}

// AndroidPackage declares one Android package coordinate and the maven
// repositories it is fetched from. Spec is opaque.
type AndroidPackage struct {
	Spec         string
	Repositories []string
}

// Packages renders pkgs as an androidPackage fragment.
func Packages(pkgs ...AndroidPackage) string {
	var b strings.Builder
	for _, p := range pkgs {
		b.WriteString(`    <androidPackage spec="`)
		b.WriteString(escape(p.Spec))
		b.WriteString(`"`)
		if len(p.Repositories) == 0 {
			b.WriteString("/>\n")
			continue
		}
		b.WriteString(">\n      <repositories>\n")
		for _, repo := range p.Repositories {
			b.WriteString("        <repository>")
			b.WriteString(escape(repo))
			b.WriteString("</repository>\n")
		}
		b.WriteString("      </repositories>\n    </androidPackage>\n")
	}
	return b.String()
}

func escape(s string) string {
	var b bytes.Buffer
	// EscapeText only fails when the writer does.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// Synthesize returns the Android fragment of m, or "" when m has none.
func Synthesize(m SnippetProducer, s *settings.Snapshot) string {
	return strings.TrimSpace(m.AndroidDependencies(s))
}

// Wrap embeds snippet into the fixed manifest wrapper.
func Wrap(snippet string) []byte {
	var b bytes.Buffer
	b.WriteString(header)
	b.WriteString(wrapperHead)
	if snippet = strings.TrimSpace(snippet); snippet != "" {
		b.WriteString("    ")
		b.WriteString(snippet)
		b.WriteString("\n")
	}
	b.WriteString(wrapperTail)
	return b.Bytes()
}

// FileName returns the manifest file name of the module named name.
func FileName(name string) string {
	return name + "Dependencies.xml"
}

// Validate fully parses a wrapped manifest.
// The root must be <dependencies> holding exactly one <androidPackages>.
func Validate(doc []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	depth := 0
	root := ""
	packages := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return deperr.New(deperr.KindConfiguration, "manifest.Validate", "", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch depth {
			case 1:
				if root != "" {
					return deperr.Errorf(deperr.KindConfiguration, "manifest.Validate", "", "multiple root elements")
				}
				root = t.Name.Local
				if root != "dependencies" {
					return deperr.Errorf(deperr.KindConfiguration, "manifest.Validate", "", "root element is <%s>, want <dependencies>", root)
				}
			case 2:
				if t.Name.Local == "androidPackages" {
					packages++
				}
			}
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return deperr.Errorf(deperr.KindConfiguration, "manifest.Validate", "", "text outside root element")
			}
		}
	}
	if root == "" {
		return deperr.Errorf(deperr.KindConfiguration, "manifest.Validate", "", "empty document")
	}
	if packages != 1 {
		return deperr.Errorf(deperr.KindConfiguration, "manifest.Validate", "", "found %d <androidPackages> elements, want 1", packages)
	}
	return nil
}

// Build wraps and validates the fragment of a module named name.
func Build(name, snippet string) ([]byte, error) {
	doc := Wrap(snippet)
	if err := Validate(doc); err != nil {
		var e *deperr.Error
		if errors.As(err, &e) {
			e.Resource = name
			return nil, e
		}
		return nil, fmt.Errorf("failed to validate manifest of %s: %w", name, err)
	}
	return doc, nil
}
