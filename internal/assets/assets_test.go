package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goplus/extdeps/internal/deperr"
)

func writeAsset(t *testing.T, path, guid string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}
	if guid != "" {
		if err := WriteMeta(path, guid); err != nil {
			t.Fatal(err)
		}
	}
}

func TestPathOf(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, filepath.Join(root, "Templates", "Pods.xml"), "aaaa")
	writeAsset(t, filepath.Join(root, "One", "Dup.dll"), "dddd")
	writeAsset(t, filepath.Join(root, "Two", "Dup.dll"), "dddd")

	x := New([]string{root, filepath.Join(root, "missing-root")})

	got, err := x.PathOf("aaaa")
	if err != nil {
		t.Fatalf("PathOf() failed: %v", err)
	}
	if want := filepath.Join(root, "Templates", "Pods.xml"); got != want {
		t.Errorf("PathOf() = %q, want %q", got, want)
	}

	if _, err := x.PathOf("ffff"); !errors.Is(err, deperr.ErrMissingResource) {
		t.Errorf("PathOf(unknown) error = %v, want missing resource", err)
	}
	if _, err := x.PathOf("dddd"); !errors.Is(err, deperr.ErrDuplicateResource) {
		t.Errorf("PathOf(dup) error = %v, want duplicate resource", err)
	}
}

func TestGlob(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, filepath.Join(root, "Plugins", "Google.IOSResolver_v1.2.dll"), "1111")
	writeAsset(t, filepath.Join(root, "Plugins", "Google.JarResolver_v1.2.dll"), "2222")
	writeAsset(t, filepath.Join(root, "Plugins", "Unindexed.dll"), "")

	x := New([]string{root})
	got, err := x.Glob("Google.IOSResolver*.dll")
	if err != nil {
		t.Fatalf("Glob() failed: %v", err)
	}
	want := []string{filepath.Join(root, "Plugins", "Google.IOSResolver_v1.2.dll")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Glob() mismatch (-want +got):\n%s", diff)
	}

	if _, err := x.Glob("[bad"); err == nil {
		t.Error("Glob() accepted a malformed pattern")
	}
}

func TestRefreshSeesNewFiles(t *testing.T) {
	root := t.TempDir()
	x := New([]string{root})
	if _, err := x.PathOf("bbbb"); !errors.Is(err, deperr.ErrMissingResource) {
		t.Fatalf("PathOf() before write = %v, want missing", err)
	}
	writeAsset(t, filepath.Join(root, "New.xml"), "bbbb")
	if _, err := x.PathOf("bbbb"); err == nil {
		t.Fatal("index refreshed without Refresh()")
	}
	if err := x.Refresh(); err != nil {
		t.Fatal(err)
	}
	if _, err := x.PathOf("bbbb"); err != nil {
		t.Errorf("PathOf() after Refresh = %v", err)
	}
}

func TestImport(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, filepath.Join(root, "Editor", "Foo.xml"), "")
	writeAsset(t, filepath.Join(root, "Editor", ".hidden"), "")

	x := New([]string{root}, WithImport())
	if err := x.Refresh(); err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "Editor", "Foo.xml.meta")); err != nil {
		t.Errorf("import did not write companion: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "Editor", ".hidden.meta")); err == nil {
		t.Error("import wrote a companion for a dotfile")
	}

	guid := guidOf("Editor/Foo.xml")
	got, err := x.PathOf(guid)
	if err != nil {
		t.Fatalf("PathOf(imported) failed: %v", err)
	}
	if got != filepath.Join(root, "Editor", "Foo.xml") {
		t.Errorf("PathOf(imported) = %q", got)
	}

	// A second import keeps the existing GUID.
	if err := x.Refresh(); err != nil {
		t.Fatal(err)
	}
	if _, err := x.PathOf(guid); err != nil {
		t.Errorf("GUID changed across imports: %v", err)
	}
}
