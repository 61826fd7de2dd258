package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestKeyIsAbsoluteAndSlashed(t *testing.T) {
	key := Key("some/relative/dir")
	if !filepath.IsAbs(filepath.FromSlash(key)) {
		t.Errorf("Key(%q) = %q, expected an absolute path", "some/relative/dir", key)
	}
}

func TestKeyCleansDotSegments(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	a := Key(filepath.Join(wd, "a", "b"))
	b := Key(filepath.Join(wd, "a", ".", "c", "..", "b"))
	if a != b {
		t.Errorf("expected equal keys, got %q and %q", a, b)
	}
}

func TestSameKey(t *testing.T) {
	if !SameKey("x/y", "x/y") {
		t.Error("identical paths should produce the same key")
	}
	if SameKey("x/y", "x/z") {
		t.Error("different paths should produce different keys")
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	if !Exists(dir) {
		t.Errorf("Exists(%q) = false for existing directory", dir)
	}
	if Exists(filepath.Join(dir, "nope")) {
		t.Error("Exists returned true for a missing path")
	}
}
