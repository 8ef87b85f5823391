package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

func writePageSet(t *testing.T, base, name string, files ...string) {
	t.Helper()
	for _, f := range files {
		writeFile(t, filepath.Join(base, "templates", name, f+".html"), "<!-- "+f+" -->")
	}
}

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()

		if _, err := NewFilesystemLoader(t.TempDir()); err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
	})

	t.Run("empty path returns error", func(t *testing.T) {
		t.Parallel()

		if _, err := NewFilesystemLoader(""); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("nonexistent directory returns error", func(t *testing.T) {
		t.Parallel()

		if _, err := NewFilesystemLoader("/nonexistent/path/abc123xyz"); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory returns error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "file.txt")
		writeFile(t, path, "test")
		if _, err := NewFilesystemLoader(path); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestFilesystemLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeFile(t, filepath.Join(base, "styles", "custom.css"), "body { color: red; }")
	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	got, err := loader.LoadStyle("custom")
	if err != nil || got != "body { color: red; }" {
		t.Errorf("LoadStyle(custom) = %q, %v", got, err)
	}
	if _, err := loader.LoadStyle("missing"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(missing) error = %v, want ErrStyleNotFound", err)
	}
}

func TestFilesystemLoader_LoadPageSet(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writePageSet(t, base, "full", "layout", "editor", "viewer", "error")
	writePageSet(t, base, "partial", "layout", "editor")
	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	ps, err := loader.LoadPageSet("full")
	if err != nil {
		t.Fatalf("LoadPageSet(full) error = %v", err)
	}
	if ps.Name != "full" || ps.Viewer != "<!-- viewer -->" {
		t.Errorf("LoadPageSet(full) = %+v", ps)
	}

	if _, err := loader.LoadPageSet("partial"); !errors.Is(err, ErrIncompletePageSet) {
		t.Errorf("LoadPageSet(partial) error = %v, want ErrIncompletePageSet", err)
	}
	if _, err := loader.LoadPageSet("none"); !errors.Is(err, ErrPageSetNotFound) {
		t.Errorf("LoadPageSet(none) error = %v, want ErrPageSetNotFound", err)
	}
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "secret.css"), "secret")
	if err := os.MkdirAll(filepath.Join(base, "styles"), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.Symlink(filepath.Join(outside, "secret.css"), filepath.Join(base, "styles", "leak.css")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := loader.LoadStyle("leak"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("LoadStyle(leak) error = %v, want ErrPathTraversal", err)
	}
}
