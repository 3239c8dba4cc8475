package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteDebugArtifacts_CreatesDirAndFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "debug")
	res := Result{Title: "A Title", Content: "Some content."}
	if err := writeDebugArtifacts(dir, "<html>raw</html>", res); err != nil {
		t.Fatalf("write: %v", err)
	}
	for name, want := range map[string]string{
		"original.html": "<html>raw</html>",
		"title.txt":     "A Title",
		"content.txt":   "Some content.",
	} {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if string(b) != want {
			t.Fatalf("%s = %q, want %q", name, b, want)
		}
	}
}

func TestWriteDebugArtifacts_OverwritesPriorRun(t *testing.T) {
	dir := t.TempDir()
	if err := writeDebugArtifacts(dir, "old", Result{Title: "old", Content: "old"}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := writeDebugArtifacts(dir, "new", Result{Title: "new", Content: "new"}); err != nil {
		t.Fatalf("second write: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "original.html"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "new" {
		t.Fatalf("expected overwrite, got %q", b)
	}
}

func TestWriteDebugArtifacts_EmptyDirIsNoop(t *testing.T) {
	if err := writeDebugArtifacts("  ", "x", Result{}); err != nil {
		t.Fatalf("expected noop, got %v", err)
	}
}
