package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// writeDebugArtifacts persists the raw rendered page and the extracted fields
// under dir, creating it if absent and overwriting any prior run's output.
// The file set is fixed: original.html, title.txt, content.txt.
func writeDebugArtifacts(dir string, rawHTML string, res Result) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir debug dir: %w", err)
	}
	files := []struct {
		name string
		data string
	}{
		{"original.html", rawHTML},
		{"title.txt", res.Title},
		{"content.txt", res.Content},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.name), []byte(f.data), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	return nil
}
