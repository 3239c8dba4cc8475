package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteArticlePDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "article.pdf")
	text := "First paragraph of the article.\n\nSecond paragraph with more detail."
	if err := writeArticlePDF("A Title", text, out); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if len(b) == 0 {
		t.Fatalf("empty pdf")
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Fatalf("not a pdf: %q", b[:8])
	}
}
