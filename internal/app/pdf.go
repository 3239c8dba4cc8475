package app

import (
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// writeArticlePDF renders the article title and text to a minimal A4 PDF.
// This is intentionally simple: a bold title followed by paragraph blocks.
func writeArticlePDF(title, text string, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	if s := strings.TrimSpace(title); s != "" {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.MultiCell(0, 8, s, "", "L", false)
		pdf.SetFont("Helvetica", "", 11)
		pdf.Ln(4)
	}

	for _, para := range strings.Split(text, "\n") {
		s := strings.TrimSpace(para)
		if s == "" {
			pdf.Ln(5)
			continue
		}
		pdf.MultiCell(0, 5, s, "", "L", false)
		pdf.Ln(2)
	}

	return pdf.OutputFileAndClose(outPath)
}
