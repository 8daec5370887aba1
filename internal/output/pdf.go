package output

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// WritePDF renders the plain-text form of a summary into a paginated A4
// document at path. A monospace face keeps the aligned tables aligned.
func WritePDF(text, title, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.MultiCell(0, 7, tr(title), "", "L", false)
	pdf.Ln(3)

	pdf.SetFont("Courier", "", 9)
	for _, line := range strings.Split(text, "\n") {
		pdf.MultiCell(0, 4.5, tr(line), "", "L", false)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
