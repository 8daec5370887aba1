package output

import (
	"fmt"
	"strings"

	"github.com/gingfrederik/docx"
)

// WriteDocx renders the plain-text form of a summary into a Word document at
// path, one paragraph per line.
func WriteDocx(text, title, path string) error {
	f := docx.NewFile()

	f.AddParagraph().AddText(title).Size(16)
	f.AddParagraph()

	for _, line := range strings.Split(text, "\n") {
		para := f.AddParagraph()
		if line != "" {
			para.AddText(line).Size(11)
		}
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}
