package textsource

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// readPDF concatenates per-page text. Pages whose text cannot be decoded
// are skipped rather than failing the whole document; partial text still
// feeds the extraction pipeline.
func readPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}
