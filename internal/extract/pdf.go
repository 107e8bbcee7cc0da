package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/notexhq/notex-backend/internal/apperr"
)

// PDF extracts the text of every page, joining non-empty pages with newlines
// in page order. Pages that yield no text are skipped.
func PDF(data []byte) (_ string, err error) {
	// The pdf library panics on some malformed inputs instead of returning
	// an error.
	defer func() {
		if r := recover(); r != nil {
			err = apperr.Newf(apperr.ExtractionError, "Error reading PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperr.Wrap(apperr.ExtractionError, "Error reading PDF", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", apperr.Wrap(apperr.ExtractionError, fmt.Sprintf("Error reading PDF page %d", i), err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, text)
	}

	return strings.TrimSpace(strings.Join(pages, "\n")), nil
}
