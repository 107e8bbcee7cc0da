// Package extract converts uploaded documents and video transcripts into
// plain text for summarization.
package extract

import (
	"strings"

	"github.com/notexhq/notex-backend/internal/apperr"
)

// Document dispatches on the declared filename suffix. Only PDF and Word
// documents are supported; the suffix check happens before any parsing.
func Document(filename string, data []byte) (string, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".pdf"):
		return PDF(data)
	case strings.HasSuffix(name, ".docx"), strings.HasSuffix(name, ".doc"):
		return DOCX(data)
	default:
		return "", apperr.New(apperr.UnsupportedFormat, "Unsupported file format. Use PDF or DOCX")
	}
}
