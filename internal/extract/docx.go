package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/notexhq/notex-backend/internal/apperr"
)

// DOCX extracts the paragraphs of word/document.xml in order, joined with
// newlines. Empty paragraphs are kept as blank lines.
func DOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperr.Wrap(apperr.ExtractionError, "Error reading DOCX", err)
	}

	body, err := readZipFile(zr, "word/document.xml")
	if err != nil {
		return "", apperr.Wrap(apperr.ExtractionError, "Error reading DOCX", err)
	}

	paragraphs, err := docxParagraphs(body)
	if err != nil {
		return "", apperr.Wrap(apperr.ExtractionError, "Error reading DOCX", err)
	}

	return strings.TrimSpace(strings.Join(paragraphs, "\n")), nil
}

func readZipFile(zr *zip.Reader, target string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != target {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("file not found: %s", target)
}

// docxParagraphs walks the WordprocessingML token stream, collecting the text
// runs (<w:t>) of each paragraph (<w:p>).
func docxParagraphs(body []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	var (
		paragraphs  []string
		current     strings.Builder
		inParagraph bool
		inText      bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
			case "t":
				inText = inParagraph
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inParagraph {
					paragraphs = append(paragraphs, current.String())
				}
				inParagraph = false
			}
		}
	}
	return paragraphs, nil
}
