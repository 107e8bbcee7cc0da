package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexhq/notex-backend/internal/apperr"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const docxBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
    <w:p/>
    <w:p><w:r><w:t>Third</w:t><w:t xml:space="preserve"> paragraph</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestDOCXKeepsEmptyParagraphs(t *testing.T) {
	data := buildDocx(t, docxBody)

	got, err := DOCX(data)
	require.NoError(t, err)
	assert.Equal(t, "First paragraph\n\nThird paragraph", got)
}

func TestDOCXSplitRuns(t *testing.T) {
	data := buildDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body><w:p><w:r><w:t>Hello </w:t></w:r><w:r><w:t>world</w:t></w:r></w:p></w:body>
</w:document>`)

	got, err := DOCX(data)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", got)
}

func TestDOCXNotAZip(t *testing.T) {
	_, err := DOCX([]byte("definitely not a zip archive"))
	require.Error(t, err)
	assert.Equal(t, apperr.ExtractionError, apperr.KindOf(err))
}

func TestDOCXMissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = DOCX(buf.Bytes())
	require.Error(t, err)
	assert.Equal(t, apperr.ExtractionError, apperr.KindOf(err))
}
