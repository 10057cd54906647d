package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khanhduydev/portfolio-rag/internal/core/domain"
)

// buildDocx assembles a minimal DOCX container in memory.
func buildDocx(t *testing.T, parts map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range parts {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

const documentXMLBody = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestExtract_ParagraphText(t *testing.T) {
	data := buildDocx(t, map[string]string{
		"word/document.xml": documentXMLBody,
	})

	extraction, err := New().Extract(context.Background(), data, "cv.docx")

	require.NoError(t, err)
	assert.Equal(t, "First paragraph.\nSecond paragraph.", extraction.Text)
}

func TestExtract_TitleFromCoreProperties(t *testing.T) {
	data := buildDocx(t, map[string]string{
		"word/document.xml": documentXMLBody,
		"docProps/core.xml": `<?xml version="1.0"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
  xmlns:dc="http://purl.org/dc/elements/1.1/">
  <dc:title>Curriculum Vitae</dc:title>
</cp:coreProperties>`,
	})

	extraction, err := New().Extract(context.Background(), data, "cv.docx")

	require.NoError(t, err)
	assert.Equal(t, "Curriculum Vitae", extraction.Title)
}

func TestExtract_TitleFallbackToFilename(t *testing.T) {
	data := buildDocx(t, map[string]string{
		"word/document.xml": documentXMLBody,
	})

	extraction, err := New().Extract(context.Background(), data, "my-cv.docx")

	require.NoError(t, err)
	assert.Equal(t, "my cv", extraction.Title)
}

func TestExtract_PageCount(t *testing.T) {
	data := buildDocx(t, map[string]string{
		"word/document.xml": documentXMLBody,
		"docProps/app.xml": `<?xml version="1.0"?>
<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">
  <Pages>3</Pages>
</Properties>`,
	})

	extraction, err := New().Extract(context.Background(), data, "cv.docx")

	require.NoError(t, err)
	assert.Equal(t, 3, extraction.PageCount)
}

func TestExtract_NotAZip(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte("plain text, not a zip"), "cv.docx")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestExtract_MissingDocumentPart(t *testing.T) {
	data := buildDocx(t, map[string]string{
		"docProps/core.xml": `<cp:coreProperties xmlns:cp="x"><dc:title xmlns:dc="y">T</dc:title></cp:coreProperties>`,
	})

	_, err := New().Extract(context.Background(), data, "cv.docx")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestSupportedMediaTypes(t *testing.T) {
	types := New().SupportedMediaTypes()
	require.Len(t, types, 1)
	assert.Contains(t, types[0], "wordprocessingml")
}
