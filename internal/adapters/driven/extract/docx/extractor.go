// Package docx extracts text from DOCX files by reading the OOXML parts
// directly (archive/zip + encoding/xml), with the title taken from
// docProps/core.xml and the page count from docProps/app.xml when present.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/khanhduydev/portfolio-rag/internal/adapters/driven/extract/plaintext"
	"github.com/khanhduydev/portfolio-rag/internal/core/domain"
	"github.com/khanhduydev/portfolio-rag/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMediaTypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMediaTypes() []string {
	return []string{
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
}

// Extract parses the DOCX container and pulls out paragraph text.
func (e *Extractor) Extract(_ context.Context, data []byte, uri string) (*driven.Extraction, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("not a valid docx container: %w", domain.ErrExtractionFailed)
	}

	text, err := extractDocumentText(reader)
	if err != nil {
		return nil, err
	}

	return &driven.Extraction{
		Text:      text,
		Title:     extractTitle(reader, uri),
		PageCount: extractPageCount(reader),
	}, nil
}

// extractDocumentText extracts text from word/document.xml.
func extractDocumentText(reader *zip.Reader) (string, error) {
	content, ok := readZipFile(reader, "word/document.xml")
	if !ok {
		return "", fmt.Errorf("missing word/document.xml: %w", domain.ErrExtractionFailed)
	}
	return parseDocumentXML(content), nil
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML extracts text content from the document XML.
func parseDocumentXML(content []byte) string {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return ""
	}

	var result strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			result.WriteString("\n")
		}
		for _, r := range para.Runs {
			for _, t := range r.Text {
				result.WriteString(t.Content)
			}
		}
	}

	return strings.TrimSpace(result.String())
}

// coreXML represents the structure of docProps/core.xml.
type coreXML struct {
	Title string `xml:"title"`
}

// extractTitle extracts the title from docProps/core.xml or falls back to
// the filename.
func extractTitle(reader *zip.Reader, uri string) string {
	if content, ok := readZipFile(reader, "docProps/core.xml"); ok {
		var core coreXML
		if err := xml.Unmarshal(content, &core); err == nil && core.Title != "" {
			return strings.TrimSpace(core.Title)
		}
	}
	return plaintext.TitleFromURI(uri)
}

// appXML represents the structure of docProps/app.xml.
type appXML struct {
	Pages int `xml:"Pages"`
}

// extractPageCount reads the page count from docProps/app.xml, or 0 when
// the part is absent or unreadable.
func extractPageCount(reader *zip.Reader) int {
	content, ok := readZipFile(reader, "docProps/app.xml")
	if !ok {
		return 0
	}
	var app appXML
	if err := xml.Unmarshal(content, &app); err != nil {
		return 0
	}
	return app.Pages
}

// readZipFile reads one named file out of the archive.
func readZipFile(reader *zip.Reader, name string) ([]byte, bool) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, false
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, false
		}
		return content, true
	}
	return nil, false
}
