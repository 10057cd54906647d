// Package plaintext extracts text from plain-text files. It is the
// fallback extractor for anything already readable as UTF-8 text.
package plaintext

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/khanhduydev/portfolio-rag/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMediaTypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMediaTypes() []string {
	return []string{
		"text/plain",
		"text/csv",
		"text/yaml",
		"application/json",
	}
}

// Extract returns the bytes as text with a filename-derived title.
func (e *Extractor) Extract(_ context.Context, data []byte, uri string) (*driven.Extraction, error) {
	return &driven.Extraction{
		Text:  string(data),
		Title: TitleFromURI(uri),
	}, nil
}

// TitleFromURI derives a human-readable title from a file path or URI:
// the base name without extension, underscores and dashes as spaces.
func TitleFromURI(uri string) string {
	filename := filepath.Base(uri)

	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}

	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")

	return filename
}
