package driven

import "context"

// Extraction is the raw text pulled out of an uploaded file.
type Extraction struct {
	// Text is the full plain-text content.
	Text string

	// Title is a human-readable title, when the format carries one.
	Title string

	// PageCount is the number of pages, or 0 when the format has none.
	PageCount int
}

// Extractor converts one file format to plain text ahead of chunking.
type Extractor interface {
	// SupportedMediaTypes returns the MIME types this extractor handles.
	SupportedMediaTypes() []string

	// Extract parses the raw bytes. The URI is used only for fallback
	// title derivation. A malformed file fails with
	// domain.ErrExtractionFailed.
	Extract(ctx context.Context, data []byte, uri string) (*Extraction, error)
}

// ExtractorRegistry selects an extractor by media type.
type ExtractorRegistry interface {
	// Lookup returns the extractor for a media type, or false when the
	// type is unsupported. Parameters ("; charset=...") are ignored.
	Lookup(mediaType string) (Extractor, bool)
}
