// Package extract provides file-to-text extractors and their registry.
// Each subpackage handles one format; the registry picks one by media type.
package extract

import (
	"strings"

	"github.com/khanhduydev/portfolio-rag/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps media types to extractors. Later registrations win when
// two extractors claim the same type.
type Registry struct {
	byType map[string]driven.Extractor
}

// NewRegistry builds a registry over the given extractors.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{byType: make(map[string]driven.Extractor)}
	for _, e := range extractors {
		for _, mt := range e.SupportedMediaTypes() {
			r.byType[normaliseMediaType(mt)] = e
		}
	}
	return r
}

// Lookup returns the extractor for a media type, or false when unsupported.
func (r *Registry) Lookup(mediaType string) (driven.Extractor, bool) {
	e, ok := r.byType[normaliseMediaType(mediaType)]
	return e, ok
}

// normaliseMediaType lowercases and strips parameters ("; charset=utf-8").
func normaliseMediaType(mediaType string) string {
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}
