package extract

import (
	"testing"

	"github.com/khanhduydev/portfolio-rag/internal/adapters/driven/extract/markdown"
	"github.com/khanhduydev/portfolio-rag/internal/adapters/driven/extract/plaintext"
)

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry(plaintext.New(), markdown.New())

	tests := []struct {
		mediaType string
		found     bool
	}{
		{"text/plain", true},
		{"text/markdown", true},
		{"text/x-markdown", true},
		{"TEXT/PLAIN", true},
		{"text/plain; charset=utf-8", true},
		{"  text/markdown ", true},
		{"application/pdf", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.mediaType, func(t *testing.T) {
			_, ok := r.Lookup(tt.mediaType)
			if ok != tt.found {
				t.Errorf("Lookup(%q) found = %v, want %v", tt.mediaType, ok, tt.found)
			}
		})
	}
}

func TestRegistry_Empty(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Lookup("text/plain"); ok {
		t.Error("empty registry must not resolve any type")
	}
}
