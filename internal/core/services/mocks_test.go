package services

import (
	"context"

	"github.com/khanhduydev/portfolio-rag/internal/core/domain"
	"github.com/khanhduydev/portfolio-rag/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService with a fixed vector per
// text, falling back to a default vector for unknown texts.
type mockEmbedder struct {
	vectors  map[string][]float32
	fallback []float32
	embedErr error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return m.fallback, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedder) ModelName() string { return "mock-embedder" }
func (m *mockEmbedder) Close() error      { return nil }

// mockLLM implements driven.LLMService, recording the prompts it received.
type mockLLM struct {
	response string
	err      error
	prompts  []string
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }
func (m *mockLLM) Close() error      { return nil }

// mockWebSearch implements driven.WebSearchService, recording queries.
type mockWebSearch struct {
	results []domain.WebResult
	err     error
	queries []string
}

func (m *mockWebSearch) Search(_ context.Context, query string, maxResults int) ([]domain.WebResult, error) {
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	if maxResults < len(m.results) {
		return m.results[:maxResults], nil
	}
	return m.results, nil
}

func (m *mockWebSearch) Close() error { return nil }

// mockExtractor implements driven.Extractor for a single media type.
type mockExtractor struct {
	mediaType  string
	extraction *driven.Extraction
	err        error
}

func (m *mockExtractor) SupportedMediaTypes() []string { return []string{m.mediaType} }

func (m *mockExtractor) Extract(_ context.Context, _ []byte, _ string) (*driven.Extraction, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.extraction, nil
}

// mockRegistry implements driven.ExtractorRegistry over mock extractors.
type mockRegistry struct {
	extractors map[string]driven.Extractor
}

func (m *mockRegistry) Lookup(mediaType string) (driven.Extractor, bool) {
	e, ok := m.extractors[mediaType]
	return e, ok
}
