package cli

import (
	"context"

	"github.com/khanhduydev/portfolio-rag/internal/core/domain"
)

// --- Mock services for command tests ---

type mockAssistant struct {
	response *domain.RAGResponse
	err      error
	question string
}

func (m *mockAssistant) Query(_ context.Context, question string) (*domain.RAGResponse, error) {
	m.question = question
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

type mockIngest struct {
	result  *domain.IngestResult
	err     error
	chunks  []domain.Chunk
	sources []string
	count   int

	deleted []string
	texts   []string
}

func (m *mockIngest) ProcessAndStore(_ context.Context, _ []byte, _, source string) (*domain.IngestResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.IngestResult{Source: source, ChunkCount: 1}, nil
}

func (m *mockIngest) ProcessAndStoreText(_ context.Context, text, source string) (*domain.IngestResult, error) {
	m.texts = append(m.texts, text)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.IngestResult{Source: source, ChunkCount: 1}, nil
}

func (m *mockIngest) DeleteBySource(_ context.Context, source string) error {
	m.deleted = append(m.deleted, source)
	return m.err
}

func (m *mockIngest) DocumentCount(_ context.Context) (int, error) {
	return m.count, m.err
}

func (m *mockIngest) ListBySource(_ context.Context, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

func (m *mockIngest) Sources(_ context.Context) ([]string, error) {
	return m.sources, m.err
}

// setupTestServices installs mock services and returns a cleanup function.
func setupTestServices(assistant *mockAssistant, ingest *mockIngest) func() {
	assistantService = assistant
	ingestService = ingest
	newAssistant = nil
	return func() {
		assistantService = nil
		ingestService = nil
	}
}
