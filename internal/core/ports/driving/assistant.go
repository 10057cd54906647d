package driving

import (
	"context"

	"github.com/khanhduydev/portfolio-rag/internal/core/domain"
)

// AssistantService answers free-text questions about the portfolio owner
// using the three-tier strategy: knowledge base, then web search, then the
// unaided language model.
type AssistantService interface {
	// Query produces a complete RAGResponse or an error, never a partial
	// response. Generation failures propagate; web-search failures do not.
	Query(ctx context.Context, question string) (*domain.RAGResponse, error)
}

// IngestService feeds documents into the knowledge base and manages what is
// stored there.
type IngestService interface {
	// ProcessAndStore extracts text from a file, chunks it and persists
	// the chunks with embeddings. The media type selects the extractor;
	// unsupported types fail with domain.ErrUnsupportedFormat.
	ProcessAndStore(ctx context.Context, data []byte, mediaType, source string) (*domain.IngestResult, error)

	// ProcessAndStoreText ingests already-plain text under a source name.
	ProcessAndStoreText(ctx context.Context, text, source string) (*domain.IngestResult, error)

	// DeleteBySource removes every chunk stored for the source.
	DeleteBySource(ctx context.Context, source string) error

	// DocumentCount returns the total number of stored chunks.
	DocumentCount(ctx context.Context) (int, error)

	// ListBySource returns the chunks stored for one source in order.
	ListBySource(ctx context.Context, source string) ([]domain.Chunk, error)

	// Sources lists the distinct sources in the knowledge base.
	Sources(ctx context.Context) ([]string, error)
}
