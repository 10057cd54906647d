package driven

import (
	"context"

	"github.com/khanhduydev/portfolio-rag/internal/core/domain"
)

// DocumentStore persists text chunks together with their embeddings and
// answers similarity queries over them. Backed by SQLite; an in-memory
// implementation exists for tests.
//
// The store owns embedding computation at write and query time: chunks
// arriving without an embedding are embedded before persisting, and
// SearchSimilar embeds the query string itself. Embedding-provider failures
// surface as domain.ErrEmbeddingFailed, persistence failures as
// domain.ErrStorageFailed. The store never retries; retry policy belongs to
// the caller and is safe because writes upsert by deterministic ID.
type DocumentStore interface {
	// AddDocument upserts a single chunk, embedding its content first
	// when chunk.Embedding is nil.
	AddDocument(ctx context.Context, chunk *domain.Chunk) error

	// AddDocuments upserts a batch atomically. All missing embeddings are
	// computed before any write begins; a failure during embedding leaves
	// the store untouched, and a failure during the write rolls the whole
	// batch back.
	AddDocuments(ctx context.Context, chunks []domain.Chunk) error

	// SearchSimilar embeds the query, scans every stored chunk and
	// returns the top limit results by descending cosine similarity.
	// Ties keep insertion order. A stored embedding whose length differs
	// from the query embedding's fails with domain.ErrDimensionMismatch.
	SearchSimilar(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)

	// GetBySource returns all chunks for one source, chunk_index ascending.
	GetBySource(ctx context.Context, source string) ([]domain.Chunk, error)

	// DeleteBySource removes all chunks for the source. Removing a source
	// that has no chunks is not an error.
	DeleteBySource(ctx context.Context, source string) error

	// Count returns the total number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Sources returns the distinct sources present in the store.
	Sources(ctx context.Context) ([]string, error)

	// Close releases the underlying storage handle.
	Close() error
}
