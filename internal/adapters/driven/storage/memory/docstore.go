// Package memory provides an in-memory document store used by tests and
// ephemeral set-ups. Behaviour mirrors the SQLite store, including upsert
// by id, atomic batches and deterministic tie order on search.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/khanhduydev/portfolio-rag/internal/core/domain"
	"github.com/khanhduydev/portfolio-rag/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu       sync.RWMutex
	chunks   []domain.Chunk // insertion order
	byID     map[string]int // id -> index into chunks
	embedder driven.EmbeddingService
}

// NewDocumentStore creates an in-memory document store over an embedder.
func NewDocumentStore(embedder driven.EmbeddingService) *DocumentStore {
	return &DocumentStore{
		byID:     make(map[string]int),
		embedder: embedder,
	}
}

// AddDocument upserts a single chunk, embedding it first when needed.
func (s *DocumentStore) AddDocument(ctx context.Context, chunk *domain.Chunk) error {
	if chunk == nil || chunk.Content == "" {
		return fmt.Errorf("empty chunk: %w", domain.ErrInvalidInput)
	}

	if chunk.Embedding == nil {
		embedding, err := s.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			return fmt.Errorf("embed chunk %s: %w", chunk.ID, domain.ErrEmbeddingFailed)
		}
		chunk.Embedding = embedding
	}
	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.upsert(*chunk)
	s.mu.Unlock()
	return nil
}

// AddDocuments upserts a batch. Embeddings are computed before any chunk
// becomes visible, so a mid-batch embedding failure changes nothing.
func (s *DocumentStore) AddDocuments(ctx context.Context, chunks []domain.Chunk) error {
	now := time.Now().UTC()
	for i := range chunks {
		if chunks[i].Content == "" {
			return fmt.Errorf("empty chunk %s: %w", chunks[i].ID, domain.ErrInvalidInput)
		}
		if chunks[i].Embedding == nil {
			embedding, err := s.embedder.Embed(ctx, chunks[i].Content)
			if err != nil {
				return fmt.Errorf("embed chunk %s: %w", chunks[i].ID, domain.ErrEmbeddingFailed)
			}
			chunks[i].Embedding = embedding
		}
		if chunks[i].CreatedAt.IsZero() {
			chunks[i].CreatedAt = now
		}
	}

	s.mu.Lock()
	for i := range chunks {
		s.upsert(chunks[i])
	}
	s.mu.Unlock()
	return nil
}

// upsert replaces the stored chunk with the same id or appends a new one.
// Callers must hold the write lock.
func (s *DocumentStore) upsert(chunk domain.Chunk) {
	if i, ok := s.byID[chunk.ID]; ok {
		s.chunks[i] = chunk
		return
	}
	s.byID[chunk.ID] = len(s.chunks)
	s.chunks = append(s.chunks, chunk)
}

// SearchSimilar embeds the query and returns the top limit matches by
// descending cosine similarity, ties in insertion order.
func (s *DocumentStore) SearchSimilar(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if limit <= 0 {
		limit = domain.DefaultTopK
	}

	queryEmbedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", domain.ErrEmbeddingFailed)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.SearchResult, 0, len(s.chunks))
	for i := range s.chunks {
		if len(s.chunks[i].Embedding) != len(queryEmbedding) {
			return nil, fmt.Errorf("chunk %s has %d dimensions, query has %d: %w",
				s.chunks[i].ID, len(s.chunks[i].Embedding), len(queryEmbedding),
				domain.ErrDimensionMismatch)
		}
		results = append(results, domain.SearchResult{
			Chunk:      s.chunks[i],
			Similarity: domain.CosineSimilarity(queryEmbedding, s.chunks[i].Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// GetBySource returns chunks for one source, chunk index ascending.
func (s *DocumentStore) GetBySource(_ context.Context, source string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chunks []domain.Chunk
	for i := range s.chunks {
		if s.chunks[i].Source == source {
			chunks = append(chunks, s.chunks[i])
		}
	}
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkIndex < chunks[j].ChunkIndex
	})
	return chunks, nil
}

// DeleteBySource removes all chunks for the source.
func (s *DocumentStore) DeleteBySource(_ context.Context, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.chunks[:0]
	for i := range s.chunks {
		if s.chunks[i].Source != source {
			kept = append(kept, s.chunks[i])
		}
	}
	s.chunks = kept

	s.byID = make(map[string]int, len(s.chunks))
	for i := range s.chunks {
		s.byID[s.chunks[i].ID] = i
	}
	return nil
}

// Count returns the total number of stored chunks.
func (s *DocumentStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// Sources returns the distinct sources, sorted.
func (s *DocumentStore) Sources(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var sources []string
	for i := range s.chunks {
		if !seen[s.chunks[i].Source] {
			seen[s.chunks[i].Source] = true
			sources = append(sources, s.chunks[i].Source)
		}
	}
	sort.Strings(sources)
	return sources, nil
}

// Close is a no-op for the in-memory store.
func (s *DocumentStore) Close() error {
	return nil
}
