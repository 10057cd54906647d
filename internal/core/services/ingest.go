package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/khanhduydev/portfolio-rag/internal/core/domain"
	"github.com/khanhduydev/portfolio-rag/internal/core/ports/driven"
	"github.com/khanhduydev/portfolio-rag/internal/core/ports/driving"
	"github.com/khanhduydev/portfolio-rag/internal/logger"
)

// Ensure Ingestor implements the interface.
var _ driving.IngestService = (*Ingestor)(nil)

// Ingestor turns uploaded files and plain text into stored, embedded chunks.
// Extraction errors stay local to one input so a batch upload can report
// partial success; embedding and storage errors abort the whole input
// because the store writes each input as one atomic batch.
type Ingestor struct {
	docStore   driven.DocumentStore
	extractors driven.ExtractorRegistry
	processor  *Processor
}

// NewIngestor creates the ingest service.
func NewIngestor(
	docStore driven.DocumentStore,
	extractors driven.ExtractorRegistry,
	processor *Processor,
) *Ingestor {
	return &Ingestor{
		docStore:   docStore,
		extractors: extractors,
		processor:  processor,
	}
}

// ProcessAndStore extracts text from the file, chunks it and persists the
// chunks. The whole input lands atomically or not at all.
func (s *Ingestor) ProcessAndStore(
	ctx context.Context, data []byte, mediaType, source string,
) (*domain.IngestResult, error) {
	if source == "" {
		return nil, fmt.Errorf("empty source: %w", domain.ErrInvalidInput)
	}

	extractor, ok := s.extractors.Lookup(mediaType)
	if !ok {
		return nil, fmt.Errorf("media type %q: %w", mediaType, domain.ErrUnsupportedFormat)
	}

	extraction, err := extractor.Extract(ctx, data, source)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", source, err)
	}

	return s.store(ctx, extraction, source)
}

// ProcessAndStoreText ingests already-plain text under a source name.
func (s *Ingestor) ProcessAndStoreText(
	ctx context.Context, text, source string,
) (*domain.IngestResult, error) {
	if source == "" {
		return nil, fmt.Errorf("empty source: %w", domain.ErrInvalidInput)
	}
	return s.store(ctx, &driven.Extraction{Text: text}, source)
}

func (s *Ingestor) store(
	ctx context.Context, extraction *driven.Extraction, source string,
) (*domain.IngestResult, error) {
	if strings.TrimSpace(extraction.Text) == "" {
		return nil, fmt.Errorf("source %s has no text content: %w", source, domain.ErrInvalidInput)
	}

	batchID := uuid.New().String()
	logger.Section("Ingest " + source)
	logger.Debug("batch %s: %d bytes of text", batchID, len(extraction.Text))

	chunks := s.processor.Chunk(extraction.Text, source)
	for i := range chunks {
		chunks[i].Title = extraction.Title
	}
	logger.Debug("batch %s: %d chunks", batchID, len(chunks))

	if err := s.docStore.AddDocuments(ctx, chunks); err != nil {
		return nil, fmt.Errorf("store %s: %w", source, err)
	}

	logger.Info("stored %d chunks for %s", len(chunks), source)
	return &domain.IngestResult{
		Source:     source,
		Title:      extraction.Title,
		ChunkCount: len(chunks),
		PageCount:  extraction.PageCount,
	}, nil
}

// DeleteBySource removes every chunk stored for the source.
func (s *Ingestor) DeleteBySource(ctx context.Context, source string) error {
	if source == "" {
		return fmt.Errorf("empty source: %w", domain.ErrInvalidInput)
	}
	return s.docStore.DeleteBySource(ctx, source)
}

// DocumentCount returns the total number of stored chunks.
func (s *Ingestor) DocumentCount(ctx context.Context) (int, error) {
	return s.docStore.Count(ctx)
}

// ListBySource returns the chunks stored for one source in order.
func (s *Ingestor) ListBySource(ctx context.Context, source string) ([]domain.Chunk, error) {
	return s.docStore.GetBySource(ctx, source)
}

// Sources lists the distinct sources in the knowledge base.
func (s *Ingestor) Sources(ctx context.Context) ([]string, error) {
	return s.docStore.Sources(ctx)
}
