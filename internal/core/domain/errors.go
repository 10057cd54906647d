package domain

import "errors"

// Domain errors represent business logic failures.
// Adapters attach these sentinels to their underlying causes with
// errors.Join, so callers can test the category with errors.Is while
// the original error text is preserved.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingFailed indicates the embedding provider call failed or
	// timed out. Aborts the enclosing insert or query operation.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrDimensionMismatch indicates a stored embedding's length differs
	// from the query embedding's. This means data corruption or a model
	// change and is never silently truncated or padded.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrStorageFailed indicates a persistence layer I/O error.
	ErrStorageFailed = errors.New("storage failed")

	// ErrSearchFailed indicates the web-search collaborator failed.
	// The orchestrator treats this as "no results", never fatal.
	ErrSearchFailed = errors.New("web search failed")

	// ErrGenerationFailed indicates the language-model call failed.
	// Propagates to the caller; there is no internal retry.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrUnsupportedFormat indicates no extractor handles the media type.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrExtractionFailed indicates a supported file could not be parsed.
	ErrExtractionFailed = errors.New("extraction failed")
)
