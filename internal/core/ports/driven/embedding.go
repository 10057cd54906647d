package driven

import "context"

// EmbeddingService generates fixed-length vector embeddings from text.
// Every embedding a deployment ever stores must come from the same model:
// mixing output dimensionalities breaks similarity search, which the
// document store reports as domain.ErrDimensionMismatch.
//
// Implementations include Gemini (cloud) and Ollama (local).
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts. More efficient
	// than calling Embed in a loop when the provider has a batch API.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
