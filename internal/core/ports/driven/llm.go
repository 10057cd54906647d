package driven

import "context"

// LLMService produces free-text completions for the answer orchestrator.
//
// Implementations include Gemini (cloud) and Ollama (local models).
type LLMService interface {
	// Generate produces a completion for the prompt. A failed or timed
	// out call is reported as-is; the orchestrator wraps it in
	// domain.ErrGenerationFailed and propagates without retrying.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
