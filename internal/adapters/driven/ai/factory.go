// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"fmt"

	geminiembed "github.com/khanhduydev/portfolio-rag/internal/adapters/driven/embedding/gemini"
	ollamaembed "github.com/khanhduydev/portfolio-rag/internal/adapters/driven/embedding/ollama"
	geminillm "github.com/khanhduydev/portfolio-rag/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/khanhduydev/portfolio-rag/internal/adapters/driven/llm/ollama"
	"github.com/khanhduydev/portfolio-rag/internal/adapters/driven/search/tavily"
	"github.com/khanhduydev/portfolio-rag/internal/core/domain"
	"github.com/khanhduydev/portfolio-rag/internal/core/ports/driven"
)

// CreateEmbeddingService creates the embedding service selected by settings.
func CreateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case domain.AIProviderGemini:
		return geminiembed.NewEmbeddingService(geminiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the LLM service selected by settings.
func CreateLLMService(settings domain.LLMSettings) (driven.LLMService, error) {
	switch settings.Provider {
	case domain.AIProviderGemini:
		return geminillm.NewLLMService(geminillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateWebSearchService creates the Tavily search service when an API key is
// configured. Returns nil when web search is disabled.
func CreateWebSearchService(settings domain.WebSearchSettings) (driven.WebSearchService, error) {
	if settings.APIKey == "" {
		return nil, nil
	}
	return tavily.NewSearchService(tavily.Config{APIKey: settings.APIKey})
}
