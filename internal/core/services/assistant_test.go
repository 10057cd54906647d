package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khanhduydev/portfolio-rag/internal/adapters/driven/storage/memory"
	"github.com/khanhduydev/portfolio-rag/internal/core/domain"
)

// seedStore fills an in-memory store with chunks whose embeddings are fixed
// so similarity against a given question embedding is predictable.
func seedStore(t *testing.T, embedder *mockEmbedder, chunks []domain.Chunk) *memory.DocumentStore {
	t.Helper()
	store := memory.NewDocumentStore(embedder)
	require.NoError(t, store.AddDocuments(context.Background(), chunks))
	return store
}

func testOptions() AssistantOptions {
	opts := DefaultAssistantOptions()
	opts.SubjectQualifier = "Khánh Duy AI engineer portfolio"
	return opts
}

func TestAssistant_Query_EmptyQuestion(t *testing.T) {
	embedder := &mockEmbedder{fallback: []float32{1, 0, 0}}
	store := memory.NewDocumentStore(embedder)
	assistant := NewAssistant(store, &mockLLM{response: "x"}, nil,
		NewRelevanceClassifier(domain.DefaultSubjectTerms), testOptions())

	_, err := assistant.Query(context.Background(), "   ")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAssistant_Query_GroundedWhenAboveThreshold(t *testing.T) {
	// Question embeds to [1,0,0]; the stored chunk embeds to a vector with
	// cosine similarity ~0.995 against it, comfortably above 0.7.
	embedder := &mockEmbedder{
		vectors: map[string][]float32{
			"What are Duy's skills?": {1, 0, 0},
		},
		fallback: []float32{0.9, 0.1, 0},
	}
	store := seedStore(t, embedder, []domain.Chunk{
		{ID: "bio_chunk_0", Content: "Duy is an AI engineer.", Source: "bio", ChunkIndex: 0},
	})
	llm := &mockLLM{response: "Duy builds AI systems."}
	webSearch := &mockWebSearch{}

	assistant := NewAssistant(store, llm, webSearch,
		NewRelevanceClassifier(domain.DefaultSubjectTerms), testOptions())

	response, err := assistant.Query(context.Background(), "What are Duy's skills?")

	require.NoError(t, err)
	assert.Equal(t, "Duy builds AI systems.", response.Answer)
	assert.False(t, response.SearchUsed)
	require.Len(t, response.Sources, 1)
	assert.Equal(t, "bio", response.Sources[0].Source)
	assert.Greater(t, response.Sources[0].Similarity, 0.7)

	// Grounded answers never touch the web.
	assert.Empty(t, webSearch.queries)
	// The retrieved chunk fed the prompt.
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Duy is an AI engineer.")
}

func TestAssistant_Query_EscalatesForRelevantQuestion(t *testing.T) {
	// Orthogonal embeddings: top similarity 0, below threshold. The
	// question mentions "portfolio", so it escalates to exactly one search.
	embedder := &mockEmbedder{
		vectors: map[string][]float32{
			"Where is the portfolio hosted?": {1, 0, 0},
		},
		fallback: []float32{0, 1, 0},
	}
	store := seedStore(t, embedder, []domain.Chunk{
		{ID: "bio_chunk_0", Content: "unrelated text.", Source: "bio", ChunkIndex: 0},
	})
	llm := &mockLLM{response: "It is on GitHub Pages."}
	webSearch := &mockWebSearch{results: []domain.WebResult{
		{Title: "Portfolio", URL: "https://example.com", Content: "hosted on GitHub Pages", Score: 0.9},
	}}

	assistant := NewAssistant(store, llm, webSearch,
		NewRelevanceClassifier(domain.DefaultSubjectTerms), testOptions())

	response, err := assistant.Query(context.Background(), "Where is the portfolio hosted?")

	require.NoError(t, err)
	assert.True(t, response.SearchUsed)
	require.Len(t, response.Sources, 1)
	assert.Equal(t, "https://example.com", response.Sources[0].Source)

	require.Len(t, webSearch.queries, 1)
	assert.Contains(t, webSearch.queries[0], "Where is the portfolio hosted?")
	assert.Contains(t, webSearch.queries[0], "Khánh Duy AI engineer portfolio")
}

func TestAssistant_Query_PlainAnswerForIrrelevantQuestion(t *testing.T) {
	embedder := &mockEmbedder{
		vectors: map[string][]float32{
			"What is the capital of France?": {1, 0, 0},
		},
		fallback: []float32{0, 1, 0},
	}
	store := seedStore(t, embedder, []domain.Chunk{
		{ID: "bio_chunk_0", Content: "unrelated text.", Source: "bio", ChunkIndex: 0},
	})
	llm := &mockLLM{response: "Paris."}
	webSearch := &mockWebSearch{}

	assistant := NewAssistant(store, llm, webSearch,
		NewRelevanceClassifier(domain.DefaultSubjectTerms), testOptions())

	response, err := assistant.Query(context.Background(), "What is the capital of France?")

	require.NoError(t, err)
	assert.Equal(t, "Paris.", response.Answer)
	assert.False(t, response.SearchUsed)
	assert.NotNil(t, response.Sources)
	assert.Empty(t, response.Sources)
	assert.Empty(t, webSearch.queries)
}

func TestAssistant_Query_SearchFailureStillAnswers(t *testing.T) {
	embedder := &mockEmbedder{
		vectors: map[string][]float32{
			"Tell me about the portfolio": {1, 0, 0},
		},
		fallback: []float32{0, 1, 0},
	}
	store := seedStore(t, embedder, []domain.Chunk{
		{ID: "bio_chunk_0", Content: "unrelated text.", Source: "bio", ChunkIndex: 0},
	})
	llm := &mockLLM{response: "Best effort answer."}
	webSearch := &mockWebSearch{err: errors.New("tavily down")}

	assistant := NewAssistant(store, llm, webSearch,
		NewRelevanceClassifier(domain.DefaultSubjectTerms), testOptions())

	response, err := assistant.Query(context.Background(), "Tell me about the portfolio")

	require.NoError(t, err)
	assert.Equal(t, "Best effort answer.", response.Answer)
	// The escalation was attempted, so SearchUsed stays true even though
	// the search itself failed.
	assert.True(t, response.SearchUsed)
	assert.Empty(t, response.Sources)
}

func TestAssistant_Query_NilWebSearchDegrades(t *testing.T) {
	embedder := &mockEmbedder{
		vectors: map[string][]float32{
			"What projects are in the portfolio?": {1, 0, 0},
		},
		fallback: []float32{0, 1, 0},
	}
	store := seedStore(t, embedder, []domain.Chunk{
		{ID: "bio_chunk_0", Content: "unrelated text.", Source: "bio", ChunkIndex: 0},
	})
	llm := &mockLLM{response: "Cannot say for sure."}

	assistant := NewAssistant(store, llm, nil,
		NewRelevanceClassifier(domain.DefaultSubjectTerms), testOptions())

	response, err := assistant.Query(context.Background(), "What projects are in the portfolio?")

	require.NoError(t, err)
	assert.True(t, response.SearchUsed)
	assert.Empty(t, response.Sources)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "(no results)")
}

func TestAssistant_Query_GenerationFailurePropagates(t *testing.T) {
	embedder := &mockEmbedder{fallback: []float32{1, 0, 0}}
	store := seedStore(t, embedder, []domain.Chunk{
		{ID: "bio_chunk_0", Content: "Duy is an AI engineer.", Source: "bio", ChunkIndex: 0},
	})
	llm := &mockLLM{err: errors.New("model overloaded")}

	assistant := NewAssistant(store, llm, nil,
		NewRelevanceClassifier(domain.DefaultSubjectTerms), testOptions())

	response, err := assistant.Query(context.Background(), "Who is Duy?")

	require.Error(t, err)
	assert.Nil(t, response)
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
}

func TestAssistant_Query_ThresholdIsExclusive(t *testing.T) {
	// Top similarity exactly at the threshold does not count as grounded.
	embedder := &mockEmbedder{
		vectors: map[string][]float32{
			"anything about the portfolio": {1, 0, 0},
			"boundary chunk":               {1, 0, 0},
		},
	}
	store := seedStore(t, embedder, []domain.Chunk{
		{ID: "bio_chunk_0", Content: "boundary chunk", Source: "bio", ChunkIndex: 0},
	})
	llm := &mockLLM{response: "answer"}
	webSearch := &mockWebSearch{}

	opts := testOptions()
	opts.Threshold = 1.0 // identical vectors give similarity exactly 1.0
	assistant := NewAssistant(store, llm, webSearch,
		NewRelevanceClassifier(domain.DefaultSubjectTerms), opts)

	response, err := assistant.Query(context.Background(), "anything about the portfolio")

	require.NoError(t, err)
	assert.True(t, response.SearchUsed, "similarity == threshold must not answer grounded")
}

func TestAssistant_Query_EmptyStoreEscalates(t *testing.T) {
	embedder := &mockEmbedder{fallback: []float32{1, 0, 0}}
	store := memory.NewDocumentStore(embedder)
	llm := &mockLLM{response: "answer"}
	webSearch := &mockWebSearch{}

	assistant := NewAssistant(store, llm, webSearch,
		NewRelevanceClassifier(domain.DefaultSubjectTerms), testOptions())

	response, err := assistant.Query(context.Background(), "Tell me about the portfolio")

	require.NoError(t, err)
	assert.True(t, response.SearchUsed)
	require.Len(t, webSearch.queries, 1)
}

func TestAssistant_Query_SourcePreviewsAreTruncated(t *testing.T) {
	longContent := ""
	for i := 0; i < 100; i++ {
		longContent += "0123456789"
	}

	embedder := &mockEmbedder{fallback: []float32{1, 0, 0}}
	store := seedStore(t, embedder, []domain.Chunk{
		{ID: "bio_chunk_0", Content: longContent, Source: "bio", ChunkIndex: 0},
	})
	llm := &mockLLM{response: "answer"}

	opts := testOptions()
	opts.PreviewLength = 50
	assistant := NewAssistant(store, llm, nil,
		NewRelevanceClassifier(domain.DefaultSubjectTerms), opts)

	response, err := assistant.Query(context.Background(), "Who is Duy?")

	require.NoError(t, err)
	require.Len(t, response.Sources, 1)
	assert.Len(t, response.Sources[0].Content, 53) // 50 chars + "..."
	// The full chunk still feeds the prompt.
	assert.Contains(t, llm.prompts[0], longContent)
}
