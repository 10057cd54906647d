package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/khanhduydev/portfolio-rag/internal/core/domain"
	"github.com/khanhduydev/portfolio-rag/internal/core/ports/driven"
	"github.com/khanhduydev/portfolio-rag/internal/core/ports/driving"
	"github.com/khanhduydev/portfolio-rag/internal/logger"
)

// Ensure Assistant implements the interface.
var _ driving.AssistantService = (*Assistant)(nil)

const groundedPromptTemplate = `You are a helpful assistant answering questions about Khánh Duy, an AI engineer, using his portfolio knowledge base.

Answer the question using ONLY the context below. If the context does not contain the answer, say you don't know rather than guessing.

Context:
%s

Question: %s

Answer:`

const webPromptTemplate = `You are a helpful assistant answering questions about Khánh Duy, an AI engineer.

Use the web search results below where they are relevant. If they don't help, answer from general knowledge and say the information may be incomplete.

Search results:
%s

Question: %s

Answer:`

// AssistantOptions configures the answer policy.
type AssistantOptions struct {
	// TopK is how many chunks retrieval returns.
	TopK int

	// Threshold is the minimum top similarity for a grounded answer.
	Threshold float64

	// PreviewLength bounds source previews, in characters.
	PreviewLength int

	// SubjectQualifier is appended to escalated web-search queries.
	SubjectQualifier string

	// MaxSearchResults bounds the web-search call.
	MaxSearchResults int
}

// DefaultAssistantOptions returns the documented default knobs.
func DefaultAssistantOptions() AssistantOptions {
	return AssistantOptions{
		TopK:             domain.DefaultTopK,
		Threshold:        domain.DefaultSimilarityThreshold,
		PreviewLength:    domain.DefaultPreviewLength,
		SubjectQualifier: domain.DefaultSubjectQualifier,
		MaxSearchResults: domain.DefaultTopK,
	}
}

// Assistant orchestrates the three-tier answer strategy: knowledge base,
// then web search, then the unaided language model. It holds no state
// across queries beyond its injected collaborators.
type Assistant struct {
	docStore  driven.DocumentStore
	llm       driven.LLMService
	webSearch driven.WebSearchService // optional; nil disables escalation
	relevance *RelevanceClassifier
	opts      AssistantOptions
}

// NewAssistant creates the orchestrator. webSearch may be nil, in which
// case escalation degrades to answering without search snippets.
func NewAssistant(
	docStore driven.DocumentStore,
	llm driven.LLMService,
	webSearch driven.WebSearchService,
	relevance *RelevanceClassifier,
	opts AssistantOptions,
) *Assistant {
	if opts.TopK <= 0 {
		opts.TopK = domain.DefaultTopK
	}
	if opts.Threshold <= 0 {
		opts.Threshold = domain.DefaultSimilarityThreshold
	}
	if opts.PreviewLength <= 0 {
		opts.PreviewLength = domain.DefaultPreviewLength
	}
	if opts.MaxSearchResults <= 0 {
		opts.MaxSearchResults = opts.TopK
	}

	return &Assistant{
		docStore:  docStore,
		llm:       llm,
		webSearch: webSearch,
		relevance: relevance,
		opts:      opts,
	}
}

// Query answers a question with the three-tier escalation policy:
//
//  1. retrieve top-k chunks; if the best similarity clears the threshold,
//     answer grounded on those chunks (SearchUsed=false);
//  2. otherwise, if the question is subject-relevant, call web search with
//     the qualified query and answer from the snippets (SearchUsed=true);
//  3. otherwise answer from the model alone with empty sources.
//
// A web-search failure is logged and treated as an empty result set; the
// response still reports SearchUsed=true because an escalation was
// attempted. Generation failures propagate wrapped in
// domain.ErrGenerationFailed. The method never returns a partial response.
func (a *Assistant) Query(ctx context.Context, question string) (*domain.RAGResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("empty question: %w", domain.ErrInvalidInput)
	}

	traceID := uuid.New().String()
	logger.Section("Query " + traceID)
	logger.Debug("question: %q", question)

	results, err := a.docStore.SearchSimilar(ctx, question, a.opts.TopK)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	topSimilarity := 0.0
	if len(results) > 0 {
		topSimilarity = results[0].Similarity
	}
	logger.Debug("retrieved %d chunks, top similarity %.3f (threshold %.2f)",
		len(results), topSimilarity, a.opts.Threshold)

	if len(results) > 0 && topSimilarity > a.opts.Threshold {
		return a.groundedAnswer(ctx, question, results)
	}

	if a.relevance.IsSubjectRelevant(question) {
		return a.webAnswer(ctx, question)
	}

	return a.plainAnswer(ctx, question)
}

// groundedAnswer builds a context block from the retrieved chunks and asks
// the model to answer from it.
func (a *Assistant) groundedAnswer(
	ctx context.Context, question string, results []domain.SearchResult,
) (*domain.RAGResponse, error) {
	logger.Info("answering from knowledge base")

	contexts := make([]string, len(results))
	sources := make([]domain.SourceRef, len(results))
	for i, r := range results {
		contexts[i] = r.Chunk.Content
		sources[i] = domain.SourceRef{
			Title:      r.Chunk.Title,
			Source:     r.Chunk.Source,
			Content:    domain.Preview(r.Chunk.Content, a.opts.PreviewLength),
			Similarity: r.Similarity,
		}
	}

	prompt := fmt.Sprintf(groundedPromptTemplate, strings.Join(contexts, "\n\n"), question)
	answer, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &domain.RAGResponse{
		Answer:     answer,
		Sources:    sources,
		SearchUsed: false,
	}, nil
}

// webAnswer escalates to live web search with the subject-qualified query.
func (a *Assistant) webAnswer(ctx context.Context, question string) (*domain.RAGResponse, error) {
	logger.Info("escalating to web search")

	query := question
	if a.opts.SubjectQualifier != "" {
		query = question + " " + a.opts.SubjectQualifier
	}

	var hits []domain.WebResult
	if a.webSearch == nil {
		logger.Warn("web search not configured, continuing without snippets")
	} else {
		var err error
		hits, err = a.webSearch.Search(ctx, query, a.opts.MaxSearchResults)
		if err != nil {
			// Search failure is non-fatal: degrade to whatever the
			// model can produce from the question alone.
			logger.Warn("web search failed: %v", err)
			hits = nil
		}
	}
	logger.Debug("web search returned %d hits", len(hits))

	snippets := make([]string, len(hits))
	sources := make([]domain.SourceRef, len(hits))
	for i, hit := range hits {
		snippets[i] = fmt.Sprintf("[%s](%s)\n%s", hit.Title, hit.URL, hit.Content)
		sources[i] = domain.SourceRef{
			Title:      hit.Title,
			Source:     hit.URL,
			Content:    domain.Preview(hit.Content, a.opts.PreviewLength),
			Similarity: hit.Score,
		}
	}

	snippetBlock := strings.Join(snippets, "\n\n")
	if snippetBlock == "" {
		snippetBlock = "(no results)"
	}

	prompt := fmt.Sprintf(webPromptTemplate, snippetBlock, question)
	answer, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &domain.RAGResponse{
		Answer:     answer,
		Sources:    sources,
		SearchUsed: true,
	}, nil
}

// plainAnswer asks the model with no retrieved context at all.
func (a *Assistant) plainAnswer(ctx context.Context, question string) (*domain.RAGResponse, error) {
	logger.Info("answering without grounding")

	answer, err := a.generate(ctx, question)
	if err != nil {
		return nil, err
	}

	return &domain.RAGResponse{
		Answer:     answer,
		Sources:    []domain.SourceRef{},
		SearchUsed: false,
	}, nil
}

func (a *Assistant) generate(ctx context.Context, prompt string) (string, error) {
	answer, err := a.llm.Generate(ctx, prompt, driven.GenerateOptions{})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", errors.Join(domain.ErrGenerationFailed, err))
	}
	return strings.TrimSpace(answer), nil
}
