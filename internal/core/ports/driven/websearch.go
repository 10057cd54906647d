package driven

import (
	"context"

	"github.com/khanhduydev/portfolio-rag/internal/core/domain"
)

// WebSearchService is the live web-search collaborator used when the
// knowledge base has no confident match. Failures are non-fatal to the
// orchestrator: it logs them and continues with an empty result set.
type WebSearchService interface {
	// Search returns up to maxResults hits for the query, best first.
	Search(ctx context.Context, query string, maxResults int) ([]domain.WebResult, error)

	// Close releases resources.
	Close() error
}
