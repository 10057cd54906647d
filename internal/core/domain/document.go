package domain

import (
	"fmt"
	"time"
)

// Chunk is the stored unit of retrieval: a bounded span of source text
// persisted together with its vector embedding.
type Chunk struct {
	// ID is the deterministic identifier "<source>_chunk_<n>".
	// Re-ingesting a source produces the same IDs, so writes upsert.
	ID string

	// Content is the chunk text. Never empty for a stored chunk.
	Content string

	// Source identifies the document this chunk was cut from
	// (file name, "bio", "projects", ...).
	Source string

	// Title is the human-readable document title, when one was extracted.
	Title string

	// Page is the 1-based page the chunk came from, or 0 when the
	// source format has no page numbering.
	Page int

	// ChunkIndex is the ordinal position within the source, dense from 0.
	ChunkIndex int

	// Embedding is the vector representation. Populated by the document
	// store at insertion time when absent.
	Embedding []float32

	// CreatedAt is when the chunk was first stored.
	CreatedAt time.Time
}

// ChunkID builds the deterministic chunk identifier for a source and index.
func ChunkID(source string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", source, index)
}

// SearchResult pairs a stored chunk with its cosine similarity to a query.
// Results are ephemeral: they exist only for the duration of one search.
type SearchResult struct {
	Chunk      Chunk
	Similarity float64
}

// WebResult is a single hit returned by the web-search collaborator.
type WebResult struct {
	Title   string
	URL     string
	Content string
	Score   float64
}

// SourceRef is one attribution entry in a RAGResponse. Content holds a
// truncated preview, never the full chunk or page text.
type SourceRef struct {
	Title      string  `json:"title"`
	Source     string  `json:"source"`
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}

// RAGResponse is the terminal result of one query: an answer plus the
// material it was grounded on. SearchUsed reports whether the query
// escalated to live web search.
type RAGResponse struct {
	Answer     string      `json:"answer"`
	Sources    []SourceRef `json:"sources"`
	SearchUsed bool        `json:"searchUsed"`
}

// IngestResult summarises one processed input.
type IngestResult struct {
	Source     string
	Title      string
	ChunkCount int
	PageCount  int
}

// Preview truncates s to max characters, marking the cut with an ellipsis.
// Truncation counts runes so multi-byte text is never split mid-character.
func Preview(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
