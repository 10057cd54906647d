package services

import (
	"strings"

	"github.com/khanhduydev/portfolio-rag/internal/core/domain"
)

// overlapCharsPerWord converts the configured character overlap into a word
// count. Five characters per word is a rough English average; it is an
// approximation, not a contract.
const overlapCharsPerWord = 5

// Processor splits raw text into ordered, overlapping chunks bounded by a
// target character length. The bound is soft: a single sentence longer than
// the chunk size is emitted whole rather than truncated.
type Processor struct {
	chunkSize int
	overlap   int
}

// ProcessorOption configures the processor.
type ProcessorOption func(*Processor)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) ProcessorOption {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithChunkOverlap sets the overlap carried between chunks in characters.
func WithChunkOverlap(overlap int) ProcessorOption {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// NewProcessor creates a document processor with the given options.
func NewProcessor(opts ...ProcessorOption) *Processor {
	p := &Processor{
		chunkSize: domain.DefaultChunkSize,
		overlap:   domain.DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Chunk splits text into chunks for the given source. Chunk indexes start
// at 0 and increase without gaps; IDs are deterministic per (source, index)
// so re-chunking the same input upserts rather than duplicates.
func (p *Processor) Chunk(text, source string) []domain.Chunk {
	sentences := splitSentences(normaliseWhitespace(text))
	if len(sentences) == 0 {
		return nil
	}

	var pieces []string
	current := ""

	for _, sentence := range sentences {
		candidate := sentence
		if current != "" {
			candidate = current + " " + sentence
		}

		if len(candidate) > p.chunkSize && current != "" {
			pieces = append(pieces, current)

			// Seed the next chunk with the tail of the one just
			// closed so context carries across the boundary.
			seed := lastWords(current, p.overlap/overlapCharsPerWord)
			if seed != "" {
				current = seed + " " + sentence
			} else {
				current = sentence
			}
			continue
		}

		current = candidate
	}

	if strings.TrimSpace(current) != "" {
		pieces = append(pieces, current)
	}

	chunks := make([]domain.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = domain.Chunk{
			ID:         domain.ChunkID(source, i),
			Content:    piece,
			Source:     source,
			ChunkIndex: i,
		}
	}

	return chunks
}

// normaliseWhitespace collapses runs of whitespace and newlines to single
// spaces and trims the ends.
func normaliseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// splitSentences breaks text on '.', '!' and '?' boundaries, discarding
// empty fragments. This is a heuristic, not a linguistic sentence splitter;
// abbreviations and decimal points produce extra fragments, which the greedy
// accumulation absorbs harmlessly.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// lastWords returns the final n space-separated words of s.
func lastWords(s string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(s)
	if len(words) > n {
		words = words[len(words)-n:]
	}
	return strings.Join(words, " ")
}
