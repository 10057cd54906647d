package domain

import "math"

// CosineSimilarity computes the cosine similarity of two embeddings:
// dot(a,b) / (|a| * |b|), in [-1, 1]. A zero-norm vector compared against
// anything yields 0; the function never divides by zero or returns NaN.
//
// Callers are responsible for checking that len(a) == len(b); the document
// store reports a length disagreement as ErrDimensionMismatch.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
