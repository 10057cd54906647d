package domain

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0, 0}, []float32{0, 1, 0}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"zero left", []float32{0, 0, 0}, []float32{1, 2, 3}, 0.0},
		{"zero right", []float32{1, 2, 3}, []float32{0, 0, 0}, 0.0},
		{"both zero", []float32{0, 0}, []float32{0, 0}, 0.0},
		{"both empty", nil, nil, 0.0},
		{"scaled", []float32{1, 1}, []float32{5, 5}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarity_NeverNaN(t *testing.T) {
	vectors := [][]float32{
		nil,
		{},
		{0},
		{0, 0, 0},
		{1, 2, 3},
	}

	for _, a := range vectors {
		for _, b := range vectors {
			if got := CosineSimilarity(a, b); math.IsNaN(got) {
				t.Errorf("CosineSimilarity(%v, %v) is NaN", a, b)
			}
		}
	}
}

func TestCosineSimilarity_Range(t *testing.T) {
	a := []float32{0.3, -0.7, 0.2, 0.9}
	b := []float32{-0.1, 0.5, 0.8, -0.4}

	got := CosineSimilarity(a, b)
	if got < -1.0-1e-9 || got > 1.0+1e-9 {
		t.Errorf("CosineSimilarity() = %v, outside [-1, 1]", got)
	}
}
