package engine

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"parallel", []float32{1, 2, 3}, []float32{2, 4, 6}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cosine(tt.a, tt.b); math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Cosine = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestCosine_ZeroNormVector(t *testing.T) {
	got := Cosine([]float32{0, 0, 0}, []float32{1, 2, 3})
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("zero-norm vector must not produce NaN/Inf, got %g", got)
	}
	if got != 0 {
		t.Errorf("Cosine against zero vector = %g, want 0", got)
	}
}
