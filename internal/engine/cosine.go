package engine

import "math"

// cosineEpsilon keeps the denominator nonzero for zero-norm vectors.
const cosineEpsilon = 1e-8

// Cosine returns the cosine similarity of two vectors in [-1, 1].
// A zero-norm operand yields a similarity near zero rather than NaN.
func Cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	return dot / (math.Sqrt(normA)*math.Sqrt(normB) + cosineEpsilon)
}
