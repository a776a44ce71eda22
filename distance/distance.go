// Package distance provides the cosine kernels used by the ballmap pipeline.
package distance

import (
	"math"
	"slices"
)

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	var s0, s1, s2, s3 float32
	n := len(a)
	i := 0
	for ; i+4 <= n; i += 4 {
		s0 += a[i] * b[i]
		s1 += a[i+1] * b[i+1]
		s2 += a[i+2] * b[i+2]
		s3 += a[i+3] * b[i+3]
	}
	for ; i < n; i++ {
		s0 += a[i] * b[i]
	}
	return (s0 + s1) + (s2 + s3)
}

// Norm returns the L2 norm of v.
func Norm(v []float32) float32 {
	return float32(math.Sqrt(float64(Dot(v, v))))
}

// NormalizeL2InPlace L2-normalizes v in place.
// Returns false if v is empty, has zero L2 norm or a non-finite norm.
func NormalizeL2InPlace(v []float32) bool {
	if len(v) == 0 {
		return false
	}
	norm2 := float64(Dot(v, v))
	if norm2 == 0 || math.IsNaN(norm2) || math.IsInf(norm2, 0) {
		return false
	}
	inv := float32(1 / math.Sqrt(norm2))
	for i := range v {
		v[i] *= inv
	}
	return true
}

// NormalizeL2Copy returns a normalized copy of src.
// Returns false if src cannot be normalized.
func NormalizeL2Copy(src []float32) ([]float32, bool) {
	dst := slices.Clone(src)
	if !NormalizeL2InPlace(dst) {
		return nil, false
	}
	return dst, true
}

// CosineDistance returns 1 - dot(a, b) for unit vectors a and b,
// clamped to [0, 2] to absorb floating-point overshoot.
func CosineDistance(a, b []float32) float32 {
	return ClampDistance(1 - Dot(a, b))
}

// ClampDistance clamps a cosine distance to [0, 2].
func ClampDistance(d float32) float32 {
	if d < 0 || math.IsNaN(float64(d)) {
		return 0
	}
	if d > 2 {
		return 2
	}
	return d
}

// CosineSimilarity returns the cosine similarity of two arbitrary vectors.
// Returns false if either vector has zero norm.
func CosineSimilarity(a, b []float32) (float32, bool) {
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0, false
	}
	return Dot(a, b) / (na * nb), true
}
