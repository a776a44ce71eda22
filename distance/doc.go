// Package distance provides cosine kernels over float32 vectors.
//
// Vectors are compared by cosine distance, 1 - cos(a, b), which lies in [0, 2].
// Callers normalize once with NormalizeL2Copy and then use CosineDistance,
// which reduces to a dot product on unit vectors.
//
// # Usage
//
//	u, ok := distance.NormalizeL2Copy(a)
//	v, ok := distance.NormalizeL2Copy(b)
//	d := distance.CosineDistance(u, v)
package distance
