// Package distmat builds pairwise cosine-distance matrices.
//
// A Matrix is square, symmetric and immutable. Entry (i, j) is the cosine
// distance 1 - cos(v_i, v_j) clamped to [0, 2], and the diagonal is exactly 0.
// Every Matrix carries the index→PointID mapping it was built from; indices are
// only meaningful together with that mapping.
//
// Build computes rows in parallel. The result does not depend on the number
// of workers.
//
//	m, err := distmat.Build(points)
//	if err != nil { ... }
//	d := m.At(0, 1)
package distmat
