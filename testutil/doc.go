// Package testutil provides testing utilities for ballmap.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating deterministic random vectors and
// computing exact nearest neighbors.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	vecs := rng.ClusteredVectors(300, 64, 5, 0.05)
//	points := testutil.Points(vecs, 0)
//
// # Exact Search (Ground Truth)
//
//	want := testutil.ExactTopK(points, target, 3)
package testutil
