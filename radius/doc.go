// Package radius selects the ball radius (epsilon) for a ball cover.
//
// For every point the cosine distance to its NeighborRank-th nearest neighbor
// is computed. Sorted ascending these distances form a convex, increasing
// curve; the radius is the distance at the curve's knee, found with the
// Kneedle method and truncated to two decimal places.
//
//	sel, err := radius.Select(points)
//	if err != nil { ... }
//	eps := sel.Radius
package radius
