// Package neighbor provides exact brute-force cosine neighbor queries.
package neighbor

import (
	"cmp"
	"errors"
	"fmt"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/ballmap/distance"
	"github.com/hupe1980/ballmap/distmat"
	"github.com/hupe1980/ballmap/model"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrTargetNotFound is returned when the query point is not part of the point set.
	ErrTargetNotFound = errors.New("target point not found")
)

// ErrTooFewPoints indicates a point set too small for a rank-k query.
type ErrTooFewPoints struct {
	Need int
	Have int
}

func (e *ErrTooFewPoints) Error() string {
	return fmt.Sprintf("too few points: need at least %d, have %d", e.Need, e.Have)
}

// Neighbor is a point and its cosine similarity to a query point.
type Neighbor struct {
	ID         model.PointID
	Similarity float32
}

// KthDistances returns, for every unit vector, the cosine distance to its k-th
// nearest neighbor. The ranking includes the vector itself at distance 0, so
// k = 2 yields the distance to the nearest other vector.
//
// Rows are computed in parallel on up to workers goroutines
// (runtime.GOMAXPROCS(0) if workers <= 0).
func KthDistances(unit [][]float32, k int, workers int) ([]float64, error) {
	if k < 1 {
		return nil, ErrInvalidK
	}
	n := len(unit)
	if n < k {
		return nil, &ErrTooFewPoints{Need: k, Have: n}
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, n)

	out := make([]float64, n)

	var g errgroup.Group
	for w := range workers {
		g.Go(func() error {
			// best holds the k smallest distances seen so far, ascending.
			best := make([]float32, 0, k)
			for i := w; i < n; i += workers {
				best = best[:0]
				for j := range n {
					var d float32
					if i != j {
						d = distance.CosineDistance(unit[i], unit[j])
					}
					best = insertBounded(best, d, k)
				}
				out[i] = float64(best[k-1])
			}
			return nil
		})
	}
	_ = g.Wait()

	return out, nil
}

// insertBounded inserts d into the ascending slice best, keeping at most k values.
func insertBounded(best []float32, d float32, k int) []float32 {
	if len(best) == k && d >= best[k-1] {
		return best
	}
	pos, _ := slices.BinarySearch(best, d)
	if len(best) < k {
		best = append(best, 0)
	}
	copy(best[pos+1:], best[pos:len(best)-1])
	best[pos] = d
	return best
}

// TopK returns the k points most cosine-similar to target, excluding target itself.
// Results are ordered by descending similarity; ties are broken by ascending PointID.
// Fewer than k results are returned when the set holds fewer than k other points.
func TopK(points []model.Point, target model.PointID, k int) ([]Neighbor, error) {
	if k < 1 {
		return nil, ErrInvalidK
	}

	unit, err := distmat.Normalize(points)
	if err != nil {
		return nil, err
	}

	ti := slices.IndexFunc(points, func(p model.Point) bool { return p.ID == target })
	if ti < 0 {
		return nil, ErrTargetNotFound
	}

	q := unit[ti]
	all := make([]Neighbor, 0, len(points)-1)
	for i, p := range points {
		if i == ti {
			continue
		}
		all = append(all, Neighbor{ID: p.ID, Similarity: distance.Dot(q, unit[i])})
	}

	slices.SortFunc(all, func(a, b Neighbor) int {
		if c := cmp.Compare(b.Similarity, a.Similarity); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if len(all) > k {
		all = all[:k]
	}
	return all, nil
}
