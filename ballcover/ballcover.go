// Package ballcover builds greedy ball covers over a cosine-distance matrix.
package ballcover

import (
	"errors"
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/ballmap/distmat"
	"github.com/hupe1980/ballmap/graph"
)

// ErrEmptyMatrix is returned when the matrix is nil or has no points.
var ErrEmptyMatrix = errors.New("empty distance matrix")

// ErrInvalidRadius indicates a radius that is not a positive finite number.
type ErrInvalidRadius struct {
	Radius float64
}

func (e *ErrInvalidRadius) Error() string {
	return fmt.Sprintf("invalid radius %v: must be positive and finite", e.Radius)
}

// ErrInvalidOverlap indicates an overlap cap below 1.
type ErrInvalidOverlap struct {
	MaxOverlap int
}

func (e *ErrInvalidOverlap) Error() string {
	return fmt.Sprintf("invalid overlap cap %d: must be at least 1", e.MaxOverlap)
}

// Build covers every point of m with balls of radius eps and returns the raw
// ball-cover graph.
//
// Landmarks are chosen greedily in ascending matrix index order: the first
// point not yet covered by any ball becomes the next landmark, and its ball
// claims every point within distance <= eps that fewer than maxOverlap balls
// already cover. The landmark itself is always claimed. NodeIDs follow
// landmark order starting at 0. Edges join every pair of balls sharing a point.
//
// The result only depends on m and the parameters.
func Build(m *distmat.Matrix, eps float64, maxOverlap int) (*graph.Graph, error) {
	if eps <= 0 || math.IsNaN(eps) || math.IsInf(eps, 0) {
		return nil, &ErrInvalidRadius{Radius: eps}
	}
	if maxOverlap < 1 {
		return nil, &ErrInvalidOverlap{MaxOverlap: maxOverlap}
	}
	if m == nil || m.Len() == 0 {
		return nil, ErrEmptyMatrix
	}

	n := m.Len()
	coverage := make([]int, n)
	var nodes []graph.Node

	for landmark := range n {
		if coverage[landmark] > 0 {
			continue
		}

		members := roaring.New()
		for j, d := range m.Row(landmark) {
			if float64(d) <= eps && coverage[j] < maxOverlap {
				coverage[j]++
				members.Add(uint32(m.ID(j)))
			}
		}

		nodes = append(nodes, graph.Node{
			ID:       graph.NodeID(len(nodes)),
			Landmark: m.ID(landmark),
			Members:  members,
		})
	}

	return &graph.Graph{Nodes: nodes, Edges: graph.Connect(nodes)}, nil
}
