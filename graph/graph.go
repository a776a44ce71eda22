package graph

import (
	"cmp"
	"encoding/json"
	"iter"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/ballmap/model"
)

// NodeID identifies a landmark ball within one graph.
// NodeIDs are assigned sequentially from 0 during construction.
type NodeID uint32

// Node is a landmark ball and the points it covers.
type Node struct {
	ID NodeID

	// Landmark is the point the ball is centered on.
	Landmark model.PointID

	// Members holds the covered PointIDs. It is never empty.
	Members *roaring.Bitmap
}

// Size returns the number of covered points.
func (n *Node) Size() int {
	return int(n.Members.GetCardinality())
}

// Points returns the covered PointIDs in ascending order.
func (n *Node) Points() []model.PointID {
	return toPointIDs(n.Members)
}

// Edge connects two nodes whose member sets intersect.
type Edge struct {
	// Source is always less than Target.
	Source NodeID
	Target NodeID

	// Shared holds the PointIDs covered by both endpoints. It is never empty.
	Shared *roaring.Bitmap
}

// Weight returns the number of shared points.
func (e *Edge) Weight() int {
	return int(e.Shared.GetCardinality())
}

// Points returns the shared PointIDs in ascending order.
func (e *Edge) Points() []model.PointID {
	return toPointIDs(e.Shared)
}

// Graph is a ball-cover graph.
// Nodes are sorted by ID and edges by (Source, Target).
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	i, ok := slices.BinarySearchFunc(g.Nodes, id, func(n Node, id NodeID) int {
		return cmp.Compare(n.ID, id)
	})
	if !ok {
		return nil, false
	}
	return &g.Nodes[i], true
}

// Neighbors yields the ids adjacent to id in ascending order.
func (g *Graph) Neighbors(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		var out []NodeID
		for _, e := range g.Edges {
			switch id {
			case e.Source:
				out = append(out, e.Target)
			case e.Target:
				out = append(out, e.Source)
			}
		}
		slices.Sort(out)
		for _, nb := range out {
			if !yield(nb) {
				return
			}
		}
	}
}

// Covered returns the union of all member sets.
func (g *Graph) Covered() *roaring.Bitmap {
	sets := make([]*roaring.Bitmap, len(g.Nodes))
	for i := range g.Nodes {
		sets[i] = g.Nodes[i].Members
	}
	return roaring.FastOr(sets...)
}

// Connect derives the edge set of nodes: one edge for every pair whose member
// sets intersect, holding the intersection. Nodes must have distinct ids.
//
// Candidate pairs are found through an inverted point→nodes index, so the cost
// follows the overlap structure rather than the number of node pairs.
func Connect(nodes []Node) []Edge {
	owners := make(map[uint32][]int)
	for i := range nodes {
		it := nodes[i].Members.Iterator()
		for it.HasNext() {
			p := it.Next()
			owners[p] = append(owners[p], i)
		}
	}

	type pair struct{ a, b int }
	seen := make(map[pair]struct{})
	var edges []Edge
	for _, idx := range owners {
		for x := 0; x < len(idx); x++ {
			for y := x + 1; y < len(idx); y++ {
				a, b := idx[x], idx[y]
				if nodes[a].ID > nodes[b].ID {
					a, b = b, a
				}
				key := pair{a, b}
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				edges = append(edges, Edge{
					Source: nodes[a].ID,
					Target: nodes[b].ID,
					Shared: roaring.And(nodes[a].Members, nodes[b].Members),
				})
			}
		}
	}

	slices.SortFunc(edges, func(x, y Edge) int {
		if c := cmp.Compare(x.Source, y.Source); c != 0 {
			return c
		}
		return cmp.Compare(x.Target, y.Target)
	})
	return edges
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		out.Nodes[i] = Node{ID: n.ID, Landmark: n.Landmark, Members: n.Members.Clone()}
	}
	for i, e := range g.Edges {
		out.Edges[i] = Edge{Source: e.Source, Target: e.Target, Shared: e.Shared.Clone()}
	}
	return out
}

type nodeJSON struct {
	ID       NodeID          `json:"id"`
	Landmark model.PointID   `json:"landmark"`
	Members  []model.PointID `json:"members"`
	Size     int             `json:"size"`
}

type edgeJSON struct {
	Source NodeID          `json:"source"`
	Target NodeID          `json:"target"`
	Shared []model.PointID `json:"shared"`
}

// MarshalJSON encodes the node with its members as an ascending id list.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(nodeJSON{ID: n.ID, Landmark: n.Landmark, Members: n.Points(), Size: n.Size()})
}

// MarshalJSON encodes the edge with its shared points as an ascending id list.
func (e Edge) MarshalJSON() ([]byte, error) {
	return json.Marshal(edgeJSON{Source: e.Source, Target: e.Target, Shared: e.Points()})
}

func toPointIDs(b *roaring.Bitmap) []model.PointID {
	out := make([]model.PointID, 0, b.GetCardinality())
	it := b.Iterator()
	for it.HasNext() {
		out = append(out, model.PointID(it.Next()))
	}
	return out
}
