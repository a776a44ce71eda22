package graph

import (
	"cmp"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// SimplifyStats reports the work done by Simplify.
type SimplifyStats struct {
	// Passes counts full scans, including the final scan without merges.
	Passes int
	// Merges counts nodes merged into a neighbor.
	Merges int
}

// Simplify collapses every node whose member set is contained in a neighboring
// node's member set, until no such node is left. The input graph is not modified.
//
// Each pass scans live nodes in ascending id order and merges a node into its
// first live neighbor (ascending id) holding a superset of its members: the
// neighbor absorbs the members and every other neighbor of the removed node
// becomes adjacent to it. Passes repeat until one performs no merge. Edges of
// the result are rebuilt from the surviving member sets with Connect.
// Nodes without neighbors are kept.
func Simplify(g *Graph) (*Graph, SimplifyStats) {
	var stats SimplifyStats

	nodes := slices.Clone(g.Nodes)
	slices.SortFunc(nodes, func(a, b Node) int { return cmp.Compare(a.ID, b.ID) })

	n := len(nodes)
	pos := make(map[NodeID]uint32, n)
	members := make([]*roaring.Bitmap, n)
	for i := range nodes {
		pos[nodes[i].ID] = uint32(i)
		members[i] = nodes[i].Members.Clone()
	}

	// adj[i] holds arena positions; ascending positions are ascending ids.
	adj := make([]*roaring.Bitmap, n)
	for i := range adj {
		adj[i] = roaring.New()
	}
	for _, e := range g.Edges {
		s, okS := pos[e.Source]
		t, okT := pos[e.Target]
		if !okS || !okT || s == t {
			continue
		}
		adj[s].Add(t)
		adj[t].Add(s)
	}

	alive := make([]bool, n)
	for i := range alive {
		alive[i] = true
	}

	for {
		stats.Passes++
		merged := false

		for i := range n {
			if !alive[i] {
				continue
			}

			target := -1
			it := adj[i].Iterator()
			for it.HasNext() {
				j := int(it.Next())
				if alive[j] && isSubset(members[i], members[j]) {
					target = j
					break
				}
			}
			if target < 0 {
				continue
			}

			members[target].Or(members[i])

			nbs := adj[i].Iterator()
			for nbs.HasNext() {
				nb := nbs.Next()
				if int(nb) == target {
					continue
				}
				adj[nb].Remove(uint32(i))
				adj[nb].Add(uint32(target))
				adj[target].Add(nb)
			}
			adj[target].Remove(uint32(i))

			alive[i] = false
			adj[i].Clear()
			members[i] = nil

			merged = true
			stats.Merges++
		}

		if !merged {
			break
		}
	}

	out := &Graph{Nodes: make([]Node, 0, n-stats.Merges)}
	for i := range n {
		if !alive[i] {
			continue
		}
		out.Nodes = append(out.Nodes, Node{
			ID:       nodes[i].ID,
			Landmark: nodes[i].Landmark,
			Members:  members[i],
		})
	}
	out.Edges = Connect(out.Nodes)

	return out, stats
}

func isSubset(a, b *roaring.Bitmap) bool {
	return a.AndCardinality(b) == a.GetCardinality()
}
