package graph

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ballmap/model"
)

func node(id NodeID, points ...uint32) Node {
	return Node{ID: id, Landmark: model.PointID(points[0]), Members: roaring.BitmapOf(points...)}
}

func TestConnect(t *testing.T) {
	nodes := []Node{
		node(0, 1, 2, 3),
		node(1, 3, 4),
		node(2, 5),
		node(3, 2, 3, 4),
	}

	edges := Connect(nodes)
	require.Len(t, edges, 3)

	assert.Equal(t, NodeID(0), edges[0].Source)
	assert.Equal(t, NodeID(1), edges[0].Target)
	assert.Equal(t, []model.PointID{3}, edges[0].Points())

	assert.Equal(t, NodeID(0), edges[1].Source)
	assert.Equal(t, NodeID(3), edges[1].Target)
	assert.Equal(t, []model.PointID{2, 3}, edges[1].Points())
	assert.Equal(t, 2, edges[1].Weight())

	assert.Equal(t, NodeID(1), edges[2].Source)
	assert.Equal(t, NodeID(3), edges[2].Target)
	assert.Equal(t, []model.PointID{3, 4}, edges[2].Points())
}

func TestConnect_NoDuplicatePairs(t *testing.T) {
	// Three shared points would yield the same pair three times without dedup.
	edges := Connect([]Node{node(0, 1, 2, 3), node(1, 1, 2, 3)})
	require.Len(t, edges, 1)
	assert.Equal(t, 3, edges[0].Weight())
}

func TestGraph_Accessors(t *testing.T) {
	g := &Graph{Nodes: []Node{node(0, 1, 2), node(2, 2, 3), node(5, 9)}}
	g.Edges = Connect(g.Nodes)

	n, ok := g.Node(2)
	require.True(t, ok)
	assert.Equal(t, 2, n.Size())
	_, ok = g.Node(1)
	assert.False(t, ok)

	assert.Equal(t, []NodeID{2}, slices.Collect(g.Neighbors(0)))
	assert.Empty(t, slices.Collect(g.Neighbors(5)))

	assert.Equal(t, []uint32{1, 2, 3, 9}, g.Covered().ToArray())
}

func TestSimplify_ContainedNodeIsMerged(t *testing.T) {
	// A ⊆ B; C was wired only to A.
	a, b, c := node(0, 1, 2), node(1, 1, 2, 3), node(2, 2, 4)
	raw := &Graph{
		Nodes: []Node{a, b, c},
		Edges: []Edge{
			{Source: 0, Target: 1, Shared: roaring.BitmapOf(1, 2)},
			{Source: 0, Target: 2, Shared: roaring.BitmapOf(2)},
		},
	}

	out, stats := Simplify(raw)

	require.Len(t, out.Nodes, 2)
	assert.Equal(t, NodeID(1), out.Nodes[0].ID)
	assert.Equal(t, []model.PointID{1, 2, 3}, out.Nodes[0].Points())
	assert.Equal(t, NodeID(2), out.Nodes[1].ID)

	require.Len(t, out.Edges, 1)
	assert.Equal(t, NodeID(1), out.Edges[0].Source)
	assert.Equal(t, NodeID(2), out.Edges[0].Target)
	assert.Equal(t, []model.PointID{2}, out.Edges[0].Points())

	assert.Equal(t, 1, stats.Merges)
	assert.Equal(t, 2, stats.Passes)
}

func TestSimplify_Chain(t *testing.T) {
	nodes := []Node{node(0, 1), node(1, 1, 2), node(2, 1, 2, 3)}
	raw := &Graph{Nodes: nodes, Edges: Connect(nodes)}

	out, stats := Simplify(raw)

	require.Len(t, out.Nodes, 1)
	assert.Equal(t, NodeID(2), out.Nodes[0].ID)
	assert.Empty(t, out.Edges)
	assert.Equal(t, 2, stats.Merges)
}

func TestSimplify_EqualSetsKeepHigherID(t *testing.T) {
	nodes := []Node{node(0, 1, 2), node(1, 2, 1)}
	out, _ := Simplify(&Graph{Nodes: nodes, Edges: Connect(nodes)})

	require.Len(t, out.Nodes, 1)
	assert.Equal(t, NodeID(1), out.Nodes[0].ID)
}

func TestSimplify_IsolatedAndOverlappingNodesSurvive(t *testing.T) {
	nodes := []Node{node(0, 1, 2), node(1, 2, 3), node(2, 7)}
	raw := &Graph{Nodes: nodes, Edges: Connect(nodes)}

	out, stats := Simplify(raw)

	assert.Len(t, out.Nodes, 3)
	assert.Len(t, out.Edges, 1)
	assert.Equal(t, 0, stats.Merges)
	assert.Equal(t, 1, stats.Passes)
}

func TestSimplify_DoesNotMutateInput(t *testing.T) {
	nodes := []Node{node(0, 1), node(1, 1, 2)}
	raw := &Graph{Nodes: nodes, Edges: Connect(nodes)}
	before, err := json.Marshal(raw)
	require.NoError(t, err)

	_, _ = Simplify(raw)

	after, err := json.Marshal(raw)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestSimplify_Idempotent(t *testing.T) {
	nodes := []Node{
		node(0, 1, 2, 3),
		node(1, 3, 4),
		node(2, 4),
		node(3, 5, 6),
		node(4, 6),
		node(5, 6, 7, 1),
	}
	raw := &Graph{Nodes: nodes, Edges: Connect(nodes)}

	once, _ := Simplify(raw)
	twice, stats := Simplify(once)

	a, err := json.Marshal(once)
	require.NoError(t, err)
	b, err := json.Marshal(twice)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
	assert.Equal(t, 0, stats.Merges)

	// Coverage is preserved.
	assert.True(t, raw.Covered().Equals(once.Covered()))

	// No survivor is contained in a neighbor.
	for _, e := range once.Edges {
		s, _ := once.Node(e.Source)
		d, _ := once.Node(e.Target)
		assert.False(t, isSubset(s.Members, d.Members))
		assert.False(t, isSubset(d.Members, s.Members))
	}
}

func TestGraph_JSON(t *testing.T) {
	nodes := []Node{node(0, 4, 2), node(1, 2)}
	g := &Graph{Nodes: nodes, Edges: Connect(nodes)}

	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"nodes": [
			{"id": 0, "landmark": 4, "members": [2, 4], "size": 2},
			{"id": 1, "landmark": 2, "members": [2], "size": 1}
		],
		"edges": [
			{"source": 0, "target": 1, "shared": [2]}
		]
	}`, string(data))
}

func TestGraph_Clone(t *testing.T) {
	nodes := []Node{node(0, 1, 2), node(1, 2)}
	g := &Graph{Nodes: nodes, Edges: Connect(nodes)}

	c := g.Clone()
	c.Nodes[0].Members.Add(99)
	c.Edges[0].Shared.Add(99)

	assert.False(t, g.Nodes[0].Members.Contains(99))
	assert.False(t, g.Edges[0].Shared.Contains(99))
}
