// Package graph holds the ball-cover graph model and its simplification.
//
// A Graph is a set of landmark nodes, each covering a non-empty set of points,
// and the edges between nodes whose covered sets intersect. Member and shared
// point sets are Roaring bitmaps of model.PointID values.
//
// Edges are never created by hand: Connect derives them from member sets, and
// Simplify rebuilds them after collapsing redundant nodes.
//
//	simplified, stats := graph.Simplify(raw)
package graph
