// Package ballmap builds simplified ball-cover graphs over sets of feature vectors.
//
// A ball-cover graph groups similar vectors into balls around greedily chosen
// landmarks and connects balls that share members. It is the backbone of an
// exploratory view over sparse-autoencoder feature directions: one graph per
// model layer, nodes are groups of related features.
//
// # Quick Start
//
//	m := ballmap.New()
//	res, err := m.Build(ctx, ballmap.Request{Points: points})
//	if err != nil {
//	    // errors.Is(err, ballmap.ErrInsufficientData) etc.
//	}
//	for _, n := range res.Graph.Nodes {
//	    fmt.Println(n.ID, n.Landmark, n.Members.GetCardinality())
//	}
//
// # Pipeline
//
// Build runs four stages, each in its own package:
//
//	distmat   cosine-distance matrix over unit-normalized vectors
//	radius    knee of the sorted nearest-neighbor distance curve
//	ballcover greedy landmarks, each point in at most MaxOverlap balls
//	graph     containment merge until no node is a subset of a neighbor
//
// The radius stage is skipped when Request.Radius is set:
//
//	r := 0.25
//	res, _ := m.Build(ctx, ballmap.Request{Points: points, Radius: &r, MaxOverlap: 2})
//
// Every stage is deterministic for a fixed input order. Nothing is cached
// between calls.
//
// # Observability
//
//	m := ballmap.New(
//	    ballmap.WithLogger(ballmap.NewJSONLogger(slog.LevelDebug)),
//	    ballmap.WithMetricsCollector(prom.NewCollector(prometheus.DefaultRegisterer)),
//	)
//
// # Collaborators
//
// Package layerstore loads per-layer embedding matrices from a blobstore,
// package catalog filters feature records, and package server exposes the
// pipeline over HTTP. None of them is required to use Mapper.
package ballmap
