package ballmap

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/ballmap/ballcover"
	"github.com/hupe1980/ballmap/distmat"
	"github.com/hupe1980/ballmap/graph"
	"github.com/hupe1980/ballmap/model"
	"github.com/hupe1980/ballmap/neighbor"
	"github.com/hupe1980/ballmap/radius"
)

// Request describes one graph computation.
type Request struct {
	// Points are the vectors to graph, in the order that drives landmark selection.
	Points []model.Point

	// ReferencePoints is the population the radius is selected on.
	// If empty, Points is used. Ignored when Radius is set.
	ReferencePoints []model.Point

	// Radius overrides automatic radius selection when non-nil.
	Radius *float64

	// MaxOverlap caps the number of balls a point may belong to.
	// Zero selects the Mapper default; negative values are invalid.
	MaxOverlap int
}

// Result is the outcome of a graph computation.
type Result struct {
	// Graph is the simplified ball-cover graph.
	Graph *graph.Graph

	// Radius is the ball radius actually used.
	Radius float64

	// ComputedRadius is the automatically selected radius.
	// It is nil when the request supplied an override.
	ComputedRadius *float64

	// RawNodes and RawEdges count the graph before simplification.
	RawNodes int
	RawEdges int

	// Points is the number of graphed points.
	Points int

	Stats graph.SimplifyStats
}

// Mapper computes simplified ball-cover graphs. It holds no per-call state
// and is safe for concurrent use.
type Mapper struct {
	opts options
}

// New returns a Mapper configured by optFns.
func New(optFns ...Option) *Mapper {
	return &Mapper{opts: applyOptions(optFns)}
}

// Build computes the simplified ball-cover graph for req.
//
// The radius is the caller override when present, otherwise it is selected
// from the knee of the nearest-neighbor distance curve of the reference
// population. Errors match ErrInsufficientData, ErrDegenerateVector,
// ErrInvalidParameter or ErrNotFound via errors.Is.
func (m *Mapper) Build(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	logger := m.opts.logger.WithBuildID(uuid.NewString()).WithCount(len(req.Points))

	res, err := m.build(ctx, logger, req)
	err = translateError(err)

	nodes := 0
	if res != nil {
		nodes = len(res.Graph.Nodes)
	}
	m.opts.metricsCollector.RecordBuild(len(req.Points), nodes, time.Since(start), err)
	logger.LogBuild(ctx, res, err)

	if err != nil {
		return nil, err
	}
	return res, nil
}

func (m *Mapper) build(ctx context.Context, logger *Logger, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	maxOverlap := req.MaxOverlap
	switch {
	case maxOverlap == 0:
		maxOverlap = m.opts.maxOverlap
	case maxOverlap < 0:
		return nil, &ballcover.ErrInvalidOverlap{MaxOverlap: maxOverlap}
	}

	if req.Radius != nil {
		if r := *req.Radius; r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, &ballcover.ErrInvalidRadius{Radius: r}
		}
	}

	if len(req.Points) == 0 {
		return nil, distmat.ErrNoPoints
	}

	dm, err := distmat.Build(req.Points, func(o *distmat.Options) { o.Workers = m.opts.workers })
	if err != nil {
		return nil, err
	}

	res := &Result{Points: dm.Len()}

	if req.Radius != nil {
		res.Radius = *req.Radius
	} else {
		ref := req.ReferencePoints
		if len(ref) == 0 {
			ref = req.Points
		}
		sel, err := radius.Select(ref, func(o *radius.Options) { o.Workers = m.opts.workers })
		if err != nil {
			return nil, err
		}
		logger.LogRadius(ctx, len(ref), sel.Knee, sel.Radius)

		// A knee below 0.01 truncates to zero, which no ball cover accepts.
		if sel.Radius <= 0 {
			return nil, &ballcover.ErrInvalidRadius{Radius: sel.Radius}
		}
		computed := sel.Radius
		res.Radius = computed
		res.ComputedRadius = &computed
	}

	raw, err := ballcover.Build(dm, res.Radius, maxOverlap)
	if err != nil {
		return nil, err
	}
	res.RawNodes = len(raw.Nodes)
	res.RawEdges = len(raw.Edges)

	res.Graph, res.Stats = graph.Simplify(raw)
	return res, nil
}

// Nearest returns the k points of points most cosine-similar to target,
// excluding target itself, by descending similarity with ties broken by
// ascending PointID.
func (m *Mapper) Nearest(ctx context.Context, points []model.Point, target model.PointID, k int) ([]neighbor.Neighbor, error) {
	start := time.Now()

	var (
		out []neighbor.Neighbor
		err error
	)
	if err = ctx.Err(); err == nil {
		out, err = neighbor.TopK(points, target, k)
	}
	err = translateError(err)

	m.opts.metricsCollector.RecordNearest(k, time.Since(start), err)
	m.opts.logger.LogNearest(ctx, k, len(out), err)

	if err != nil {
		return nil, err
	}
	return out, nil
}
