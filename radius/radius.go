package radius

import (
	"math"
	"slices"

	"github.com/hupe1980/ballmap/distmat"
	"github.com/hupe1980/ballmap/model"
	"github.com/hupe1980/ballmap/neighbor"
)

// NeighborRank is the neighbor rank whose distances form the knee curve.
// The rank counts the point itself, so 2 selects the nearest other point.
// It is fixed: callers cannot choose a different rank.
const NeighborRank = 2

// DefaultSensitivity is the Kneedle sensitivity S.
const DefaultSensitivity = 1.0

// Options configures radius selection.
type Options struct {
	// Sensitivity is the Kneedle S parameter. If <= 0, DefaultSensitivity is used.
	Sensitivity float64

	// Workers bounds the goroutines computing neighbor distances.
	// If <= 0, runtime.GOMAXPROCS(0) is used.
	Workers int
}

// Selection is the outcome of a radius selection.
type Selection struct {
	// Radius is the knee distance truncated to two decimal places.
	Radius float64

	// Knee is the untruncated distance at the knee.
	Knee float64

	// KneeIndex is the position of the knee in Curve.
	KneeIndex int

	// Curve holds the ascending NeighborRank distances of all points.
	Curve []float64
}

// Select estimates a ball radius for points from the knee of their sorted
// nearest-neighbor distance curve.
//
// It fails with *neighbor.ErrTooFewPoints when fewer than NeighborRank+1
// points are supplied, and with the distmat validation errors for degenerate,
// duplicate or mismatched vectors.
func Select(points []model.Point, optFns ...func(o *Options)) (*Selection, error) {
	opts := Options{Sensitivity: DefaultSensitivity}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Sensitivity <= 0 {
		opts.Sensitivity = DefaultSensitivity
	}

	if len(points) < NeighborRank+1 {
		return nil, &neighbor.ErrTooFewPoints{Need: NeighborRank + 1, Have: len(points)}
	}

	unit, err := distmat.Normalize(points)
	if err != nil {
		return nil, err
	}

	curve, err := neighbor.KthDistances(unit, NeighborRank, opts.Workers)
	if err != nil {
		return nil, err
	}
	slices.Sort(curve)

	idx, ok := Knee(curve, opts.Sensitivity)
	if !ok {
		// Flat curve: every point sits at the same distance.
		idx = 0
	}

	knee := curve[idx]
	return &Selection{
		Radius:    Truncate(knee),
		Knee:      knee,
		KneeIndex: idx,
		Curve:     curve,
	}, nil
}

// Truncate truncates d toward zero to two decimal places.
func Truncate(d float64) float64 {
	return math.Trunc(d*100) / 100
}
