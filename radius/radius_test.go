package radius

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ballmap/distmat"
	"github.com/hupe1980/ballmap/model"
	"github.com/hupe1980/ballmap/neighbor"
	"github.com/hupe1980/ballmap/testutil"
)

func TestKnee(t *testing.T) {
	tests := []struct {
		name  string
		curve []float64
		index int
	}{
		// The knee sits at the jump, not at either extreme.
		{"Jump", []float64{0.05, 0.07, 0.09, 0.40, 0.42}, 2},
		{"LateJump", []float64{0.01, 0.02, 0.03, 0.04, 0.05, 0.06, 0.07, 0.08, 0.30, 0.60, 0.90}, 7},
		{"Plateau", []float64{0.1, 0.1, 0.1, 0.1, 0.9}, 3},
		// A straight line has no knee; the fallback picks the difference maximum.
		{"Linear", []float64{0.1, 0.2, 0.3}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := Knee(tt.curve, DefaultSensitivity)
			require.True(t, ok)
			assert.Equal(t, tt.index, idx)
		})
	}
}

func TestKnee_Degenerate(t *testing.T) {
	_, ok := Knee([]float64{0.3}, DefaultSensitivity)
	assert.False(t, ok)

	_, ok = Knee([]float64{0.3, 0.3, 0.3}, DefaultSensitivity)
	assert.False(t, ok)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, 0.09, Truncate(0.09))
	assert.Equal(t, 0.12, Truncate(0.1299))
	assert.Equal(t, 0.0, Truncate(0.0099))
	assert.Equal(t, 1.5, Truncate(1.5))
}

func TestSelect(t *testing.T) {
	rng := testutil.NewRNG(4711)
	points := testutil.Points(rng.ClusteredVectors(90, 32, 3, 0.05), 0)

	sel, err := Select(points)
	require.NoError(t, err)

	assert.Len(t, sel.Curve, len(points))
	assert.True(t, slices.IsSorted(sel.Curve))
	assert.Equal(t, sel.Curve[sel.KneeIndex], sel.Knee)
	assert.Equal(t, Truncate(sel.Knee), sel.Radius)
	assert.LessOrEqual(t, sel.Radius, sel.Curve[len(sel.Curve)-1])
	assert.GreaterOrEqual(t, sel.Radius, 0.0)
}

func TestSelect_FlatCurve(t *testing.T) {
	// Three orthogonal axes: every nearest-other distance is exactly 1.
	points := []model.Point{
		{ID: 0, Vector: []float32{1, 0, 0}},
		{ID: 1, Vector: []float32{0, 1, 0}},
		{ID: 2, Vector: []float32{0, 0, 1}},
	}

	sel, err := Select(points)
	require.NoError(t, err)
	assert.Equal(t, 1.0, sel.Radius)
	assert.Equal(t, 0, sel.KneeIndex)
}

func TestSelect_Errors(t *testing.T) {
	t.Run("TooFewPoints", func(t *testing.T) {
		_, err := Select([]model.Point{
			{ID: 0, Vector: []float32{1, 0}},
			{ID: 1, Vector: []float32{0, 1}},
		})
		var tf *neighbor.ErrTooFewPoints
		require.ErrorAs(t, err, &tf)
		assert.Equal(t, NeighborRank+1, tf.Need)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := Select(nil)
		var tf *neighbor.ErrTooFewPoints
		assert.ErrorAs(t, err, &tf)
	})

	t.Run("ZeroNorm", func(t *testing.T) {
		_, err := Select([]model.Point{
			{ID: 0, Vector: []float32{1, 0}},
			{ID: 1, Vector: []float32{0, 1}},
			{ID: 2, Vector: []float32{0, 0}},
		})
		var dv *distmat.ErrDegenerateVector
		require.ErrorAs(t, err, &dv)
		assert.Equal(t, model.PointID(2), dv.ID)
	})
}
