package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ballmap/model"
)

func TestUnitVectors(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.UnitVectors(8, 32)

	assert.Equal(t, 8, len(v))
	assert.Equal(t, 32, len(v[0]))

	for _, vec := range v {
		var sum float64
		for _, x := range vec {
			sum += float64(x * x)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
	}
}

func TestDeterministic(t *testing.T) {
	a := NewRNG(42).ClusteredVectors(10, 8, 2, 0.1)
	b := NewRNG(42).ClusteredVectors(10, 8, 2, 0.1)
	assert.Equal(t, a, b)
}

func TestPoints(t *testing.T) {
	points := Points([][]float32{{1}, {2}}, 10)
	require.Len(t, points, 2)
	assert.Equal(t, model.PointID(10), points[0].ID)
	assert.Equal(t, model.PointID(11), points[1].ID)
}

func TestExactTopK(t *testing.T) {
	points := []model.Point{
		{ID: 0, Vector: []float32{1, 0}},
		{ID: 1, Vector: []float32{1, 0.1}},
		{ID: 2, Vector: []float32{0, 1}},
		{ID: 3, Vector: []float32{1, 0.5}},
	}

	got := ExactTopK(points, 0, 2)
	require.Len(t, got, 2)
	assert.Equal(t, model.PointID(1), got[0].ID)
	assert.Equal(t, model.PointID(3), got[1].ID)

	assert.Nil(t, ExactTopK(points, 99, 2))
}
