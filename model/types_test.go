package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDsAndVectors(t *testing.T) {
	points := []Point{
		{ID: 7, Vector: []float32{1, 0}},
		{ID: 3, Vector: []float32{0, 1}},
	}

	assert.Equal(t, []PointID{7, 3}, IDs(points))
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, Vectors(points))
	assert.Equal(t, "P7", PointID(7).String())
}
