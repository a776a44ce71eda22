package model

import (
	"fmt"
)

// PointID is the caller-assigned identifier of a feature vector.
// For SAE features this is the feature index within a layer.
type PointID uint32

// String returns a string representation of the PointID.
func (id PointID) String() string {
	return fmt.Sprintf("P%d", uint32(id))
}

// Point pairs a PointID with its feature vector.
// The vector is owned by the caller; ballmap never mutates it.
type Point struct {
	ID     PointID
	Vector []float32
}

// IDs returns the ids of points in input order.
func IDs(points []Point) []PointID {
	ids := make([]PointID, len(points))
	for i, p := range points {
		ids[i] = p.ID
	}
	return ids
}

// Vectors returns the vectors of points in input order.
// The returned slices alias the points' vectors.
func Vectors(points []Point) [][]float32 {
	vecs := make([][]float32, len(points))
	for i, p := range points {
		vecs[i] = p.Vector
	}
	return vecs
}
