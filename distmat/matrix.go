package distmat

import (
	"math"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/ballmap/distance"
	"github.com/hupe1980/ballmap/model"
)

// Options configures matrix construction.
type Options struct {
	// Workers is the maximum number of goroutines computing rows.
	// If <= 0, runtime.GOMAXPROCS(0) is used.
	Workers int
}

// Matrix is an immutable N×N cosine-distance matrix stored row-major.
type Matrix struct {
	n     int
	ids   []model.PointID
	index map[model.PointID]int
	data  []float32
}

// BytesFor returns the number of bytes a Matrix over n points holds.
func BytesFor(n int) int64 {
	return int64(n) * int64(n) * 4
}

// Normalize validates points and returns unit-length copies of their vectors in input order.
//
// It fails with ErrNoPoints for an empty set, *ErrDuplicateID, *ErrDimensionMismatch
// or *ErrDegenerateVector. No vector of the input is modified.
func Normalize(points []model.Point) ([][]float32, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}

	seen := make(map[model.PointID]struct{}, len(points))
	dim := len(points[0].Vector)
	for _, p := range points {
		if _, ok := seen[p.ID]; ok {
			return nil, &ErrDuplicateID{ID: p.ID}
		}
		seen[p.ID] = struct{}{}
		if len(p.Vector) != dim {
			return nil, &ErrDimensionMismatch{ID: p.ID, Expected: dim, Actual: len(p.Vector)}
		}
	}

	unit := make([][]float32, len(points))
	for i, p := range points {
		v, ok := distance.NormalizeL2Copy(p.Vector)
		if !ok {
			return nil, &ErrDegenerateVector{ID: p.ID}
		}
		unit[i] = v
	}
	return unit, nil
}

// Build computes the cosine-distance matrix of points.
// Row i of the result corresponds to points[i].
func Build(points []model.Point, optFns ...func(o *Options)) (*Matrix, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	unit, err := Normalize(points)
	if err != nil {
		return nil, err
	}

	n := len(unit)
	m := newMatrix(model.IDs(points))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, n)

	// Rows are strided across workers so that the shrinking upper-triangle
	// rows are spread evenly. Row i owns cells (i, j) and (j, i) for j > i.
	var g errgroup.Group
	for w := range workers {
		g.Go(func() error {
			for i := w; i < n; i += workers {
				a := unit[i]
				for j := i + 1; j < n; j++ {
					d := distance.CosineDistance(a, unit[j])
					m.data[i*n+j] = d
					m.data[j*n+i] = d
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	return m, nil
}

// FromDense builds a Matrix from precomputed row-major distances.
// values must hold len(ids)² entries forming a symmetric matrix with a zero
// diagonal and entries in [0, 2].
func FromDense(ids []model.PointID, values []float32) (*Matrix, error) {
	n := len(ids)
	if n == 0 {
		return nil, ErrNoPoints
	}
	if len(values) != n*n {
		return nil, &ErrInvalidMatrix{Reason: "value count is not the square of the id count"}
	}

	seen := make(map[model.PointID]struct{}, n)
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return nil, &ErrDuplicateID{ID: id}
		}
		seen[id] = struct{}{}
	}

	for i := range n {
		if values[i*n+i] != 0 {
			return nil, &ErrInvalidMatrix{Reason: "non-zero diagonal"}
		}
		for j := i + 1; j < n; j++ {
			d := values[i*n+j]
			if d != values[j*n+i] {
				return nil, &ErrInvalidMatrix{Reason: "matrix is not symmetric"}
			}
			if math.IsNaN(float64(d)) || d < 0 || d > 2 {
				return nil, &ErrInvalidMatrix{Reason: "distance outside [0, 2]"}
			}
		}
	}

	m := newMatrix(ids)
	copy(m.data, values)
	return m, nil
}

func newMatrix(ids []model.PointID) *Matrix {
	n := len(ids)
	index := make(map[model.PointID]int, n)
	for i, id := range ids {
		index[id] = i
	}
	return &Matrix{
		n:     n,
		ids:   slices.Clone(ids),
		index: index,
		data:  make([]float32, n*n),
	}
}

// Len returns the number of points N.
func (m *Matrix) Len() int {
	return m.n
}

// At returns the distance between the points at indices i and j.
func (m *Matrix) At(i, j int) float32 {
	return m.data[i*m.n+j]
}

// Row returns the distances from the point at index i to every point.
// The returned slice must not be modified.
func (m *Matrix) Row(i int) []float32 {
	return m.data[i*m.n : (i+1)*m.n : (i+1)*m.n]
}

// ID returns the PointID at index i.
func (m *Matrix) ID(i int) model.PointID {
	return m.ids[i]
}

// IDs returns a copy of the index→PointID mapping.
func (m *Matrix) IDs() []model.PointID {
	return slices.Clone(m.ids)
}

// Index returns the matrix index of id.
func (m *Matrix) Index(id model.PointID) (int, bool) {
	i, ok := m.index[id]
	return i, ok
}

// SizeInBytes returns the size of the distance storage in bytes.
func (m *Matrix) SizeInBytes() int64 {
	return BytesFor(m.n)
}
