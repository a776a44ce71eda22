package distmat

import (
	"errors"
	"fmt"

	"github.com/hupe1980/ballmap/model"
)

// ErrNoPoints is returned when a matrix is requested for an empty point set.
var ErrNoPoints = errors.New("no points")

// ErrDegenerateVector indicates a vector that cannot be cosine-normalized
// (empty, all-zero or non-finite).
type ErrDegenerateVector struct {
	ID model.PointID
}

func (e *ErrDegenerateVector) Error() string {
	return fmt.Sprintf("degenerate vector for point %d: zero or non-finite norm", e.ID)
}

// ErrDimensionMismatch indicates vectors of different lengths in one point set.
type ErrDimensionMismatch struct {
	ID       model.PointID
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch for point %d: expected %d, got %d", e.ID, e.Expected, e.Actual)
}

// ErrDuplicateID indicates a PointID that appears more than once in one point set.
type ErrDuplicateID struct {
	ID model.PointID
}

func (e *ErrDuplicateID) Error() string {
	return fmt.Sprintf("duplicate point id %d", e.ID)
}

// ErrInvalidMatrix indicates precomputed distances that do not form a valid distance matrix.
type ErrInvalidMatrix struct {
	Reason string
}

func (e *ErrInvalidMatrix) Error() string {
	return "invalid distance matrix: " + e.Reason
}
