package ballmap

import (
	"errors"
	"fmt"

	"github.com/hupe1980/ballmap/ballcover"
	"github.com/hupe1980/ballmap/distmat"
	"github.com/hupe1980/ballmap/layerstore"
	"github.com/hupe1980/ballmap/neighbor"
)

var (
	// ErrInsufficientData is returned when too few points are supplied:
	// none at all, or fewer than radius selection needs.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrDegenerateVector is returned when a vector has zero norm and cannot be cosine-normalized.
	ErrDegenerateVector = errors.New("degenerate vector")

	// ErrInvalidParameter is returned for an out-of-range radius, overlap cap or point set.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNotFound is returned when no embeddings exist for the requested scope,
	// or a requested point is not part of the point set.
	ErrNotFound = errors.New("not found")
)

// translateError maps errors of the lower layers onto the public error contract.
// The original error stays reachable through errors.Is and errors.As.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrInsufficientData),
		errors.Is(err, ErrDegenerateVector),
		errors.Is(err, ErrInvalidParameter),
		errors.Is(err, ErrNotFound):
		return err
	}

	// Not found unification.
	if errors.Is(err, layerstore.ErrNotFound) || errors.Is(err, neighbor.ErrTargetNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	// Too little data.
	var tf *neighbor.ErrTooFewPoints
	if errors.Is(err, distmat.ErrNoPoints) || errors.Is(err, ballcover.ErrEmptyMatrix) || errors.As(err, &tf) {
		return fmt.Errorf("%w: %w", ErrInsufficientData, err)
	}

	var dv *distmat.ErrDegenerateVector
	if errors.As(err, &dv) {
		return fmt.Errorf("%w: %w", ErrDegenerateVector, err)
	}

	// Argument normalization.
	var (
		ir  *ballcover.ErrInvalidRadius
		io  *ballcover.ErrInvalidOverlap
		dm  *distmat.ErrDimensionMismatch
		dup *distmat.ErrDuplicateID
		im  *distmat.ErrInvalidMatrix
	)
	if errors.As(err, &ir) || errors.As(err, &io) || errors.As(err, &dm) ||
		errors.As(err, &dup) || errors.As(err, &im) ||
		errors.Is(err, neighbor.ErrInvalidK) || errors.Is(err, layerstore.ErrRowOutOfRange) {
		return fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}

	return err
}
