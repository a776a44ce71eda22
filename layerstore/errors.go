package layerstore

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no embedding file exists for a layer.
	// The blob store's own not-found error stays in the chain.
	ErrNotFound = errors.New("layerstore: layer not found")

	// ErrRowOutOfRange is returned when a feature index does not name a row of the layer.
	ErrRowOutOfRange = errors.New("layerstore: row out of range")
)

// ErrInvalidLayer is returned for negative layer numbers.
type ErrInvalidLayer struct {
	Layer int
}

func (e *ErrInvalidLayer) Error() string {
	return fmt.Sprintf("layerstore: invalid layer %d", e.Layer)
}

// Unwrap lets callers match an invalid layer as ErrNotFound.
func (e *ErrInvalidLayer) Unwrap() error {
	return ErrNotFound
}
