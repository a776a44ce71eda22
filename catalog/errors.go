package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a catalog file or record does not exist.
var ErrNotFound = errors.New("catalog: not found")

// ErrUnknownDataset is returned for concept dataset ids other than the known taxonomies.
type ErrUnknownDataset struct {
	ID string
}

func (e *ErrUnknownDataset) Error() string {
	return fmt.Sprintf("catalog: unknown concept dataset: %s", e.ID)
}
