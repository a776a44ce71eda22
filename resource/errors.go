package resource

import "fmt"

// ErrMemoryLimitExceeded is returned when a single reservation exceeds the
// configured memory limit and could never be satisfied.
type ErrMemoryLimitExceeded struct {
	Requested int64
	Limit     int64
}

func (e *ErrMemoryLimitExceeded) Error() string {
	return fmt.Sprintf("memory limit exceeded: requested %d bytes, limit %d bytes", e.Requested, e.Limit)
}
