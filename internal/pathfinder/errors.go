package pathfinder

import (
	"errors"

	"defi-path-finder/internal/parallel"
)

// ErrInvalidInput is returned before any work starts when pools, include
// tokens or the worker count are malformed.
var ErrInvalidInput = errors.New("invalid enumeration input")

// WorkerError is the error returned when a worker fails; the whole run is
// aborted and no partial result is returned.
type WorkerError = parallel.WorkerError

// IsWorkerFailure reports whether err aborted the run from inside a worker.
func IsWorkerFailure(err error) bool {
	var we *WorkerError
	return errors.As(err, &we)
}
