package parallel

import (
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// WorkerError reports the failure of one worker. A single failing worker
// fails the whole Map call; results of other workers are discarded.
type WorkerError struct {
	Worker int
	Err    error
	Stack  []byte // set when the worker panicked
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker %d: %v", e.Worker, e.Err)
}

func (e *WorkerError) Unwrap() error {
	return e.Err
}

// Map runs fn once per chunk, each on its own goroutine, waits for all of
// them and returns the results in chunk order. The first worker error (or
// recovered panic) is returned as *WorkerError and no results are returned.
func Map[T, R any](chunks [][]T, fn func(worker int, chunk []T) (R, error)) ([]R, error) {
	results := make([]R, len(chunks))

	var g errgroup.Group
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &WorkerError{Worker: i, Err: fmt.Errorf("panic: %v", r), Stack: debug.Stack()}
				}
			}()

			res, err := fn(i, chunk)
			if err != nil {
				return &WorkerError{Worker: i, Err: err}
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
