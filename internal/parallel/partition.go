// Package parallel provides the fan-out utilities used by the enumeration
// engine: deterministic contiguous partitioning, a parallel map with a join
// barrier and a disjoint map union.
package parallel

import (
	"errors"
	"fmt"
)

// ErrInvalidWorkerCount is returned when fewer than one worker is requested.
var ErrInvalidWorkerCount = errors.New("worker count must be at least 1")

// Partition splits items into exactly workers contiguous chunks.
// Every chunk gets len(items)/workers elements and the first
// len(items)%workers chunks get one extra. Chunks share the backing array of
// items and concatenate back to the original sequence.
func Partition[T any](items []T, workers int) ([][]T, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWorkerCount, workers)
	}

	n := len(items)
	size := n / workers
	extra := n % workers

	chunks := make([][]T, 0, workers)
	start := 0
	for i := 0; i < workers; i++ {
		end := start + size
		if i < extra {
			end++
		}
		chunks = append(chunks, items[start:end:end])
		start = end
	}
	return chunks, nil
}

// Bounds returns the [start, end) index range of chunk i when n items are
// split across workers with the same rule as Partition.
func Bounds(n, workers, i int) (start, end int) {
	size := n / workers
	extra := n % workers
	if i < extra {
		start = i * (size + 1)
		return start, start + size + 1
	}
	start = extra*(size+1) + (i-extra)*size
	return start, start + size
}
