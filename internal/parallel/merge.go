package parallel

import (
	"errors"
	"fmt"
)

// ErrDuplicateKey is returned when two partial results carry the same key.
// Partitions are disjoint by construction, so this indicates a bug upstream.
var ErrDuplicateKey = errors.New("duplicate key in disjoint merge")

// MergeDisjoint unions parts into a single map in the given order.
// Keys must be disjoint across parts.
func MergeDisjoint[K comparable, V any](parts ...map[K]V) (map[K]V, error) {
	total := 0
	for _, p := range parts {
		total += len(p)
	}

	out := make(map[K]V, total)
	for _, p := range parts {
		for k, v := range p {
			if _, exists := out[k]; exists {
				return nil, fmt.Errorf("%w: %v", ErrDuplicateKey, k)
			}
			out[k] = v
		}
	}
	return out, nil
}
