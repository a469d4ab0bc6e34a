package pathfinder

import (
	"defi-path-finder/internal/cycles"
	"defi-path-finder/internal/domain"
)

// Collector concatenates paths in the order they are added. It never
// deduplicates or sorts.
type Collector struct {
	paths []domain.Path
}

// NewCollector creates a collector with room for capacity paths.
func NewCollector(capacity int) *Collector {
	return &Collector{paths: make([]domain.Path, 0, capacity)}
}

// Add appends paths.
func (c *Collector) Add(paths []domain.Path) {
	c.paths = append(c.paths, paths...)
}

// Paths returns the collected paths.
func (c *Collector) Paths() []domain.Path {
	return c.paths
}

// Len returns the number of collected paths.
func (c *Collector) Len() int {
	return len(c.paths)
}

// CollectPaths builds the cycles of every triple in ascending triple order.
func CollectPaths(table domain.EdgeTable) []domain.Path {
	keys := table.Triples()

	total := 0
	for _, t := range keys {
		total += cycles.Count(t, table[t])
	}

	c := NewCollector(total)
	for _, t := range keys {
		c.Add(cycles.BuildTriple(t, table[t]))
	}
	return c.Paths()
}
