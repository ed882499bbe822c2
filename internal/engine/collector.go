package engine

import (
	"sync"

	"github.com/s1tools/s1scan/internal/extract"
)

// Collector accumulates accepted observations from concurrent workers.
// Append-only; the final read happens after the queue has drained, so no
// partial views are handed out during a run.
type Collector struct {
	mu      sync.Mutex
	records []extract.Observation
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add appends one observation.
func (c *Collector) Add(o extract.Observation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, o)
}

// Len returns the number of collected observations.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// Records returns a copy of the collected observations. Order reflects
// discovery order across workers and carries no guarantee.
func (c *Collector) Records() []extract.Observation {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]extract.Observation, len(c.records))
	copy(out, c.records)
	return out
}
