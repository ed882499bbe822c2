package filter

import (
	"fmt"
	"sync"
	"testing"
)

func TestTileCacheMemoizes(t *testing.T) {
	c := NewTileCache()

	calls := 0
	compute := func() bool {
		calls++
		return true
	}

	if got := c.GetOrCompute("70S040E-65S045E", compute); !got {
		t.Error("expected true from compute")
	}
	if got := c.GetOrCompute("70S040E-65S045E", compute); !got {
		t.Error("expected true from cache")
	}
	if calls != 1 {
		t.Errorf("expected 1 computation, got %d", calls)
	}
}

// The cache must never hand back a value stored under a different label,
// no matter how many workers hammer it at once.
func TestTileCacheConcurrentKeyIsolation(t *testing.T) {
	c := NewTileCache()

	// Each label has a deterministic value derived from its index.
	value := func(i int) bool { return i%2 == 0 }

	const workers = 8
	const rounds = 200
	const labels = 10

	var wg sync.WaitGroup
	errCh := make(chan error, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				i := (seed + r) % labels
				label := fmt.Sprintf("%02dS000E-%02dS005E", i+10, i+5)
				got := c.GetOrCompute(label, func() bool { return value(i) })
				if got != value(i) {
					errCh <- fmt.Errorf("label %s returned %v, want %v", label, got, value(i))
					return
				}
			}
		}(w)
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Error(err)
	}

	if c.Len() != labels {
		t.Errorf("expected %d labels memoized, got %d", labels, c.Len())
	}
}
