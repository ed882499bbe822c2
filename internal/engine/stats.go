package engine

import (
	"time"

	"github.com/s1tools/s1scan/internal/filter"
)

// Stats receives engine events. Implementations must be safe for concurrent
// use; workers call into the sink in parallel.
type Stats interface {
	// DirectoryScanned records one directory listing.
	DirectoryScanned()

	// SubtreePruned records one pruned subtree with its reason.
	SubtreePruned(reason filter.PruneReason)

	// DescriptorConsidered records one descriptor handed to the extractor.
	DescriptorConsidered()

	// ObservationMatched records one accepted observation.
	ObservationMatched()

	// SearchCompleted records one finished run.
	SearchCompleted(d time.Duration, matched int, cacheHits, cacheMisses uint64)
}

// nopStats is the default sink when no metrics backend is wired in.
type nopStats struct{}

func (nopStats) DirectoryScanned()                                  {}
func (nopStats) SubtreePruned(filter.PruneReason)                   {}
func (nopStats) DescriptorConsidered()                              {}
func (nopStats) ObservationMatched()                                {}
func (nopStats) SearchCompleted(time.Duration, int, uint64, uint64) {}
