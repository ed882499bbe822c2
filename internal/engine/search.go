// Package engine coordinates the concurrent archive traversal: a shared
// work queue of pending directories, a bounded worker pool with a heuristic
// ramp, a thread-safe result collector and the controller that drives a
// search run from seeding to drain.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/s1tools/s1scan/internal/extract"
	"github.com/s1tools/s1scan/internal/filter"
	"github.com/s1tools/s1scan/internal/geo"
	"github.com/s1tools/s1scan/internal/layout"
)

// ErrRootNotFound is returned when the search root does not exist or is not
// a directory. It is the only traversal error that aborts a run.
var ErrRootNotFound = errors.New("search root not found")

// Defaults applied by Search when the corresponding option is zero.
const (
	DefaultWorkers       = 4
	DefaultRampDelay     = 2 * time.Second
	DefaultDescriptorExt = ".xml"
	DefaultArchiveExt    = ".zip"
	DefaultDirection     = "Descending"
)

// Options configures one search run.
type Options struct {
	// Root is the archive root directory (required).
	Root string

	// Window is the inclusive acquisition date window.
	Window filter.TimeRange

	// Direction is the requested pass direction. Default "Descending".
	Direction string

	// AOI restricts results spatially. nil searches the whole archive.
	// The polygon is shared read-only across workers.
	AOI *geo.Polygon

	// Workers is the pool size. Default DefaultWorkers.
	Workers int

	// RampDelay is how long the controller waits before deciding whether
	// to launch the workers beyond the first. Zero launches the full pool
	// immediately; negative uses the default.
	RampDelay time.Duration

	// SkipTile is a tile directory name that is always pruned (reserved
	// for the non-relevant acquisition mode).
	SkipTile string

	// DescriptorExt and ArchiveExt drive candidate selection and the
	// identifier swap. Defaults ".xml" and ".zip".
	DescriptorExt string
	ArchiveExt    string

	Logger *slog.Logger
	Stats  Stats
}

func (o *Options) fillDefaults() {
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.RampDelay < 0 {
		o.RampDelay = DefaultRampDelay
	}
	if o.Direction == "" {
		o.Direction = DefaultDirection
	}
	if o.DescriptorExt == "" {
		o.DescriptorExt = DefaultDescriptorExt
	}
	if o.ArchiveExt == "" {
		o.ArchiveExt = DefaultArchiveExt
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Stats == nil {
		o.Stats = nopStats{}
	}
}

// Search runs one search to completion and returns the matched archive
// identifiers with their footprints. The result set is unordered.
//
// Cancellation is graceful: when ctx is done, in-flight workers finish the
// directory they hold and stop dequeuing. Whatever was collected up to that
// point is returned together with ctx.Err(); callers decide whether a
// partial result is a success.
func Search(ctx context.Context, opts Options) ([]extract.Observation, error) {
	opts.fillDefaults()
	started := time.Now()

	info, err := os.Stat(opts.Root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, opts.Root)
	}

	logger := opts.Logger.With(slog.String("search_id", shortID()))
	codec := layout.NewCodec(opts.Root)
	cache := filter.NewTileCache()

	filt := &filter.Filter{
		Window:        opts.Window,
		AOI:           opts.AOI,
		Cache:         cache,
		SkipTile:      opts.SkipTile,
		DescriptorExt: opts.DescriptorExt,
	}
	extractor := &extract.Extractor{
		Direction: opts.Direction,
		AOI:       opts.AOI,
		Logger:    logger,
	}

	queue := NewQueue()
	collector := NewCollector()
	w := &worker{
		codec:      codec,
		filter:     filt,
		extractor:  extractor,
		queue:      queue,
		collector:  collector,
		stats:      opts.Stats,
		logger:     logger,
		archiveExt: opts.ArchiveExt,
	}

	// Seeding: only year directories overlapping the window enter the
	// queue. Everything below is discovered by the workers themselves.
	entries, err := os.ReadDir(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRootNotFound, opts.Root, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		decision, reason := filt.Year(entry.Name())
		if decision != filter.Descend {
			opts.Stats.SubtreePruned(reason)
			continue
		}
		queue.Push(filepath.Join(opts.Root, entry.Name()))
	}

	logger.Info("search seeded",
		slog.String("root", opts.Root),
		slog.String("start", opts.Window.Start.Format("2006-01-02")),
		slog.String("end", opts.Window.End.Format("2006-01-02")),
		slog.String("direction", opts.Direction),
		slog.Bool("aoi", opts.AOI != nil),
		slog.Int("seeded", queue.Len()),
	)

	// Release workers as soon as the context ends; they finish their
	// current directory and exit without dequeuing more.
	stopWatch := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			queue.Stop()
		case <-stopWatch:
		}
	}()
	defer close(stopWatch)

	var group errgroup.Group
	group.Go(w.run)

	// Heuristic ramp: the remaining workers launch only if, after a short
	// delay, the queue has fanned out past the pool size. A shallow tree
	// keeps running single-worker — a deliberate trade documented as a
	// limitation, not a scheduler. Drain correctness never depends on how
	// many workers actually start.
	if opts.Workers > 1 {
		if opts.RampDelay > 0 {
			select {
			case <-time.After(opts.RampDelay):
			case <-ctx.Done():
			}
		}
		if ctx.Err() == nil && (opts.RampDelay == 0 || queue.Len() > opts.Workers) {
			for i := 1; i < opts.Workers; i++ {
				group.Go(w.run)
			}
			logger.Debug("worker pool ramped", slog.Int("workers", opts.Workers))
		}
	}

	// Workers only return nil; Wait is the drain barrier.
	_ = group.Wait()

	records := collector.Records()
	hits, misses := cache.Stats()
	opts.Stats.SearchCompleted(time.Since(started), len(records), hits, misses)

	if err := ctx.Err(); err != nil {
		logger.Info("search interrupted",
			slog.Int("matched", len(records)),
			slog.Duration("elapsed", time.Since(started)),
		)
		return records, err
	}

	logger.Info("search complete",
		slog.Int("matched", len(records)),
		slog.Uint64("cache_hits", hits),
		slog.Uint64("cache_misses", misses),
		slog.Duration("elapsed", time.Since(started)),
	)
	return records, nil
}

func shortID() string {
	return uuid.NewString()[:8]
}

// worker holds the per-run state shared by every pool member. A popped
// directory is owned exclusively by the worker that popped it.
type worker struct {
	codec      layout.Codec
	filter     *filter.Filter
	extractor  *extract.Extractor
	queue      *Queue
	collector  *Collector
	stats      Stats
	logger     *slog.Logger
	archiveExt string
}

func (w *worker) run() error {
	for {
		dir, ok := w.queue.Pop()
		if !ok {
			return nil
		}
		w.process(dir)
		w.queue.Done()
	}
}

// process lists one directory and routes its children by the directory's
// depth. Per-directory errors are logged and skipped; they never abort the
// run.
func (w *worker) process(dir string) {
	w.stats.DirectoryScanned()

	kind, err := w.codec.Kind(dir)
	if err != nil {
		w.logger.Warn("unclassifiable directory", slog.String("path", dir), slog.String("error", err.Error()))
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.logger.Warn("unreadable directory", slog.String("path", dir), slog.String("error", err.Error()))
		return
	}

	switch kind {
	case layout.KindYear:
		year, err := w.codec.Year(dir)
		if err != nil {
			w.logger.Warn("bad year directory", slog.String("path", dir), slog.String("error", err.Error()))
			return
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			decision, reason := w.filter.MonthRange(entry.Name(), year)
			if decision != filter.Descend {
				w.stats.SubtreePruned(reason)
				continue
			}
			w.queue.Push(filepath.Join(dir, entry.Name()))
		}

	case layout.KindMonthRange:
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			decision, reason := w.filter.Tile(entry.Name())
			if decision != filter.Descend {
				w.stats.SubtreePruned(reason)
				continue
			}
			w.queue.Push(filepath.Join(dir, entry.Name()))
		}

	case layout.KindTile:
		for _, entry := range entries {
			if entry.IsDir() || !w.filter.Leaf(entry.Name()) {
				continue
			}
			w.stats.DescriptorConsidered()
			obs, err := w.extractor.Extract(filepath.Join(dir, entry.Name()))
			if err != nil {
				w.logger.Debug("descriptor discarded", slog.String("file", entry.Name()), slog.String("reason", err.Error()))
				continue
			}
			if obs == nil {
				continue
			}
			// The one and only identifier swap, after every gate
			// has passed.
			obs.Identifier = layout.ArchiveIdentifier(obs.Identifier, w.filter.DescriptorExt, w.archiveExt)
			w.collector.Add(*obs)
			w.stats.ObservationMatched()
		}

	default:
		w.logger.Warn("unexpected depth in queue", slog.String("path", dir), slog.String("kind", kind.String()))
	}
}
