// Package metrics provides Prometheus metrics for the s1scan engine,
// exposed by the serve-mode /metrics endpoint.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/s1tools/s1scan/internal/filter"
)

var (
	directoriesScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "s1scan_directories_scanned_total",
			Help: "Total number of directories listed during traversal",
		},
	)

	subtreesPruned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "s1scan_subtrees_pruned_total",
			Help: "Total number of pruned subtrees by reason",
		},
		[]string{"reason"},
	)

	descriptorsConsidered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "s1scan_descriptors_considered_total",
			Help: "Total number of descriptor files handed to the extractor",
		},
	)

	observationsMatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "s1scan_observations_matched_total",
			Help: "Total number of accepted observations",
		},
	)

	tileCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "s1scan_tile_cache_lookups_total",
			Help: "Tile intersection cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	searchesCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "s1scan_searches_completed_total",
			Help: "Total number of completed search runs",
		},
	)

	searchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "s1scan_search_duration_seconds",
			Help:    "Search run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
		},
	)
)

// Recorder implements the engine's Stats sink on top of Prometheus.
// Prometheus counters are safe for concurrent use, so the zero value works
// from any number of workers.
type Recorder struct{}

// NewRecorder returns a Prometheus-backed stats sink.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (*Recorder) DirectoryScanned() {
	directoriesScanned.Inc()
}

func (*Recorder) SubtreePruned(reason filter.PruneReason) {
	subtreesPruned.WithLabelValues(string(reason)).Inc()
}

func (*Recorder) DescriptorConsidered() {
	descriptorsConsidered.Inc()
}

func (*Recorder) ObservationMatched() {
	observationsMatched.Inc()
}

func (*Recorder) SearchCompleted(d time.Duration, matched int, cacheHits, cacheMisses uint64) {
	searchesCompleted.Inc()
	searchDuration.Observe(d.Seconds())
	tileCacheLookups.WithLabelValues("hit").Add(float64(cacheHits))
	tileCacheLookups.WithLabelValues("miss").Add(float64(cacheMisses))
}

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
