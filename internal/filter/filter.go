// Package filter holds the pure keep/prune decisions applied at each depth
// of the archive tree, plus the memoized tile intersection cache.
package filter

import (
	"strings"
	"time"

	"github.com/s1tools/s1scan/internal/geo"
	"github.com/s1tools/s1scan/internal/layout"
)

// Decision is the outcome of examining one directory segment.
type Decision int

const (
	// Descend keeps the segment and schedules its children.
	Descend Decision = iota
	// Prune drops the entire subtree.
	Prune
)

// PruneReason explains why a subtree was dropped, for diagnostics and
// metrics.
type PruneReason string

const (
	PruneTemporal  PruneReason = "temporal"
	PruneSpatial   PruneReason = "spatial"
	PruneMalformed PruneReason = "malformed"
	PruneMode      PruneReason = "mode"
	PruneNone      PruneReason = ""
)

// Filter evaluates directory segments against the search's temporal window
// and optional AOI. It is stateless apart from the intersection cache; the
// AOI polygon is read-only and shared by all workers.
type Filter struct {
	Window        TimeRange
	AOI           *geo.Polygon
	Cache         *TileCache
	SkipTile      string
	DescriptorExt string
}

// Year decides whether a year directory overlaps the window.
func (f *Filter) Year(name string) (Decision, PruneReason) {
	year, err := layout.ParseYear(name)
	if err != nil {
		// A stray directory at year depth is skipped, not fatal.
		return Prune, PruneMalformed
	}
	if !f.Window.OverlapsYear(year) {
		return Prune, PruneTemporal
	}
	return Descend, PruneNone
}

// MonthRange decides whether a month-range directory, anchored to its
// enclosing year, overlaps the window.
func (f *Filter) MonthRange(name string, year int) (Decision, PruneReason) {
	start, end, err := layout.ParseMonthRange(name)
	if err != nil {
		return Prune, PruneMalformed
	}
	if !f.Window.OverlapsMonths(year, start, end) {
		return Prune, PruneTemporal
	}
	return Descend, PruneNone
}

// Tile decides whether a tile directory intersects the AOI. The sentinel
// label for the non-relevant acquisition mode is always pruned. With no AOI
// configured every well-formed tile is kept. A malformed label counts as
// non-intersecting: the branch is pruned and the search continues.
func (f *Filter) Tile(name string) (Decision, PruneReason) {
	if f.SkipTile != "" && name == f.SkipTile {
		return Prune, PruneMode
	}
	if f.AOI == nil {
		return Descend, PruneNone
	}
	intersects := f.Cache.GetOrCompute(name, func() bool {
		tile, err := layout.ParseTile(name)
		if err != nil {
			return false
		}
		poly, err := geo.FromRing(tile.Ring())
		if err != nil {
			return false
		}
		return poly.Intersects(*f.AOI)
	})
	if !intersects {
		return Prune, PruneSpatial
	}
	return Descend, PruneNone
}

// Leaf reports whether a leaf filename is an observation candidate: it must
// carry the descriptor extension and embed an acquisition date inside the
// window.
func (f *Filter) Leaf(name string) bool {
	if !strings.HasSuffix(name, f.DescriptorExt) {
		return false
	}
	t, err := layout.DateToken(name)
	if err != nil {
		return false
	}
	return f.Window.Contains(t)
}

// LeafDate returns the embedded acquisition date of a candidate, for callers
// that need it after Leaf has accepted the name.
func (f *Filter) LeafDate(name string) (time.Time, error) {
	return layout.DateToken(name)
}
