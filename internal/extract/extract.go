// Package extract reads sidecar descriptor files and pulls out the
// per-observation geospatial metadata: the footprint polygon (as WKT) and
// the acquisition pass direction.
package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/s1tools/s1scan/internal/geo"
)

var (
	// ErrMissingMetadataField marks a descriptor that lacks a footprint or
	// pass direction. Many descriptors intentionally omit one of the two,
	// so the candidate is discarded without failing the search.
	ErrMissingMetadataField = errors.New("descriptor missing metadata field")

	// ErrUnreadableDescriptor marks an I/O failure reading a descriptor.
	// The candidate is discarded and the failure logged.
	ErrUnreadableDescriptor = errors.New("unreadable descriptor")
)

// The footprint and pass direction are located by independent pattern
// matches; descriptor schemas vary across processors, so no XML model is
// assumed.
var (
	footprintRe = regexp.MustCompile(`(?is)(POLYGON\s*\(\(.+?\)\))`)
	passRe      = regexp.MustCompile(`(?i)\b(ascending|descending)\b`)
)

// Observation is one accepted satellite observation. Immutable once created.
type Observation struct {
	// Identifier names the observation. The extractor fills in the
	// descriptor's own filename; the engine swaps the extension for the
	// archive extension once, after all filtering.
	Identifier string

	// FootprintWKT is the observation footprint polygon as WKT.
	FootprintWKT string

	// Direction is the acquisition pass direction, "Ascending" or
	// "Descending" as spelled in the descriptor.
	Direction string
}

// Extractor reads descriptors and applies the two acceptance gates: pass
// direction equality and, when an AOI is configured, footprint intersection.
type Extractor struct {
	// Direction is the requested pass direction; comparison is
	// case-insensitive.
	Direction string

	// AOI is the optional area of interest. nil means the spatial gate
	// passes automatically.
	AOI *geo.Polygon

	Logger *slog.Logger
}

// Extract reads the descriptor at path once and returns the observation if
// it passes both gates. A (nil, nil) return means the candidate was examined
// and rejected: a gate failed, which is not an error. Errors are local to
// the candidate and recoverable.
func (e *Extractor) Extract(path string) (*Observation, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if e.Logger != nil {
			e.Logger.Warn("failed to read descriptor",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableDescriptor, path, err)
	}

	footprint := footprintRe.FindString(string(content))
	if footprint == "" {
		return nil, fmt.Errorf("%w: no footprint in %s", ErrMissingMetadataField, path)
	}

	direction := passRe.FindString(string(content))
	if direction == "" {
		return nil, fmt.Errorf("%w: no pass direction in %s", ErrMissingMetadataField, path)
	}

	if !strings.EqualFold(direction, e.Direction) {
		return nil, nil
	}

	poly, err := geo.ParseWKT(footprint)
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable footprint in %s: %v", ErrMissingMetadataField, path, err)
	}

	if e.AOI != nil && !poly.Intersects(*e.AOI) {
		return nil, nil
	}

	return &Observation{
		Identifier:   filepath.Base(path),
		FootprintWKT: footprint,
		Direction:    direction,
	}, nil
}
