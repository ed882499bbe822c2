// Package aoi resolves an area-of-interest request into a single polygon
// before any traversal begins. A requested AOI that cannot be resolved is a
// fatal configuration error: failing fast beats silently searching the whole
// archive unfiltered.
package aoi

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/s1tools/s1scan/internal/geo"
	"github.com/s1tools/s1scan/pkg/geojson"
)

// ErrNoAOIGeometry is returned when an AOI source was requested but no
// usable geometry came out of it.
var ErrNoAOIGeometry = errors.New("no AOI geometry")

// Source names at most one way to obtain the AOI polygon.
type Source struct {
	// Region is a built-in named region.
	Region string

	// VectorPath points at a GeoJSON (.json/.geojson) or WKT (.wkt) file;
	// FeatureIndex selects the feature inside a collection.
	VectorPath   string
	FeatureIndex int

	// BBox is a raw [west, south, east, north] extent.
	BBox []float64
}

// Empty reports whether no AOI was requested.
func (s Source) Empty() bool {
	return s.Region == "" && s.VectorPath == "" && len(s.BBox) == 0
}

// ParseBBox parses a "west,south,east,north" string.
func ParseBBox(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("bbox must have 4 values, got %d", len(parts))
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bbox value %q is not a number", p)
		}
		vals[i] = v
	}
	return vals, nil
}

// Resolve turns the source into a polygon. A nil polygon with nil error
// means no AOI was requested and the search runs spatially unrestricted.
func Resolve(s Source) (*geo.Polygon, error) {
	switch {
	case s.Region != "":
		poly, err := geo.Region(s.Region)
		if err != nil {
			return nil, fmt.Errorf("%w: %v (known regions: %s)",
				ErrNoAOIGeometry, err, strings.Join(geo.RegionNames(), ", "))
		}
		return &poly, nil

	case s.VectorPath != "":
		poly, err := fromVectorFile(s.VectorPath, s.FeatureIndex)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrNoAOIGeometry, s.VectorPath, err)
		}
		return &poly, nil

	case len(s.BBox) == 4:
		poly, err := geo.FromBBox(s.BBox[0], s.BBox[1], s.BBox[2], s.BBox[3])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoAOIGeometry, err)
		}
		return &poly, nil

	case len(s.BBox) != 0:
		return nil, fmt.Errorf("%w: bbox must have 4 values, got %d", ErrNoAOIGeometry, len(s.BBox))

	default:
		return nil, nil
	}
}

func fromVectorFile(path string, featureIndex int) (geo.Polygon, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return geo.Polygon{}, err
	}

	if strings.EqualFold(filepath.Ext(path), ".wkt") {
		return geo.ParseWKT(strings.TrimSpace(string(content)))
	}

	// GeoJSON: accept a FeatureCollection, a single Feature or a bare
	// geometry document.
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(content, &probe); err != nil {
		return geo.Polygon{}, fmt.Errorf("not a GeoJSON document: %w", err)
	}

	switch probe.Type {
	case "FeatureCollection":
		var fc geojson.FeatureCollection
		if err := json.Unmarshal(content, &fc); err != nil {
			return geo.Polygon{}, fmt.Errorf("invalid feature collection: %w", err)
		}
		if featureIndex < 0 || featureIndex >= len(fc.Features) {
			return geo.Polygon{}, fmt.Errorf("feature index %d out of range (%d features)", featureIndex, len(fc.Features))
		}
		return fromFeatureGeometry(fc.Features[featureIndex].Geometry)

	case "Feature":
		var f geojson.Feature
		if err := json.Unmarshal(content, &f); err != nil {
			return geo.Polygon{}, fmt.Errorf("invalid feature: %w", err)
		}
		return fromFeatureGeometry(f.Geometry)

	default:
		return geo.ParseGeoJSON(content)
	}
}

func fromFeatureGeometry(g *geojson.Geometry) (geo.Polygon, error) {
	if g == nil {
		return geo.Polygon{}, fmt.Errorf("feature has no geometry")
	}
	raw, err := json.Marshal(g)
	if err != nil {
		return geo.Polygon{}, err
	}
	return geo.ParseGeoJSON(raw)
}
