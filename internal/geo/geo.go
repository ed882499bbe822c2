// Package geo adapts the external geometry engine (simplefeatures) to the
// small surface the search engine needs: polygon construction, WKT and
// GeoJSON parsing, intersection tests and area. No geometry algorithm is
// implemented here.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/s1tools/s1scan/pkg/geojson"
)

// ErrInvalidGeometry is returned when a geometry cannot be parsed or is not
// polygonal.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Polygon wraps a polygonal geometry from the geometry engine. The zero value
// is empty. Polygons are immutable after construction and safe for concurrent
// reads, so a single AOI polygon may be shared by all workers.
type Polygon struct {
	g geom.Geometry
}

// ParseWKT parses a WKT string into a Polygon. POLYGON and MULTIPOLYGON
// geometries are accepted.
func ParseWKT(s string) (Polygon, error) {
	g, err := geom.UnmarshalWKT(s)
	if err != nil {
		return Polygon{}, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	return fromGeometry(g)
}

// ParseGeoJSON parses a GeoJSON geometry document into a Polygon.
func ParseGeoJSON(b []byte) (Polygon, error) {
	g, err := geom.UnmarshalGeoJSON(b)
	if err != nil {
		return Polygon{}, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	return fromGeometry(g)
}

// FromRing builds a Polygon from a ring of (lon, lat) points. The ring is
// closed automatically if the last point does not repeat the first.
func FromRing(ring [][2]float64) (Polygon, error) {
	if len(ring) < 3 {
		return Polygon{}, fmt.Errorf("%w: ring needs at least 3 points, got %d", ErrInvalidGeometry, len(ring))
	}
	if ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}

	// Route construction through WKT so only the engine's parser is used.
	var sb strings.Builder
	sb.WriteString("POLYGON((")
	for i, pt := range ring {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(pt[0], 'f', -1, 64))
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatFloat(pt[1], 'f', -1, 64))
	}
	sb.WriteString("))")

	return ParseWKT(sb.String())
}

// FromBBox builds a rectangular Polygon from [west, south, east, north].
func FromBBox(west, south, east, north float64) (Polygon, error) {
	if east < west || north < south {
		return Polygon{}, fmt.Errorf("%w: bbox extents are inverted", ErrInvalidGeometry)
	}
	return FromRing([][2]float64{
		{west, south},
		{east, south},
		{east, north},
		{west, north},
	})
}

func fromGeometry(g geom.Geometry) (Polygon, error) {
	switch {
	case g.IsPolygon(), g.IsMultiPolygon():
		return Polygon{g: g}, nil
	default:
		return Polygon{}, fmt.Errorf("%w: expected polygonal geometry, got %s", ErrInvalidGeometry, g.Type())
	}
}

// IsZero reports whether the polygon is the empty zero value.
func (p Polygon) IsZero() bool {
	return p.g.IsEmpty()
}

// Intersects reports whether the two polygons share any point.
func (p Polygon) Intersects(q Polygon) bool {
	return geom.Intersects(p.g, q.g)
}

// Area returns the planar area of the polygon.
func (p Polygon) Area() float64 {
	return p.g.Area()
}

// WKT serializes the polygon as WKT.
func (p Polygon) WKT() string {
	return p.g.AsText()
}

// GeoJSON returns the polygon as a GeoJSON geometry.
func (p Polygon) GeoJSON() (*geojson.Geometry, error) {
	b, err := json.Marshal(p.g)
	if err != nil {
		return nil, fmt.Errorf("failed to encode geometry as GeoJSON: %w", err)
	}
	var g geojson.Geometry
	if err := json.Unmarshal(b, &g); err != nil {
		return nil, fmt.Errorf("failed to decode engine GeoJSON: %w", err)
	}
	return &g, nil
}
