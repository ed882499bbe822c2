package geo

import (
	"errors"
	"strings"
	"testing"
)

func TestParseWKT(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "polygon", input: "POLYGON((0 0,10 0,10 10,0 10,0 0))"},
		{name: "multipolygon", input: "MULTIPOLYGON(((0 0,1 0,1 1,0 1,0 0)),((5 5,6 5,6 6,5 6,5 5)))"},
		{name: "point rejected", input: "POINT(1 2)", wantErr: true},
		{name: "linestring rejected", input: "LINESTRING(0 0,1 1)", wantErr: true},
		{name: "garbage", input: "POLYGON((not numbers))", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseWKT(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidGeometry) {
					t.Fatalf("expected ErrInvalidGeometry, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.IsZero() {
				t.Error("expected non-empty polygon")
			}
		})
	}
}

func TestParseGeoJSON(t *testing.T) {
	poly, err := ParseGeoJSON([]byte(`{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,10],[0,0]]]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if poly.Area() != 100 {
		t.Errorf("expected area 100, got %v", poly.Area())
	}

	if _, err := ParseGeoJSON([]byte(`{"type":"Point","coordinates":[1,2]}`)); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry for point, got %v", err)
	}
	if _, err := ParseGeoJSON([]byte(`not json`)); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry for garbage, got %v", err)
	}
}

func TestFromRing(t *testing.T) {
	// Open ring closes automatically.
	open, err := FromRing([][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	closed, err := FromRing([][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if open.Area() != closed.Area() {
		t.Errorf("open and pre-closed rings disagree: %v vs %v", open.Area(), closed.Area())
	}

	if _, err := FromRing([][2]float64{{0, 0}, {1, 1}}); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry for 2-point ring, got %v", err)
	}
}

func TestFromBBox(t *testing.T) {
	p, err := FromBBox(10, -10, 15, -5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Area() != 25 {
		t.Errorf("expected area 25, got %v", p.Area())
	}

	if _, err := FromBBox(15, -10, 10, -5); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry for inverted extents, got %v", err)
	}
}

func TestIntersects(t *testing.T) {
	tile, err := FromBBox(10, -10, 15, -5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		bbox   [4]float64
		expect bool
	}{
		{name: "overlapping", bbox: [4]float64{9, -11, 16, -4}, expect: true},
		{name: "contained", bbox: [4]float64{11, -9, 12, -8}, expect: true},
		{name: "touching edge", bbox: [4]float64{15, -10, 20, -5}, expect: true},
		{name: "disjoint", bbox: [4]float64{50, -50, 55, -45}, expect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other, err := FromBBox(tt.bbox[0], tt.bbox[1], tt.bbox[2], tt.bbox[3])
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := tile.Intersects(other); got != tt.expect {
				t.Errorf("Intersects = %v, want %v", got, tt.expect)
			}
			if got := other.Intersects(tile); got != tt.expect {
				t.Errorf("Intersects is not symmetric: %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestPolygonGeoJSON(t *testing.T) {
	p, err := FromBBox(0, 0, 10, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g, err := p.GeoJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Type != "Polygon" {
		t.Errorf("expected Polygon geometry, got %s", g.Type)
	}
	ring, err := g.Polygon()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ring) != 1 || len(ring[0]) != 5 {
		t.Errorf("expected one closed 5-point ring, got %v", ring)
	}
}

func TestRegion(t *testing.T) {
	for _, name := range RegionNames() {
		p, err := Region(name)
		if err != nil {
			t.Errorf("region %s: %v", name, err)
			continue
		}
		if p.Area() <= 0 {
			t.Errorf("region %s has no area", name)
		}
	}

	if _, err := Region("atlantis"); err == nil {
		t.Error("expected error for unknown region")
	} else if !strings.Contains(err.Error(), "atlantis") {
		t.Errorf("error should name the region: %v", err)
	}
}
