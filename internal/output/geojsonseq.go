// Package output serializes search results: a newline-delimited GeoJSON
// sequence for vector dumps and STAC Items for catalog-shaped consumers.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/s1tools/s1scan/internal/extract"
	"github.com/s1tools/s1scan/internal/geo"
	"github.com/s1tools/s1scan/pkg/geojson"
)

// feature converts one observation into a GeoJSON feature carrying the
// Filename and Direction string fields required by downstream tooling.
func feature(o extract.Observation) (*geojson.Feature, error) {
	poly, err := geo.ParseWKT(o.FootprintWKT)
	if err != nil {
		return nil, fmt.Errorf("footprint of %s: %w", o.Identifier, err)
	}
	g, err := poly.GeoJSON()
	if err != nil {
		return nil, fmt.Errorf("footprint of %s: %w", o.Identifier, err)
	}
	return geojson.NewFeature(g, map[string]any{
		"Filename":  o.Identifier,
		"Direction": o.Direction,
	}), nil
}

// WriteGeoJSONSeq writes one feature per observation, newline-delimited.
func WriteGeoJSONSeq(w io.Writer, observations []extract.Observation) error {
	enc := json.NewEncoder(w)
	for _, o := range observations {
		f, err := feature(o)
		if err != nil {
			return err
		}
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("failed to encode feature: %w", err)
		}
	}
	return nil
}

// WriteGeoJSONSeqFile writes the sequence to path, creating or truncating it.
func WriteGeoJSONSeqFile(path string, observations []extract.Observation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteGeoJSONSeq(f, observations); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
