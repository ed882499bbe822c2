package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/planetlabs/go-stac"

	"github.com/s1tools/s1scan/internal/extract"
	"github.com/s1tools/s1scan/internal/geo"
	"github.com/s1tools/s1scan/internal/layout"
	"github.com/s1tools/s1scan/pkg/geojson"
)

// STACVersion is the STAC spec version stamped on emitted items.
const STACVersion = "1.0.0"

// ItemCollection is a GeoJSON FeatureCollection of STAC items.
type ItemCollection struct {
	Type           string       `json:"type"`
	Features       []*stac.Item `json:"features"`
	NumberReturned int          `json:"numberReturned"`
}

// Items converts observations to STAC Items. The item id is the archive
// identifier without its extension; the acquisition timestamp comes from the
// identifier's embedded date token.
func Items(observations []extract.Observation) ([]*stac.Item, error) {
	items := make([]*stac.Item, 0, len(observations))
	for _, o := range observations {
		item, err := toItem(o)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func toItem(o extract.Observation) (*stac.Item, error) {
	poly, err := geo.ParseWKT(o.FootprintWKT)
	if err != nil {
		return nil, fmt.Errorf("footprint of %s: %w", o.Identifier, err)
	}
	g, err := poly.GeoJSON()
	if err != nil {
		return nil, fmt.Errorf("footprint of %s: %w", o.Identifier, err)
	}

	ext := strings.LastIndex(o.Identifier, ".")
	id := o.Identifier
	if ext > 0 {
		id = o.Identifier[:ext]
	}

	item := &stac.Item{
		Version:    STACVersion,
		Id:         id,
		Geometry:   g,
		Properties: make(map[string]any),
		Assets:     make(map[string]*stac.Asset),
		Links:      make([]*stac.Link, 0),
	}

	if bbox, err := geojson.ComputeBBox(g); err == nil {
		item.Bbox = bbox
	}

	if acquired, err := layout.DateToken(o.Identifier); err == nil {
		item.Properties["datetime"] = acquired.Format("2006-01-02T15:04:05Z")
	} else {
		item.Properties["datetime"] = nil
	}

	// Satellite extension orbit state is lowercase by convention.
	item.Properties["sat:orbit_state"] = strings.ToLower(o.Direction)
	item.Properties["s1scan:filename"] = o.Identifier

	return item, nil
}

// WriteItemCollection encodes the observations as a STAC ItemCollection.
func WriteItemCollection(w io.Writer, observations []extract.Observation) error {
	items, err := Items(observations)
	if err != nil {
		return err
	}
	ic := ItemCollection{
		Type:           "FeatureCollection",
		Features:       items,
		NumberReturned: len(items),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ic); err != nil {
		return fmt.Errorf("failed to encode item collection: %w", err)
	}
	return nil
}
