package geo

import (
	"fmt"
	"sort"
)

// Named regions usable as an AOI without supplying a vector file.
// Extents are [west, south, east, north] in degrees.
var regions = map[string][4]float64{
	"antarctic-peninsula": {-80, -75, -50, -60},
	"amundsen-sea":        {-135, -76, -95, -70},
	"dronning-maud-land":  {-20, -75, 45, -69},
	"wilkes-land":         {100, -71, 136, -65},
}

// Region returns the polygon for a built-in named region.
func Region(name string) (Polygon, error) {
	ext, ok := regions[name]
	if !ok {
		return Polygon{}, fmt.Errorf("unknown region %q", name)
	}
	return FromBBox(ext[0], ext[1], ext[2], ext[3])
}

// RegionNames returns the sorted list of built-in region names.
func RegionNames() []string {
	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
