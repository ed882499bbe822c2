// Package layout parses the archive's directory naming convention. The tree
// under the search root is laid out as
//
//	<root>/<year>/<month-range>/<tile>/<files>
//
// where a month-range is "01-03" and a tile joins two corner labels such as
// "70S040E-65S045E". Classification is positional: a segment's meaning comes
// from its depth relative to the configured root, never from its spelling.
package layout

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind classifies a path by its depth below the search root.
type Kind int

const (
	// KindRoot is the search root itself.
	KindRoot Kind = iota
	// KindYear is a first-level directory named after a calendar year.
	KindYear
	// KindMonthRange is a second-level directory naming a month interval.
	KindMonthRange
	// KindTile is a third-level directory naming a spatial tile.
	KindTile
	// KindLeaf is an entry at observation-file depth.
	KindLeaf
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindYear:
		return "year"
	case KindMonthRange:
		return "month-range"
	case KindTile:
		return "tile"
	case KindLeaf:
		return "leaf"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	// ErrInvalidTileLabel is returned for a malformed spatial tile name.
	// Callers recover locally: the subtree is pruned, never the search.
	ErrInvalidTileLabel = errors.New("invalid tile label")

	// ErrOutsideRoot is returned when a path does not live under the
	// codec's root.
	ErrOutsideRoot = errors.New("path outside search root")

	// ErrNoDateToken is returned when a leaf filename carries no
	// recognizable acquisition date.
	ErrNoDateToken = errors.New("no date token in filename")
)

const tileSeparator = "-"

var (
	cornerRe    = regexp.MustCompile(`^(\d+)([NS])(\d+)([EW])$`)
	dateTokenRe = regexp.MustCompile(`\d{8}T\d{6}`)
)

// Codec classifies paths relative to a fixed search root.
type Codec struct {
	root string
}

// NewCodec creates a codec anchored at root. The root path is cleaned so the
// same tree can be addressed through different spellings of the root.
func NewCodec(root string) Codec {
	return Codec{root: filepath.Clean(root)}
}

// Root returns the configured search root.
func (c Codec) Root() string {
	return c.root
}

// Kind classifies path by its depth below the root. Depths past the leaf
// level report KindLeaf; the traversal never descends that far.
func (c Codec) Kind(path string) (Kind, error) {
	rel, err := filepath.Rel(c.root, filepath.Clean(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return KindRoot, fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	if rel == "." {
		return KindRoot, nil
	}
	depth := strings.Count(rel, string(filepath.Separator)) + 1
	switch depth {
	case 1:
		return KindYear, nil
	case 2:
		return KindMonthRange, nil
	case 3:
		return KindTile, nil
	default:
		return KindLeaf, nil
	}
}

// Year returns the year component of a path below the root.
func (c Codec) Year(path string) (int, error) {
	rel, err := filepath.Rel(c.root, filepath.Clean(path))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return 0, fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	first := rel
	if i := strings.IndexRune(rel, filepath.Separator); i >= 0 {
		first = rel[:i]
	}
	return ParseYear(first)
}

// ParseYear parses a year directory name.
func ParseYear(name string) (int, error) {
	year, err := strconv.Atoi(name)
	if err != nil || year < 1000 || year > 9999 {
		return 0, fmt.Errorf("not a year directory: %q", name)
	}
	return year, nil
}

// ParseMonthRange parses a month-range directory name such as "01-03" into
// its start and end months.
func ParseMonthRange(name string) (start, end time.Month, err error) {
	lo, hi, found := strings.Cut(name, "-")
	if !found {
		return 0, 0, fmt.Errorf("not a month range: %q", name)
	}
	s, err := strconv.Atoi(lo)
	if err != nil {
		return 0, 0, fmt.Errorf("not a month range: %q", name)
	}
	e, err := strconv.Atoi(hi)
	if err != nil {
		return 0, 0, fmt.Errorf("not a month range: %q", name)
	}
	if s < 1 || s > 12 || e < 1 || e > 12 || s > e {
		return 0, 0, fmt.Errorf("month range out of bounds: %q", name)
	}
	return time.Month(s), time.Month(e), nil
}

// Tile is the rectangular geographic extent encoded by a tile directory name.
type Tile struct {
	Label  string
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// Ring returns the tile's corners as a closed (lon, lat) ring for
// intersection testing.
func (t Tile) Ring() [][2]float64 {
	return [][2]float64{
		{t.MinLon, t.MinLat},
		{t.MaxLon, t.MinLat},
		{t.MaxLon, t.MaxLat},
		{t.MinLon, t.MaxLat},
		{t.MinLon, t.MinLat},
	}
}

// ParseCorner parses a corner label such as "70S040E" into (lon, lat),
// flipping the sign for the S and W hemispheres.
func ParseCorner(label string) (lon, lat float64, err error) {
	m := cornerRe.FindStringSubmatch(label)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTileLabel, label)
	}
	lat, err = strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTileLabel, label)
	}
	if m[2] == "S" {
		lat = -lat
	}
	lon, err = strconv.ParseFloat(m[3], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTileLabel, label)
	}
	if m[4] == "W" {
		lon = -lon
	}
	return lon, lat, nil
}

// ParseTile parses a tile directory name of two corner labels joined by a
// separator, e.g. "10S010E-05S015E". Corner order in the name is not assumed;
// the extents are normalized.
func ParseTile(name string) (Tile, error) {
	a, b, found := strings.Cut(name, tileSeparator)
	if !found {
		return Tile{}, fmt.Errorf("%w: %q", ErrInvalidTileLabel, name)
	}
	lonA, latA, err := ParseCorner(a)
	if err != nil {
		return Tile{}, err
	}
	lonB, latB, err := ParseCorner(b)
	if err != nil {
		return Tile{}, err
	}
	t := Tile{
		Label:  name,
		MinLon: lonA,
		MaxLon: lonB,
		MinLat: latA,
		MaxLat: latB,
	}
	if t.MinLon > t.MaxLon {
		t.MinLon, t.MaxLon = t.MaxLon, t.MinLon
	}
	if t.MinLat > t.MaxLat {
		t.MinLat, t.MaxLat = t.MaxLat, t.MinLat
	}
	return t, nil
}

// DateToken extracts the acquisition timestamp embedded in a leaf filename,
// e.g. "20210315T061204.xml" or "S1A_IW_20210315T061204_VV.xml".
func DateToken(filename string) (time.Time, error) {
	token := dateTokenRe.FindString(filename)
	if token == "" {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNoDateToken, filename)
	}
	t, err := time.Parse("20060102T150405", token)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNoDateToken, filename)
	}
	return t.UTC(), nil
}

// ArchiveIdentifier maps a descriptor filename to the identifier of the data
// archive it describes by swapping the extension. The transform is pure and
// must run exactly once per accepted observation, after all filtering.
func ArchiveIdentifier(descriptorName, descriptorExt, archiveExt string) string {
	return strings.TrimSuffix(descriptorName, descriptorExt) + archiveExt
}
