package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/s1tools/s1scan/internal/aoi"
	"github.com/s1tools/s1scan/internal/engine"
	"github.com/s1tools/s1scan/internal/extract"
	"github.com/s1tools/s1scan/internal/filter"
	"github.com/s1tools/s1scan/internal/output"
)

var (
	searchRoot      string
	searchStart     string
	searchEnd       string
	searchDirection string
	searchRegion    string
	searchVector    string
	searchFeature   int
	searchBBox      string
	searchWorkers   int
	searchRampDelay time.Duration
	searchOutput    string
	searchFormat    string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the archive and print matched archive identifiers",
	Long: `Search walks the archive tree under --root, keeps observations whose
acquisition date falls inside [--start, --end] and whose pass direction
matches, and optionally restricts results to an area of interest given as a
named region, a vector file or a bounding box.

Matched archive identifiers are printed to stdout, one per line.
Diagnostics go to stderr. An interrupt stops the search gracefully and
prints whatever was collected so far.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchRoot, "root", "", "archive root directory (required)")
	searchCmd.Flags().StringVar(&searchStart, "start", "", "window start date, YYYY-MM-DD (required)")
	searchCmd.Flags().StringVar(&searchEnd, "end", "", "window end date, YYYY-MM-DD (required)")
	searchCmd.Flags().StringVar(&searchDirection, "direction", "", "pass direction (Ascending or Descending)")
	searchCmd.Flags().StringVar(&searchRegion, "region", "", "AOI: built-in named region")
	searchCmd.Flags().StringVar(&searchVector, "vector", "", "AOI: GeoJSON or WKT vector file")
	searchCmd.Flags().IntVar(&searchFeature, "feature", 0, "AOI: feature index inside the vector file")
	searchCmd.Flags().StringVar(&searchBBox, "bbox", "", "AOI: west,south,east,north")
	searchCmd.Flags().IntVar(&searchWorkers, "workers", 0, "worker pool size (default from S1SCAN_SEARCH_WORKERS)")
	searchCmd.Flags().DurationVar(&searchRampDelay, "ramp-delay", -1, "worker ramp-up delay (0 launches the full pool immediately)")
	searchCmd.Flags().StringVar(&searchOutput, "output", "", "write results to this file as well")
	searchCmd.Flags().StringVar(&searchFormat, "format", "geojsonseq", "output file format (geojsonseq or stac)")

	searchCmd.MarkFlagRequired("root")
	searchCmd.MarkFlagRequired("start")
	searchCmd.MarkFlagRequired("end")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Logging.Level, cfg.Logging.Format)

	start, err := time.Parse("2006-01-02", searchStart)
	if err != nil {
		return fmt.Errorf("invalid --start date %q (want YYYY-MM-DD)", searchStart)
	}
	end, err := time.Parse("2006-01-02", searchEnd)
	if err != nil {
		return fmt.Errorf("invalid --end date %q (want YYYY-MM-DD)", searchEnd)
	}
	window, err := filter.NewTimeRange(start, end)
	if err != nil {
		return err
	}

	if searchFormat != "geojsonseq" && searchFormat != "stac" {
		return fmt.Errorf("invalid --format %q (want geojsonseq or stac)", searchFormat)
	}

	source := aoi.Source{
		Region:       searchRegion,
		VectorPath:   searchVector,
		FeatureIndex: searchFeature,
	}
	if searchBBox != "" {
		vals, err := aoi.ParseBBox(searchBBox)
		if err != nil {
			return err
		}
		source.BBox = vals
	}
	// Unresolvable AOI is fatal before any traversal: silently searching
	// the whole archive unfiltered would be worse than failing.
	area, err := aoi.Resolve(source)
	if err != nil {
		return err
	}

	direction := searchDirection
	if direction == "" {
		direction = cfg.Search.Direction
	}
	workers := searchWorkers
	if workers <= 0 {
		workers = cfg.Search.Workers
	}
	rampDelay := searchRampDelay
	if rampDelay < 0 {
		rampDelay = cfg.Search.RampDelay
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, err := engine.Search(ctx, engine.Options{
		Root:          searchRoot,
		Window:        window,
		Direction:     direction,
		AOI:           area,
		Workers:       workers,
		RampDelay:     rampDelay,
		SkipTile:      cfg.Search.SkipTile,
		DescriptorExt: cfg.Search.DescriptorExt,
		ArchiveExt:    cfg.Search.ArchiveExt,
		Logger:        logger,
	})
	interrupted := err != nil && errors.Is(err, context.Canceled)
	if err != nil && !interrupted {
		return err
	}

	for _, rec := range records {
		fmt.Fprintln(cmd.OutOrStdout(), rec.Identifier)
	}
	logger.Info("results", slog.Int("count", len(records)), slog.Bool("interrupted", interrupted))

	if searchOutput != "" && len(records) > 0 {
		if err := writeOutputFile(searchOutput, searchFormat, records); err != nil {
			return err
		}
		logger.Info("wrote output file", slog.String("path", searchOutput), slog.String("format", searchFormat))
	}

	if len(records) == 0 {
		if interrupted {
			return &ExitCodeError{Code: 2, Msg: "interrupted before any result"}
		}
		return &ExitCodeError{Code: 2, Msg: "no matches found"}
	}
	return nil
}

func writeOutputFile(path, format string, records []extract.Observation) error {
	if format == "stac" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		if err := output.WriteItemCollection(f, records); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return output.WriteGeoJSONSeqFile(path, records)
}
