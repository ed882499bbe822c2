package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/s1tools/s1scan/internal/aoi"
	"github.com/s1tools/s1scan/internal/config"
	"github.com/s1tools/s1scan/internal/engine"
	"github.com/s1tools/s1scan/internal/filter"
	"github.com/s1tools/s1scan/internal/metrics"
	"github.com/s1tools/s1scan/internal/output"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewHandlers creates the handler set for the given configuration.
func NewHandlers(cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{cfg: cfg, logger: logger}
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"root":   h.cfg.Server.Root,
	})
}

// searchRequest is the body accepted by POST /search; GET uses the same
// fields as query parameters.
type searchRequest struct {
	Start     string    `json:"start"`
	End       string    `json:"end"`
	Direction string    `json:"direction,omitempty"`
	BBox      []float64 `json:"bbox,omitempty"`
	Region    string    `json:"region,omitempty"`
}

// Search handles GET and POST /search: it runs one engine search over the
// configured archive root and responds with a STAC ItemCollection.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearchRequest(r)
	if err != nil {
		WriteInvalidParameter(w, err.Error())
		return
	}

	start, err := time.Parse("2006-01-02", req.Start)
	if err != nil {
		WriteInvalidParameter(w, "start must be a YYYY-MM-DD date")
		return
	}
	end, err := time.Parse("2006-01-02", req.End)
	if err != nil {
		WriteInvalidParameter(w, "end must be a YYYY-MM-DD date")
		return
	}
	window, err := filter.NewTimeRange(start, end)
	if err != nil {
		WriteInvalidParameter(w, err.Error())
		return
	}

	area, err := aoi.Resolve(aoi.Source{Region: req.Region, BBox: req.BBox})
	if err != nil {
		WriteInvalidParameter(w, err.Error())
		return
	}

	records, err := engine.Search(r.Context(), engine.Options{
		Root:          h.cfg.Server.Root,
		Window:        window,
		Direction:     req.Direction,
		AOI:           area,
		Workers:       h.cfg.Search.Workers,
		RampDelay:     h.cfg.Search.RampDelay,
		SkipTile:      h.cfg.Search.SkipTile,
		DescriptorExt: h.cfg.Search.DescriptorExt,
		ArchiveExt:    h.cfg.Search.ArchiveExt,
		Logger:        h.logger,
		Stats:         metrics.NewRecorder(),
	})
	if err != nil {
		if errors.Is(err, engine.ErrRootNotFound) {
			WriteNotFound(w, err.Error())
			return
		}
		// A client that went away mid-search gets whatever the
		// transport still delivers; other errors are server-side.
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			h.logger.Error("search failed", slog.String("error", err.Error()))
			WriteInternalError(w, "search failed")
			return
		}
	}

	items, err := output.Items(records)
	if err != nil {
		h.logger.Error("failed to convert results", slog.String("error", err.Error()))
		WriteInternalError(w, "failed to convert results")
		return
	}

	WriteGeoJSON(w, http.StatusOK, output.ItemCollection{
		Type:           "FeatureCollection",
		Features:       items,
		NumberReturned: len(items),
	})
}

func parseSearchRequest(r *http.Request) (*searchRequest, error) {
	req := &searchRequest{}

	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return nil, errors.New("invalid JSON body")
		}
	} else {
		q := r.URL.Query()
		req.Start = q.Get("start")
		req.End = q.Get("end")
		req.Direction = q.Get("direction")
		req.Region = q.Get("region")
		if bbox := q.Get("bbox"); bbox != "" {
			vals, err := aoi.ParseBBox(bbox)
			if err != nil {
				return nil, err
			}
			req.BBox = vals
		}
	}

	if req.Start == "" || req.End == "" {
		return nil, errors.New("start and end are required")
	}
	return req, nil
}
