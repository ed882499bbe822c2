package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/s1tools/s1scan/internal/config"
)

const testDescriptor = `<?xml version="1.0"?>
<product>
  <adsHeader><pass>DESCENDING</pass></adsHeader>
  <footprint>POLYGON((10 -10,15 -10,15 -5,10 -5,10 -10))</footprint>
</product>`

// newTestServer builds a router over a one-observation archive tree.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, "2021", "01-06", "10S010E-05S015E")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "20210315T061204.xml"), []byte(testDescriptor), 0o644); err != nil {
		t.Fatalf("failed to write descriptor: %v", err)
	}

	cfg := &config.Config{
		Search: config.SearchConfig{
			Workers:       2,
			RampDelay:     0,
			DescriptorExt: ".xml",
			ArchiveExt:    ".zip",
			SkipTile:      "UNGRIDDED",
			Direction:     "Descending",
		},
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: time.Second,
			Root:            root,
		},
		Logging: config.LoggingConfig{Level: "info", Format: "text"},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(NewRouter(NewHandlers(cfg, logger), logger))
	t.Cleanup(srv.Close)
	return srv
}

func decodeItemCollection(t *testing.T, resp *http.Response) (string, []map[string]any) {
	t.Helper()
	defer resp.Body.Close()

	var ic struct {
		Type     string           `json:"type"`
		Features []map[string]any `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ic); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return ic.Type, ic.Features
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body)
	}
}

func TestSearchGet(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/search?start=2021-01-01&end=2021-06-30")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "geo+json") {
		t.Errorf("expected geo+json content type, got %s", ct)
	}

	typ, features := decodeItemCollection(t, resp)
	if typ != "FeatureCollection" {
		t.Errorf("expected FeatureCollection, got %s", typ)
	}
	if len(features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(features))
	}
	if id := features[0]["id"]; id != "20210315T061204" {
		t.Errorf("unexpected item id: %v", id)
	}
}

func TestSearchGetWithBBox(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		bbox string
		want int
	}{
		{name: "covering bbox", bbox: "9,-11,16,-4", want: 1},
		{name: "disjoint bbox", bbox: "50,-50,55,-45", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := fmt.Sprintf("%s/search?start=2021-01-01&end=2021-06-30&bbox=%s", srv.URL, tt.bbox)
			resp, err := http.Get(url)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}
			_, features := decodeItemCollection(t, resp)
			if len(features) != tt.want {
				t.Errorf("expected %d features, got %d", tt.want, len(features))
			}
		})
	}
}

func TestSearchPost(t *testing.T) {
	srv := newTestServer(t)

	body := `{"start":"2021-01-01","end":"2021-06-30","direction":"Descending"}`
	resp, err := http.Post(srv.URL+"/search", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	_, features := decodeItemCollection(t, resp)
	if len(features) != 1 {
		t.Errorf("expected 1 feature, got %d", len(features))
	}
}

func TestSearchBadRequests(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		url  string
	}{
		{name: "missing dates", url: "/search"},
		{name: "bad start", url: "/search?start=March&end=2021-06-30"},
		{name: "end before start", url: "/search?start=2021-06-30&end=2021-01-01"},
		{name: "bad bbox", url: "/search?start=2021-01-01&end=2021-06-30&bbox=1,2,3"},
		{name: "unknown region", url: "/search?start=2021-01-01&end=2021-06-30&region=atlantis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.url)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestSearchPostInvalidBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/search", "application/json", strings.NewReader("not json"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestNotFoundRoute(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/nope")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header on the response")
	}
}
