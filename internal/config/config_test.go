package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Search.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Search.Workers)
	}
	if cfg.Search.RampDelay != 2*time.Second {
		t.Errorf("expected 2s ramp delay, got %s", cfg.Search.RampDelay)
	}
	if cfg.Search.DescriptorExt != ".xml" || cfg.Search.ArchiveExt != ".zip" {
		t.Errorf("unexpected extensions: %s / %s", cfg.Search.DescriptorExt, cfg.Search.ArchiveExt)
	}
	if cfg.Search.SkipTile != "UNGRIDDED" {
		t.Errorf("expected UNGRIDDED skip tile, got %s", cfg.Search.SkipTile)
	}
	if cfg.Search.Direction != "Descending" {
		t.Errorf("expected Descending default, got %s", cfg.Search.Direction)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("unexpected logging defaults: %s / %s", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("S1SCAN_SEARCH_WORKERS", "8")
	t.Setenv("S1SCAN_SEARCH_DIRECTION", "Ascending")
	t.Setenv("S1SCAN_SERVER_PORT", "9090")
	t.Setenv("S1SCAN_SERVER_ROOT", "/data/archive")
	t.Setenv("S1SCAN_LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Search.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Search.Workers)
	}
	if cfg.Search.Direction != "Ascending" {
		t.Errorf("expected Ascending, got %s", cfg.Search.Direction)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.Root != "/data/archive" {
		t.Errorf("expected /data/archive, got %s", cfg.Server.Root)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected json format, got %s", cfg.Logging.Format)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		envVar  string
		value   string
		errPart string
	}{
		{name: "zero workers", envVar: "S1SCAN_SEARCH_WORKERS", value: "0", errPart: "worker count"},
		{name: "negative ramp delay", envVar: "S1SCAN_SEARCH_RAMP_DELAY", value: "-1s", errPart: "ramp delay"},
		{name: "extension without dot", envVar: "S1SCAN_SEARCH_DESCRIPTOR_EXT", value: "xml", errPart: "descriptor extension"},
		{name: "bad direction", envVar: "S1SCAN_SEARCH_DIRECTION", value: "Sideways", errPart: "direction"},
		{name: "port out of range", envVar: "S1SCAN_SERVER_PORT", value: "70000", errPart: "port"},
		{name: "bad log level", envVar: "S1SCAN_LOG_LEVEL", value: "verbose", errPart: "log level"},
		{name: "bad log format", envVar: "S1SCAN_LOG_FORMAT", value: "xml", errPart: "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error %q does not mention %q", err, tt.errPart)
			}
		})
	}
}

func TestServerAddress(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if got := s.Address(); got != "127.0.0.1:8080" {
		t.Errorf("expected 127.0.0.1:8080, got %s", got)
	}
}
