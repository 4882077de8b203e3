package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults %+v", cfg, Default())
	}
}

func TestLoad_ParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
server = "printbox.local:8080"
poll_seconds = 10
scan_timeout_seconds = 15
debounce_ms = 250
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server != "printbox.local:8080" {
		t.Fatalf("server = %q", cfg.Server)
	}
	if cfg.PollEvery != 10*time.Second {
		t.Fatalf("poll = %v", cfg.PollEvery)
	}
	if cfg.ScanTimeout != 15*time.Second {
		t.Fatalf("scan timeout = %v", cfg.ScanTimeout)
	}
	if cfg.Debounce != 250*time.Millisecond {
		t.Fatalf("debounce = %v", cfg.Debounce)
	}
}

func TestLoad_IgnoresNonPositiveValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
server = "  "
poll_seconds = 0
debounce_ms = -5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoad_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("server = ["), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load returned nil error for invalid toml")
	}
}
