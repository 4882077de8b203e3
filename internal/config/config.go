package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the console's own settings. Everything has a default so a
// missing file just talks to a local daemon.
type Config struct {
	Server      string
	PollEvery   time.Duration
	ScanTimeout time.Duration
	Debounce    time.Duration
}

const (
	defaultConfigPath  = "~/.config/printdeck/config.toml"
	defaultServer      = "127.0.0.1:5000"
	defaultPollSeconds = 5
	defaultScanSeconds = 20
	defaultDebounceMS  = 600
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:      defaultServer,
		PollEvery:   defaultPollSeconds * time.Second,
		ScanTimeout: defaultScanSeconds * time.Second,
		Debounce:    defaultDebounceMS * time.Millisecond,
	}
}

// Load locates and parses the console config, falling back to defaults when
// the file is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Server             string `toml:"server"`
		PollSeconds        int    `toml:"poll_seconds"`
		ScanTimeoutSeconds int    `toml:"scan_timeout_seconds"`
		DebounceMS         int    `toml:"debounce_ms"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if server := strings.TrimSpace(raw.Server); server != "" {
		cfg.Server = server
	}
	if raw.PollSeconds > 0 {
		cfg.PollEvery = time.Duration(raw.PollSeconds) * time.Second
	}
	if raw.ScanTimeoutSeconds > 0 {
		cfg.ScanTimeout = time.Duration(raw.ScanTimeoutSeconds) * time.Second
	}
	if raw.DebounceMS > 0 {
		cfg.Debounce = time.Duration(raw.DebounceMS) * time.Millisecond
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
