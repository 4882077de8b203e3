package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/printdeck/printdeck/internal/config"
	"github.com/printdeck/printdeck/internal/prefs"
	"github.com/printdeck/printdeck/internal/printbox"
	"github.com/printdeck/printdeck/internal/state"
	"github.com/printdeck/printdeck/internal/ui"
)

// Options configure the printdeck application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/printdeck/prefs.toml
	Server     string // overrides the configured daemon address
	PollEvery  int    // seconds; zero uses the configured interval
}

// Run boots the printdeck TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Server != "" {
		cfg.Server = opts.Server
	}
	if opts.PollEvery > 0 {
		cfg.PollEvery = time.Duration(opts.PollEvery) * time.Second
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := printbox.NewClient(cfg.Server)
	if err != nil {
		return fmt.Errorf("init printbox client: %w", err)
	}

	// Stdlib log output would corrupt the alternate screen; keep it silent
	// unless a debug log file is requested.
	if os.Getenv("PRINTDECK_DEBUG") != "" {
		f, err := tea.LogToFile("printdeck.log", "debug")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer func() { _ = f.Close() }()
	} else {
		log.SetOutput(io.Discard)
	}

	store := &state.Store{}
	StartPoller(ctx, store, client, cfg.PollEvery)

	uiOpts := ui.Options{
		Context:   ctx,
		Client:    client,
		Store:     store,
		Config:    &cfg,
		Refresh:   func(ctx context.Context) { Refresh(ctx, store, client) },
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}
