package app

import (
	"context"
	"log"
	"time"

	"github.com/printdeck/printdeck/internal/printbox"
	"github.com/printdeck/printdeck/internal/state"
)

const defaultPollInterval = 5 * time.Second

// StartPoller launches a background goroutine that refreshes printer status
// at a fixed cadence. The first check runs immediately; each subsequent tick
// waits for the previous check to finish, so checks never pile up. It
// returns immediately.
func StartPoller(ctx context.Context, store *state.Store, src printbox.StatusSource, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			Refresh(ctx, store, src)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Refresh runs one status check and records the outcome in the store. It is
// the single path all status refreshes go through, so manual actions and
// the background poller never diverge on how "connected" is computed.
func Refresh(ctx context.Context, store *state.Store, src printbox.StatusSource) {
	status, err := src.PrinterStatus(ctx)
	if err != nil {
		store.Update(nil, err)
		log.Printf("status poll failed: %v", err)
		return
	}
	store.Update(status, nil)
}
