package app

import (
	"context"
	"errors"
	"time"

	"retail-price-alerts/internal/detector"
	"retail-price-alerts/internal/storage"
)

// SimulateAlert pushes a fabricated price change through the notifier to
// verify webhook wiring without touching the history store.
func (a *App) SimulateAlert(ctx context.Context, opts SimulateOptions) error {
	if opts.OldPrice == opts.NewPrice {
		return errors.New("old and new price must differ to simulate a change")
	}

	now := time.Now()
	prev := storage.HistoryEntry{
		URL:         opts.URL,
		Price:       opts.OldPrice,
		ProductName: opts.ProductName,
		ObservedAt:  now.Add(-time.Hour),
	}
	obs := detector.Observation{
		URL:         opts.URL,
		Price:       opts.NewPrice,
		ProductName: opts.ProductName,
		ObservedAt:  now,
	}

	outcome := detector.Classify(obs, prev, true)
	return a.newNotifier().Notify(ctx, outcome)
}
