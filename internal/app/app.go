package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"retail-price-alerts/internal/alerting"
	"retail-price-alerts/internal/config"
	"retail-price-alerts/internal/extractor"
	"retail-price-alerts/internal/fetcher"
	"retail-price-alerts/internal/scheduler"
	"retail-price-alerts/internal/service"
	"retail-price-alerts/internal/storage"
)

// fatalCooldown gives an external supervisor breathing room before a
// restart when the loop dies unexpectedly.
const fatalCooldown = 60 * time.Second

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newFetcher() fetcher.PageFetcher {
	return fetcher.New(fetcher.Options{
		Timeout:   a.Config.Monitor.RequestTimeout,
		UserAgent: a.Config.Monitor.UserAgent,
	}, a.Logger)
}

func (a *App) newExtractor() *extractor.Extractor {
	return extractor.New(a.Config.Extract.SiteName)
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Webhook.URL == "" {
		a.Logger.Warn().Msg("webhook.url not configured; alerts will only be logged")
		return alerting.NewNopNotifier(a.Logger)
	}
	return alerting.NewWebhookNotifier(a.Config.Webhook.URL, a.Config.Webhook.Timeout, a.Logger)
}

// openHistory selects the history backend and loads it. The returned
// closer is non-nil whenever a store was opened.
func (a *App) openHistory(ctx context.Context) (storage.HistoryStore, func(), error) {
	var store storage.HistoryStore
	if a.Config.History.DSN != "" {
		pool, err := storage.NewPool(ctx, a.Config.History)
		if err != nil {
			return nil, nil, err
		}
		store = storage.NewPostgresStore(pool)
	} else {
		store = storage.NewFileStore(a.Config.History.Path, a.Logger)
	}

	if err := store.Load(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}

	return store, store.Close, nil
}

func (a *App) newService(sched *scheduler.Scheduler, store storage.HistoryStore) *service.Service {
	return service.New(a.Config, sched, a.newFetcher(), a.newExtractor(), store, a.newNotifier(), a.Logger)
}

// Run executes the long-running monitoring service until interrupted.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := a.openHistory(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	sched := scheduler.New(scheduler.Options{
		Interval: a.Config.Monitor.Interval,
	}, a.Logger)

	svc := a.newService(sched, store)

	a.Logger.Info().Msg("starting monitoring service")
	err = recoverToError(func() error { return svc.Run(ctx) })
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("service terminated with error; cooling down before exit")
		coolDown(ctx)
		return err
	}

	a.Logger.Info().Msg("monitoring service stopped")
	return nil
}

// CheckOnce runs exactly one change cycle synchronously and exits.
func (a *App) CheckOnce(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := a.openHistory(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := a.newService(nil, store)
	return svc.ProcessCycle(ctx, time.Now())
}

// recoverToError converts a panic inside the monitoring loop into an
// ordinary error so it follows the same log + cool-down path instead of
// unwinding past it.
func recoverToError(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("monitoring loop panicked: %v", r)
		}
	}()
	return fn()
}

func coolDown(ctx context.Context) {
	timer := time.NewTimer(fatalCooldown)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}

// SimulateOptions configure the simulate-alert command.
type SimulateOptions struct {
	ProductName string
	URL         string
	OldPrice    int64
	NewPrice    int64
}
