package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"retail-price-alerts/internal/alerting"
	"retail-price-alerts/internal/config"
	"retail-price-alerts/internal/detector"
	"retail-price-alerts/internal/extractor"
	"retail-price-alerts/internal/fetcher"
	"retail-price-alerts/internal/scheduler"
	"retail-price-alerts/internal/storage"
)

// Service orchestrates fetching, extraction, change detection, and alerting.
type Service struct {
	scheduler *scheduler.Scheduler
	fetcher   fetcher.PageFetcher
	extractor *extractor.Extractor
	store     storage.HistoryStore
	notifier  alerting.Notifier
	logger    zerolog.Logger

	urls      []string
	interval  time.Duration
	pageDelay time.Duration
	now       func() time.Time
}

// New constructs the monitoring service.
func New(cfg *config.Config, sched *scheduler.Scheduler, pages fetcher.PageFetcher, ex *extractor.Extractor, store storage.HistoryStore, notifier alerting.Notifier, logger zerolog.Logger) *Service {
	return &Service{
		scheduler: sched,
		fetcher:   pages,
		extractor: ex,
		store:     store,
		notifier:  notifier,
		logger:    logger.With().Str("component", "service").Logger(),
		urls:      cfg.Monitor.CleanURLs(),
		interval:  cfg.Monitor.Interval,
		pageDelay: cfg.Monitor.PageDelay,
		now:       time.Now,
	}
}

// Run announces the monitor and begins the polling loop.
func (s *Service) Run(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}

	s.logger.Info().Int("urls", len(s.urls)).
		Dur("interval", s.interval).
		Msg("price monitoring starting")

	announcement := fmt.Sprintf("🚀 **価格監視開始**\n\n監視商品数: %d個\nチェック間隔: %s", len(s.urls), s.interval)
	if err := s.notifier.Announce(ctx, "🚀 価格監視開始", announcement); err != nil {
		s.logger.Warn().Err(err).Msg("startup announcement failed")
	}

	return s.scheduler.Run(ctx, s.ProcessCycle)
}

// ProcessCycle runs one full pass over the configured URLs. A failure on
// one URL never prevents the rest of the cycle.
func (s *Service) ProcessCycle(ctx context.Context, at time.Time) error {
	for i, url := range s.urls {
		if i > 0 && s.pageDelay > 0 {
			if err := sleep(ctx, s.pageDelay); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.checkURL(ctx, url); err != nil {
			s.logger.Warn().Err(err).Str("url", url).Msg("url skipped this cycle")
		}
	}
	return nil
}

func (s *Service) checkURL(ctx context.Context, url string) error {
	html, err := s.fetcher.FetchPage(ctx, url)
	if err != nil {
		return err
	}

	name := s.extractor.ExtractProductName(html)
	price, ok := s.extractor.ExtractPrice(html)
	if !ok {
		s.logger.Warn().Str("url", url).Str("product", name).Msg("no qualifying price found")
		return nil
	}

	obs := detector.Observation{
		URL:         url,
		Price:       price,
		ProductName: name,
		ObservedAt:  s.now(),
	}

	prev, found := s.store.Get(url)
	outcome := detector.Classify(obs, prev, found)

	switch outcome.Kind {
	case detector.FirstSeen:
		s.logger.Info().Str("url", url).Str("product", name).
			Int64("price", price).Msg("first observation recorded")
		return s.persist(ctx, obs)

	case detector.Unchanged:
		s.logger.Debug().Str("url", url).Str("product", name).
			Int64("price", price).Msg("price unchanged")
		return nil

	case detector.Changed:
		s.logger.Info().Str("url", url).Str("product", name).
			Int64("previous", outcome.Previous.Price).
			Int64("current", price).
			Int64("delta", outcome.Delta).
			Str("percent", detector.FormatSignedPercent(outcome.Percent)).
			Bool("is_drop", outcome.IsDrop).
			Msg("price change detected")

		// Delivery failure never blocks persistence; the change is
		// confirmed the moment it is observed.
		if err := s.notifier.Notify(ctx, outcome); err != nil {
			s.logger.Error().Err(err).Str("url", url).Msg("failed to deliver change alert")
		}

		return s.persist(ctx, obs)
	}

	return nil
}

func (s *Service) persist(ctx context.Context, obs detector.Observation) error {
	if err := s.store.Put(ctx, obs.Entry()); err != nil {
		return fmt.Errorf("persist observation: %w", err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
