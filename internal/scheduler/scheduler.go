// Package scheduler wires up the cron jobs that periodically scrape the
// active search configs and sweep follow-up reminders.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"jobmate/match-service/internal/discovery"
	"jobmate/match-service/internal/logger"
)

// Scraper runs one scrape cycle over every active search config.
type Scraper interface {
	RunAll(ctx context.Context) (discovery.Stats, error)
}

// Sweeper schedules follow-up reminders.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Scheduler wraps robfig/cron and owns both loops.
type Scheduler struct {
	cron       *cron.Cron
	scraper    Scraper
	sweeper    Sweeper
	scrapeSpec string // e.g. "@every 6h"
	sweepSpec  string
	log        *zap.Logger
}

// New creates a Scheduler that scrapes every intervalHours hours and sweeps
// reminders on sweepSpec. Either job may be nil to disable it.
func New(scraper Scraper, sweeper Sweeper, intervalHours int, sweepSpec string, log *zap.Logger) *Scheduler {
	log = logger.WithFields(log).Named("scheduler")
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger{log.Sugar()}),
			cron.WithChain(cron.Recover(cronLogger{log.Sugar()}), cron.SkipIfStillRunning(cronLogger{log.Sugar()})),
		),
		scraper:    scraper,
		sweeper:    sweeper,
		scrapeSpec: fmt.Sprintf("@every %dh", intervalHours),
		sweepSpec:  sweepSpec,
		log:        log,
	}
}

// Start registers the jobs and starts the scheduler. One scrape runs
// immediately so the feed is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.scraper != nil {
		if _, err := s.cron.AddFunc(s.scrapeSpec, func() { s.runScrape(ctx) }); err != nil {
			return fmt.Errorf("schedule scrape %q: %w", s.scrapeSpec, err)
		}
	}
	if s.sweeper != nil {
		if _, err := s.cron.AddFunc(s.sweepSpec, func() { s.runSweep(ctx) }); err != nil {
			return fmt.Errorf("schedule reminders %q: %w", s.sweepSpec, err)
		}
	}

	s.cron.Start()
	s.log.Info("cron started", zap.String("scrape", s.scrapeSpec), zap.String("reminders", s.sweepSpec))

	if s.scraper != nil {
		go s.runScrape(ctx)
	}
	return nil
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("cron stopped")
}

func (s *Scheduler) runScrape(ctx context.Context) {
	stats, err := s.scraper.RunAll(ctx)
	if err != nil {
		s.log.Error("scrape cycle failed", zap.Error(err))
		return
	}
	s.log.Info("scrape cycle complete",
		zap.Int("inserted", stats.Inserted),
		zap.Int("filtered", stats.Filtered),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("scored", stats.Scored),
	)
}

func (s *Scheduler) runSweep(ctx context.Context) {
	if _, err := s.sweeper.Sweep(ctx); err != nil {
		s.log.Error("reminder sweep failed", zap.Error(err))
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct{ s *zap.SugaredLogger }

func (l cronLogger) Info(msg string, keysAndValues ...any) { l.s.Debugw(msg, keysAndValues...) }

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
