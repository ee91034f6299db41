package discovery

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jobmate/match-service/internal/logger"
	"jobmate/match-service/internal/model"
	"jobmate/match-service/internal/store"
)

// Fetcher returns postings for one (title, location) pair.
type Fetcher interface {
	Fetch(ctx context.Context, jobTitle, location string) ([]model.Posting, error)
}

// FeedStore persists postings and lists the configs to scrape.
type FeedStore interface {
	InsertPosting(ctx context.Context, searchConfigID string, p model.Posting) (id string, inserted bool, err error)
	ActiveSearchConfigs(ctx context.Context) ([]model.SearchConfig, error)
}

// FeedScorer scores a stored posting for a user.
type FeedScorer interface {
	ScoreJobFeed(ctx context.Context, userID, jobFeedID string) (*store.ScoreRecord, error)
}

// Stats counts what happened to fetched postings.
type Stats struct {
	Inserted, Filtered, Duplicates, Scored int
}

func (s *Stats) add(o Stats) {
	s.Inserted += o.Inserted
	s.Filtered += o.Filtered
	s.Duplicates += o.Duplicates
	s.Scored += o.Scored
}

// Worker runs scrape cycles.
type Worker struct {
	fetcher     Fetcher
	store       FeedStore
	scorer      FeedScorer
	concurrency int
	log         *zap.Logger
}

// NewWorker constructs a Worker. scorer may be nil to skip scoring.
func NewWorker(fetcher Fetcher, st FeedStore, scorer FeedScorer, concurrency int, log *zap.Logger) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{fetcher: fetcher, store: st, scorer: scorer, concurrency: concurrency, log: logger.WithFields(log).Named("discovery")}
}

// RunAll scrapes every active search config, at most w.concurrency at a time.
func (w *Worker) RunAll(ctx context.Context) (Stats, error) {
	configs, err := w.store.ActiveSearchConfigs(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("load search configs: %w", err)
	}
	if len(configs) == 0 {
		w.log.Info("no active search configs, nothing to scrape")
		return Stats{}, nil
	}

	results := make([]Stats, len(configs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for i, cfg := range configs {
		g.Go(func() error {
			results[i] = w.Run(gctx, cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	var total Stats
	for _, r := range results {
		total.add(r)
	}
	w.log.Info("scrape cycle complete",
		zap.Int("configs", len(configs)),
		zap.Int("inserted", total.Inserted),
		zap.Int("filtered", total.Filtered),
		zap.Int("duplicates", total.Duplicates),
		zap.Int("scored", total.Scored))
	return total, nil
}

// Run executes one scrape for cfg. Errors for one (title, location) pair are
// logged and the pair is skipped.
func (w *Worker) Run(ctx context.Context, cfg model.SearchConfig) Stats {
	log := w.log.With(zap.String("config_id", cfg.ID), zap.String("user_id", cfg.UserID))

	locations := cfg.Locations
	if len(locations) == 0 {
		locations = []string{""}
	}

	var total Stats
	for _, title := range cfg.JobTitles {
		for _, location := range locations {
			if ctx.Err() != nil {
				return total
			}
			s, err := w.scrapePair(ctx, cfg, title, location)
			if err != nil {
				log.Warn("scrape failed, continuing",
					zap.String("title", title), zap.String("location", location), zap.Error(err))
			}
			total.add(s)
		}
	}
	return total
}

func (w *Worker) scrapePair(ctx context.Context, cfg model.SearchConfig, title, location string) (Stats, error) {
	var s Stats
	postings, err := w.fetcher.Fetch(ctx, title, location)
	if err != nil {
		return s, fmt.Errorf("fetch: %w", err)
	}

	for _, p := range postings {
		if ContainsRedFlag(p, cfg.RedFlags) || BelowSalaryFloor(p, cfg.SalaryMin) {
			s.Filtered++
			continue
		}

		id, inserted, err := w.store.InsertPosting(ctx, cfg.ID, p)
		if err != nil {
			w.log.Warn("insert posting failed", zap.String("external_id", p.ExternalID), zap.Error(err))
			continue
		}
		if !inserted {
			s.Duplicates++
			continue
		}
		s.Inserted++

		if w.scorer == nil {
			continue
		}
		if _, err := w.scorer.ScoreJobFeed(ctx, cfg.UserID, id); err != nil {
			w.log.Debug("score posting failed", zap.String("job_feed_id", id), zap.Error(err))
			continue
		}
		s.Scored++
	}
	return s, nil
}
