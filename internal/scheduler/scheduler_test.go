package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"jobmate/match-service/internal/discovery"
)

type fakeScraper struct {
	stats discovery.Stats
	err   error
	ran   chan struct{}
}

func (f *fakeScraper) RunAll(context.Context) (discovery.Stats, error) {
	f.ran <- struct{}{}
	return f.stats, f.err
}

type fakeSweeper struct{ calls int }

func (f *fakeSweeper) Sweep(context.Context) (int, error) {
	f.calls++
	return 0, nil
}

func TestStart_RunsScrapeImmediately(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	scraper := &fakeScraper{stats: discovery.Stats{Inserted: 3, Scored: 2}, ran: make(chan struct{}, 1)}

	s := New(scraper, nil, 6, "@every 1h", zap.New(core))
	require.NoError(t, s.Start(context.Background()))

	select {
	case <-scraper.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("scrape did not run on start")
	}
	s.Stop()

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("scrape cycle complete").Len() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestStart_ScrapeErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	scraper := &fakeScraper{err: errors.New("db down"), ran: make(chan struct{}, 1)}

	s := New(scraper, nil, 1, "@every 1h", zap.New(core))
	require.NoError(t, s.Start(context.Background()))
	<-scraper.ran
	s.Stop()

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("scrape cycle failed").Len() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestStart_InvalidSweepSpec(t *testing.T) {
	s := New(nil, &fakeSweeper{}, 1, "every now and then", zap.NewNop())
	assert.Error(t, s.Start(context.Background()))
}

func TestRunSweep(t *testing.T) {
	sw := &fakeSweeper{}
	s := New(nil, sw, 1, "@every 1h", zap.NewNop())
	s.runSweep(context.Background())
	assert.Equal(t, 1, sw.calls)
}
