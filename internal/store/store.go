// Package store is the PostgreSQL persistence layer of the match service.
// It owns the scoring tables created by the db migrations and reads the
// shared applications / job_feed / search_configs tables.
package store

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a row is missing or does not belong to the user.
var ErrNotFound = errors.New("not found")

// ErrNoPosting is returned when an application has no linked job_feed entry
// (manual additions) and therefore nothing to score.
var ErrNoPosting = errors.New("application has no linked job posting")

// Store wraps a pgx pool.
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// New returns a Store backed by pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, now: time.Now}
}
