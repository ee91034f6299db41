package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"jobmate/match-service/internal/scoring"
)

// WeightsRecord is a user's weight vector with its optimistic version.
type WeightsRecord struct {
	UserID    string          `json:"userId"`
	Weights   scoring.Weights `json:"weights"`
	Version   int             `json:"version"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

const weightsColumns = `user_id, skills, location, seniority_penalty, must_have_gap,
		nice_have_gap, salary, bias, version, updated_at`

func scanWeights(row pgx.Row) (WeightsRecord, error) {
	var r WeightsRecord
	w := &r.Weights
	err := row.Scan(
		&r.UserID, &w.Skills, &w.Location, &w.SeniorityPenalty, &w.MustHaveGap,
		&w.NiceHaveGap, &w.Salary, &w.Bias, &r.Version, &r.UpdatedAt,
	)
	return r, err
}

func defaultsArgs(userID string) []any {
	d := scoring.DefaultWeights()
	return []any{userID, d.Skills, d.Location, d.SeniorityPenalty, d.MustHaveGap, d.NiceHaveGap, d.Salary, d.Bias}
}

// GetWeights returns the user's weights, creating the default row on first use.
func (s *Store) GetWeights(ctx context.Context, userID string) (WeightsRecord, error) {
	rec, err := retryOnNoRows(func() (WeightsRecord, error) {
		return scanWeights(s.pool.QueryRow(ctx,
			`WITH ins AS (
			   INSERT INTO scoring_weights (user_id, skills, location, seniority_penalty,
			                                must_have_gap, nice_have_gap, salary, bias)
			   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			   ON CONFLICT (user_id) DO NOTHING
			   RETURNING `+weightsColumns+`
			 )
			 SELECT `+weightsColumns+` FROM ins
			 UNION ALL
			 SELECT `+weightsColumns+` FROM scoring_weights WHERE user_id = $1
			 LIMIT 1`,
			defaultsArgs(userID)...,
		))
	})
	if err != nil {
		return WeightsRecord{}, fmt.Errorf("getWeights: %w", err)
	}
	return rec, nil
}

// retryOnNoRows runs get a second time when the first run finds no row.
// When two requests create the same user's row at once, the loser's insert
// is skipped but its statement snapshot predates the winner's commit; a new
// statement sees the committed row.
func retryOnNoRows(get func() (WeightsRecord, error)) (WeightsRecord, error) {
	rec, err := get()
	if errors.Is(err, pgx.ErrNoRows) {
		return get()
	}
	return rec, err
}

// UpdateWeights applies fn to the user's current weights while holding the
// row lock, so concurrent updates for the same user are serialized. The
// version is incremented on every write.
func (s *Store) UpdateWeights(ctx context.Context, userID string, fn func(scoring.Weights) scoring.Weights) (before, after WeightsRecord, err error) {
	err = s.inTx(ctx, func(tx pgx.Tx) error {
		before, after, err = updateWeightsTx(ctx, tx, userID, fn)
		return err
	})
	return before, after, err
}

// ResetWeights overwrites the user's weights with the defaults.
func (s *Store) ResetWeights(ctx context.Context, userID string) (WeightsRecord, error) {
	_, after, err := s.UpdateWeights(ctx, userID, func(scoring.Weights) scoring.Weights {
		return scoring.DefaultWeights()
	})
	return after, err
}

func updateWeightsTx(ctx context.Context, tx pgx.Tx, userID string, fn func(scoring.Weights) scoring.Weights) (before, after WeightsRecord, err error) {
	if _, err = tx.Exec(ctx,
		`INSERT INTO scoring_weights (user_id, skills, location, seniority_penalty,
		                              must_have_gap, nice_have_gap, salary, bias)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (user_id) DO NOTHING`,
		defaultsArgs(userID)...,
	); err != nil {
		return before, after, fmt.Errorf("updateWeights seed: %w", err)
	}

	before, err = scanWeights(tx.QueryRow(ctx,
		`SELECT `+weightsColumns+` FROM scoring_weights WHERE user_id = $1 FOR UPDATE`, userID))
	if err != nil {
		return before, after, fmt.Errorf("updateWeights lock: %w", err)
	}

	w := fn(before.Weights).Clamped()
	after, err = scanWeights(tx.QueryRow(ctx,
		`UPDATE scoring_weights
		 SET skills = $2, location = $3, seniority_penalty = $4, must_have_gap = $5,
		     nice_have_gap = $6, salary = $7, bias = $8,
		     version = version + 1, updated_at = NOW()
		 WHERE user_id = $1
		 RETURNING `+weightsColumns,
		userID, w.Skills, w.Location, w.SeniorityPenalty, w.MustHaveGap, w.NiceHaveGap, w.Salary, w.Bias,
	))
	if err != nil {
		return before, after, fmt.Errorf("updateWeights write: %w", err)
	}
	return before, after, nil
}

func (s *Store) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
