package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jobmate/match-service/internal/jobparse"
	"jobmate/match-service/internal/model"
)

// ApplicationJob returns the job an application points at, parsed from the
// job_feed raw posting. ErrNotFound when the application is missing or owned
// by someone else, ErrNoPosting when it was added manually.
func (s *Store) ApplicationJob(ctx context.Context, userID, appID string) (model.Job, error) {
	var (
		jobFeedID string
		raw       []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(a.job_feed_id::text, ''), jf.raw_data
		 FROM applications a
		 LEFT JOIN job_feed jf ON jf.id = a.job_feed_id
		 WHERE a.id = $1 AND a.user_id = $2`,
		appID, userID,
	).Scan(&jobFeedID, &raw)
	if err != nil {
		return model.Job{}, notFound(err)
	}
	if jobFeedID == "" || len(raw) == 0 {
		return model.Job{}, ErrNoPosting
	}
	return decodePosting(jobFeedID, raw)
}

// JobFeedEntry loads a job_feed row by ID and parses its posting.
func (s *Store) JobFeedEntry(ctx context.Context, jobFeedID string) (model.Job, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT raw_data FROM job_feed WHERE id = $1`, jobFeedID,
	).Scan(&raw)
	if err != nil {
		return model.Job{}, notFound(err)
	}
	return decodePosting(jobFeedID, raw)
}

func decodePosting(jobFeedID string, raw []byte) (model.Job, error) {
	var p model.Posting
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.Job{}, fmt.Errorf("decode job_feed %s: %w", jobFeedID, err)
	}
	job := jobparse.FromPosting(p)
	job.ID = jobFeedID
	return job, nil
}

// PendingReminders lists applications in a follow-up status that have no
// reminder set yet. since is the last status change.
func (s *Store) PendingReminders(ctx context.Context, statuses []string) ([]model.ApplicationRef, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id::text, user_id::text, current_status::text, updated_at
		 FROM applications
		 WHERE relance_reminder_at IS NULL
		   AND current_status::text = ANY($1)`,
		statuses,
	)
	if err != nil {
		return nil, fmt.Errorf("pendingReminders query: %w", err)
	}
	defer rows.Close()

	out := make([]model.ApplicationRef, 0)
	for rows.Next() {
		var a model.ApplicationRef
		if err := rows.Scan(&a.ID, &a.UserID, &a.Status, &a.Since); err != nil {
			return nil, fmt.Errorf("pendingReminders scan: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SetReminder sets relance_reminder_at unless one was set concurrently.
func (s *Store) SetReminder(ctx context.Context, appID string, at time.Time) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE applications SET relance_reminder_at = $1, updated_at = NOW()
		 WHERE id = $2 AND relance_reminder_at IS NULL`,
		at, appID,
	)
	if err != nil {
		return false, fmt.Errorf("setReminder: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
