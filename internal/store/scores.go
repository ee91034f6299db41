package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"jobmate/match-service/internal/model"
	"jobmate/match-service/internal/scoring"
)

// ScoreRecord is one persisted scoring event. Records are never updated.
type ScoreRecord struct {
	ID             uuid.UUID      `json:"id"`
	UserID         string         `json:"userId"`
	ApplicationID  string         `json:"applicationId,omitempty"`
	JobRef         string         `json:"jobRef,omitempty"`
	WeightsVersion int            `json:"weightsVersion"`
	Result         scoring.Result `json:"result"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// FeedbackRecord is one calibration event with the weights on either side.
type FeedbackRecord struct {
	ID            uuid.UUID       `json:"id"`
	UserID        string          `json:"userId"`
	ApplicationID string          `json:"applicationId"`
	Feedback      model.Feedback  `json:"feedback"`
	Before        scoring.Weights `json:"before"`
	After         WeightsRecord   `json:"after"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// AppendScore persists a scoring result. When the record is tied to an
// application the latest result is also mirrored into applications.ai_analysis
// so the board shows it without another lookup.
func (s *Store) AppendScore(ctx context.Context, rec ScoreRecord) (ScoreRecord, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}

	breakdown, err := json.Marshal(rec.Result.Breakdown)
	if err != nil {
		return rec, fmt.Errorf("appendScore marshal breakdown: %w", err)
	}
	explanation, err := json.Marshal(rec.Result.Explanation)
	if err != nil {
		return rec, fmt.Errorf("appendScore marshal explanation: %w", err)
	}

	var appID *string
	if rec.ApplicationID != "" {
		appID = &rec.ApplicationID
	}

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO score_breakdowns (id, user_id, application_id, job_ref, raw_score,
			                               calibrated_score, weights_version, breakdown, explanation, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9::jsonb, $10)`,
			rec.ID, rec.UserID, appID, rec.JobRef, rec.Result.Breakdown.RawScore,
			rec.Result.Breakdown.CalibratedScore, rec.WeightsVersion,
			string(breakdown), string(explanation), rec.CreatedAt,
		); err != nil {
			return fmt.Errorf("appendScore insert: %w", err)
		}
		if appID == nil {
			return nil
		}

		summary, err := json.Marshal(map[string]any{
			"matchScore":  rec.Result.Breakdown.CalibratedScore,
			"summary":     rec.Result.Explanation.Summary,
			"strengths":   rec.Result.Explanation.Strengths,
			"gaps":        rec.Result.Explanation.Gaps,
			"scoreId":     rec.ID.String(),
			"generatedAt": rec.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return fmt.Errorf("appendScore marshal summary: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`UPDATE applications SET ai_analysis = $1::jsonb, updated_at = NOW()
			 WHERE id = $2 AND user_id = $3`,
			string(summary), rec.ApplicationID, rec.UserID,
		); err != nil {
			return fmt.Errorf("appendScore ai_analysis: %w", err)
		}
		return nil
	})
	return rec, err
}

// ListScores returns the scoring history of an application, newest first.
func (s *Store) ListScores(ctx context.Context, userID, appID string, limit int) ([]ScoreRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, COALESCE(application_id, ''), job_ref, weights_version,
		        breakdown, explanation, created_at
		 FROM score_breakdowns
		 WHERE user_id = $1 AND application_id = $2
		 ORDER BY created_at DESC
		 LIMIT $3`,
		userID, appID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listScores query: %w", err)
	}
	defer rows.Close()

	out := make([]ScoreRecord, 0)
	for rows.Next() {
		var (
			rec                    ScoreRecord
			breakdown, explanation []byte
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.ApplicationID, &rec.JobRef,
			&rec.WeightsVersion, &breakdown, &explanation, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("listScores scan: %w", err)
		}
		if err := json.Unmarshal(breakdown, &rec.Result.Breakdown); err != nil {
			return nil, fmt.Errorf("listScores decode breakdown %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal(explanation, &rec.Result.Explanation); err != nil {
			return nil, fmt.Errorf("listScores decode explanation %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// RecordFeedback applies calibrate to the user's weights and stores the
// feedback event in the same transaction. The application must belong to
// the user.
func (s *Store) RecordFeedback(ctx context.Context, userID, appID string, fb model.Feedback, calibrate func(scoring.Weights) scoring.Weights) (FeedbackRecord, error) {
	rec := FeedbackRecord{
		ID:            uuid.New(),
		UserID:        userID,
		ApplicationID: appID,
		Feedback:      fb,
		CreatedAt:     s.now().UTC(),
	}

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		var one int
		if err := tx.QueryRow(ctx,
			`SELECT 1 FROM applications WHERE id = $1 AND user_id = $2`, appID, userID,
		).Scan(&one); err != nil {
			return notFound(err)
		}

		before, after, err := updateWeightsTx(ctx, tx, userID, calibrate)
		if err != nil {
			return err
		}
		rec.Before, rec.After = before.Weights, after

		beforeJSON, afterJSON, err := weightsJSON(before.Weights, after.Weights)
		if err != nil {
			return fmt.Errorf("recordFeedback: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO score_feedback (id, user_id, application_id, outcome, accuracy, factor,
			                             weights_before, weights_after, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8::jsonb, $9)`,
			rec.ID, userID, appID, string(fb.Outcome), fb.Accuracy, string(fb.Factor),
			beforeJSON, afterJSON, rec.CreatedAt,
		); err != nil {
			return fmt.Errorf("recordFeedback insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return FeedbackRecord{}, err
	}
	return rec, nil
}

// weightsJSON encodes the weights snapshot pair stored with a feedback event.
// A NaN read back from a DOUBLE PRECISION column fails here instead of
// reaching the jsonb cast.
func weightsJSON(before, after scoring.Weights) (string, string, error) {
	b, err := json.Marshal(before)
	if err != nil {
		return "", "", fmt.Errorf("marshal weights before: %w", err)
	}
	a, err := json.Marshal(after)
	if err != nil {
		return "", "", fmt.Errorf("marshal weights after: %w", err)
	}
	return string(b), string(a), nil
}
