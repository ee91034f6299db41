package store

import (
	"context"
	"encoding/json"
	"fmt"

	"jobmate/match-service/internal/model"
)

// GetProfile loads the candidate profile of userID.
func (s *Store) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT profile FROM candidate_profiles WHERE user_id = $1`, userID,
	).Scan(&raw)
	if err != nil {
		return model.Profile{}, notFound(err)
	}

	var p model.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.Profile{}, fmt.Errorf("getProfile decode: %w", err)
	}
	p.UserID = userID
	return p, nil
}

// SaveProfile creates or replaces the candidate profile of p.UserID.
func (s *Store) SaveProfile(ctx context.Context, p model.Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("saveProfile encode: %w", err)
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO candidate_profiles (user_id, profile, updated_at)
		 VALUES ($1, $2::jsonb, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET profile = EXCLUDED.profile, updated_at = NOW()`,
		p.UserID, string(raw),
	); err != nil {
		return fmt.Errorf("saveProfile: %w", err)
	}
	return nil
}
