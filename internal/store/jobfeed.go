package store

import (
	"context"
	"encoding/json"
	"fmt"

	"jobmate/match-service/internal/model"
)

// InsertPosting adds a fetched posting to job_feed unless its source_url is
// already known. inserted is false for duplicates.
func (s *Store) InsertPosting(ctx context.Context, searchConfigID string, p model.Posting) (id string, inserted bool, err error) {
	if p.SourceURL == "" {
		p.SourceURL = fmt.Sprintf("adzuna:%s", p.ExternalID)
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", false, fmt.Errorf("insertPosting encode: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`INSERT INTO job_feed (search_config_id, raw_data, source_url, status)
		 SELECT $1, $2::jsonb, $3, 'PENDING'
		 WHERE NOT EXISTS (
		   SELECT 1 FROM job_feed WHERE source_url = $3
		 )
		 RETURNING id::text`,
		searchConfigID, string(raw), p.SourceURL,
	)
	if err != nil {
		return "", false, fmt.Errorf("insertPosting: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&id); err != nil {
			return "", false, fmt.Errorf("insertPosting scan: %w", err)
		}
		inserted = true
	}
	return id, inserted, rows.Err()
}

// ActiveSearchConfigs fetches every search config with is_active = true.
func (s *Store) ActiveSearchConfigs(ctx context.Context) ([]model.SearchConfig, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id::text, user_id::text, job_titles, locations, COALESCE(remote_policy::text, ''),
		        keywords, red_flags, salary_min, salary_max
		 FROM search_configs
		 WHERE is_active = true`,
	)
	if err != nil {
		return nil, fmt.Errorf("query search_configs: %w", err)
	}
	defer rows.Close()

	var configs []model.SearchConfig
	for rows.Next() {
		var c model.SearchConfig
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.JobTitles, &c.Locations,
			&c.RemotePolicy, &c.Keywords, &c.RedFlags,
			&c.SalaryMin, &c.SalaryMax,
		); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}
