package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"jobmate/match-service/internal/logger"
	"jobmate/match-service/internal/model"
)

const (
	DefaultAdzunaBaseURL = "https://api.adzuna.com/v1/api/jobs"
	adzunaPageSize       = 50
	adzunaMaxPages       = 3 // at most 150 results per (title × location) pair
	httpTimeout          = 15 * time.Second
	maxErrorBody         = 512
)

// AdzunaFetcher fetches job offers from the Adzuna public API.
// Without credentials Fetch returns (nil, nil) and the round is skipped.
type AdzunaFetcher struct {
	appID   string
	appKey  string
	country string
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewAdzunaFetcher constructs a fetcher. An empty baseURL means the public API.
func NewAdzunaFetcher(appID, appKey, country, baseURL string, log *zap.Logger) *AdzunaFetcher {
	if baseURL == "" {
		baseURL = DefaultAdzunaBaseURL
	}
	return &AdzunaFetcher{
		appID:   appID,
		appKey:  appKey,
		country: country,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: httpTimeout},
		log:     logger.WithFields(log).Named("adzuna"),
	}
}

type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

type adzunaResult struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Company     struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	SalaryMin    float64 `json:"salary_min"`
	SalaryMax    float64 `json:"salary_max"`
	RedirectURL  string  `json:"redirect_url"`
	Created      string  `json:"created"`
	ContractType string  `json:"contract_type"`
}

// Fetch retrieves offers for a title and location, page by page, until a
// short page or adzunaMaxPages.
func (f *AdzunaFetcher) Fetch(ctx context.Context, jobTitle, location string) ([]model.Posting, error) {
	if f.appID == "" || f.appKey == "" {
		f.log.Warn("ADZUNA_APP_ID / ADZUNA_APP_KEY not set, skipping scrape")
		return nil, nil
	}

	var out []model.Posting
	for page := 1; page <= adzunaMaxPages; page++ {
		batch, err := f.fetchPage(ctx, jobTitle, location, page)
		if err != nil {
			return out, fmt.Errorf("page %d: %w", page, err)
		}
		out = append(out, batch...)
		if len(batch) < adzunaPageSize {
			break
		}
	}
	return out, nil
}

func (f *AdzunaFetcher) fetchPage(ctx context.Context, jobTitle, location string, page int) ([]model.Posting, error) {
	params := url.Values{}
	params.Set("app_id", f.appID)
	params.Set("app_key", f.appKey)
	params.Set("results_per_page", strconv.Itoa(adzunaPageSize))
	params.Set("what", jobTitle)
	if location != "" {
		params.Set("where", location)
	}
	params.Set("content-type", "application/json")
	params.Set("sort_by", "date")

	endpoint := fmt.Sprintf("%s/%s/search/%d?%s", f.baseURL, f.country, page, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("adzuna returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var apiResp adzunaResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	postings := make([]model.Posting, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		postings = append(postings, model.Posting{
			ExternalID:   r.ID,
			Title:        r.Title,
			Company:      r.Company.DisplayName,
			Location:     r.Location.DisplayName,
			Description:  r.Description,
			SalaryMin:    r.SalaryMin,
			SalaryMax:    r.SalaryMax,
			SourceURL:    r.RedirectURL,
			ContractType: r.ContractType,
			PublishedAt:  r.Created,
		})
	}
	return postings, nil
}
