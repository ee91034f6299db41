package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobmate/match-service/internal/match"
	"jobmate/match-service/internal/metrics"
	"jobmate/match-service/internal/model"
	"jobmate/match-service/internal/ratelimit"
	"jobmate/match-service/internal/scoring"
	"jobmate/match-service/internal/store"
)

type fakeService struct {
	lastWeights scoring.Option
	lastLimit   int
	feedback    []string
	failWith    error
}

func (f *fakeService) ScoreAdHoc(p model.Profile, j model.Job, w scoring.Option) (scoring.Result, error) {
	f.lastWeights = w
	if j.Title == "" {
		return scoring.Result{}, &match.ValidationError{Msg: "job: job title is required"}
	}
	return scoring.NewScorer(func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }).Calculate(p, j, w), nil
}

func (f *fakeService) ScoreApplication(_ context.Context, userID, appID string) (*store.ScoreRecord, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if appID != "app-1" {
		return nil, fmt.Errorf("application: %w", match.ErrNotFound)
	}
	return &store.ScoreRecord{UserID: userID, ApplicationID: appID, WeightsVersion: 3}, nil
}

func (f *fakeService) ListScores(_ context.Context, userID, appID string, limit int) ([]store.ScoreRecord, error) {
	f.lastLimit = limit
	return []store.ScoreRecord{{UserID: userID, ApplicationID: appID}}, nil
}

func (f *fakeService) SubmitFeedback(_ context.Context, _, appID, outcome string, accuracy int, factor string) (*store.FeedbackRecord, error) {
	fb, err := model.ParseFeedback(outcome, accuracy, factor)
	if err != nil {
		return nil, &match.ValidationError{Msg: err.Error()}
	}
	f.feedback = append(f.feedback, appID)
	return &store.FeedbackRecord{ApplicationID: appID, Feedback: fb}, nil
}

func (f *fakeService) GetWeights(_ context.Context, userID string) (*store.WeightsRecord, error) {
	return &store.WeightsRecord{UserID: userID, Weights: scoring.DefaultWeights(), Version: 1}, nil
}

func (f *fakeService) ResetWeights(_ context.Context, userID string) (*store.WeightsRecord, error) {
	return &store.WeightsRecord{UserID: userID, Weights: scoring.DefaultWeights(), Version: 2}, nil
}

func (f *fakeService) GetProfile(_ context.Context, userID string) (*model.Profile, error) {
	return nil, fmt.Errorf("profile: %w", match.ErrNotFound)
}

func (f *fakeService) SaveProfile(_ context.Context, userID string, p model.Profile) (*model.Profile, error) {
	p.UserID = userID
	return &p, nil
}

func newTestHandler(svc Service, limiter *ratelimit.Limiter) http.Handler {
	return NewHandler(svc, limiter, "test", zap.NewNop()).Routes()
}

func do(h http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if user != "" {
		req.Header.Set("x-user-id", user)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMissingUserHeader(t *testing.T) {
	h := newTestHandler(&fakeService{}, nil)

	for _, c := range []struct{ method, path string }{
		{http.MethodPost, "/score"},
		{http.MethodGet, "/weights"},
		{http.MethodPost, "/weights/reset"},
		{http.MethodGet, "/profile"},
		{http.MethodPost, "/applications/app-1/score"},
		{http.MethodGet, "/applications/app-1/scores"},
		{http.MethodPost, "/applications/app-1/feedback"},
	} {
		rec := do(h, c.method, c.path, "", "{}")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, c.path)
	}
}

func TestHealth(t *testing.T) {
	rec := do(newTestHandler(&fakeService{}, nil), http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"service":"match-service"`)
}

func TestScore_AdHoc(t *testing.T) {
	svc := &fakeService{}
	h := newTestHandler(svc, nil)

	body := `{"profile":{"remotePreference":"REMOTE","skills":[{"name":"Go"}]},
	          "job":{"title":"Go Dev","remoteType":"REMOTE","mustHave":["Go"]},
	          "weights":{"skills":2,"location":1,"seniorityPenalty":1,"mustHaveGap":1,"niceHaveGap":0.5,"salary":0.5,"bias":3}}`
	rec := do(h, http.MethodPost, "/score", "u1", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res scoring.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 100, res.Breakdown.MustHave.Score)
	w, ok := svc.lastWeights.Get()
	require.True(t, ok)
	assert.Equal(t, 3.0, w.Bias)

	rec = do(h, http.MethodPost, "/score", "u1", `{"profile":{},"job":{"title":"Dev","remoteType":"ONSITE"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	_, ok = svc.lastWeights.Get()
	assert.False(t, ok, "absent weights stay absent")

	rec = do(h, http.MethodPost, "/score", "u1", `{"profile":{},"job":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPost, "/score", "u1", `{"profile":{},"job":{"title":"Dev"},"weights":{"skills":"high"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPost, "/score", "u1", `{bad`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodGet, "/score", "u1", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestScore_PartialWeightsKeepDefaults(t *testing.T) {
	svc := &fakeService{}
	h := newTestHandler(svc, nil)

	rec := do(h, http.MethodPost, "/score", "u1", `{"profile":{},"job":{"title":"Dev","remoteType":"ONSITE"},"weights":{"bias":5}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	w, ok := svc.lastWeights.Get()
	require.True(t, ok)
	want := scoring.DefaultWeights()
	want.Bias = 5
	assert.Equal(t, want, w)

	rec = do(h, http.MethodPost, "/score", "u1", `{"profile":{},"job":{"title":"Dev","remoteType":"ONSITE"},"weights":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	_, ok = svc.lastWeights.Get()
	assert.False(t, ok)
}

func TestApplicationActions(t *testing.T) {
	svc := &fakeService{}
	h := newTestHandler(svc, nil)

	rec := do(h, http.MethodPost, "/applications/app-1/score", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"weightsVersion":3`)

	rec = do(h, http.MethodPost, "/applications/nope/score", "u1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, http.MethodGet, "/applications/app-1/scores?limit=5", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, svc.lastLimit)

	rec = do(h, http.MethodGet, "/applications/app-1/scores?limit=abc", "u1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPost, "/applications/app-1/feedback", "u1", `{"outcome":"OFFER","accuracy":4,"factor":"SALARY"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"app-1"}, svc.feedback)

	rec = do(h, http.MethodPost, "/applications/app-1/feedback", "u1", `{"outcome":"OFFER","accuracy":9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "accuracy")

	rec = do(h, http.MethodGet, "/applications/app-1/feedback", "u1", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(h, http.MethodPost, "/applications/app-1/archive", "u1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, http.MethodPost, "/applications/app-1", "u1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInternalErrorIsHidden(t *testing.T) {
	h := newTestHandler(&fakeService{failWith: errors.New("pq: connection refused")}, nil)
	rec := do(h, http.MethodPost, "/applications/app-1/score", "u1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestWeightsAndProfile(t *testing.T) {
	h := newTestHandler(&fakeService{}, nil)

	rec := do(h, http.MethodGet, "/weights", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"niceHaveGap":0.5`)

	rec = do(h, http.MethodPost, "/weights/reset", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":2`)

	rec = do(h, http.MethodGet, "/profile", "u1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, http.MethodPut, "/profile", "u1", `{"remotePreference":"ANY","skills":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userId":"u1"`)
}

func TestRateLimited(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }
	limiter := ratelimit.New(ratelimit.NewMemoryStore(now), 2, time.Minute, now, zap.NewNop())
	h := newTestHandler(&fakeService{}, limiter)

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/weights", "u1", "").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/weights", "u1", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(h, http.MethodGet, "/weights", "u1", "").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/weights", "u2", "").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/health", "", "").Code)
}

func TestMetrics(t *testing.T) {
	h := NewHandler(&fakeService{}, nil, "test", zap.NewNop()).WithMetrics(metrics.New()).Routes()

	do(h, http.MethodGet, "/weights", "u1", "")
	do(h, http.MethodGet, "/applications/app-9/scores", "u1", "")

	rec := do(h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `match_http_requests_total{method="GET",route="/weights",status_code="200"} 1`)
	assert.Contains(t, body, `route="/applications/"`)
	assert.NotContains(t, body, "app-9")
}
