// Package httpapi exposes the match service over REST. The gateway forwards
// the authenticated user in the x-user-id header.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"jobmate/match-service/internal/logger"
	"jobmate/match-service/internal/match"
	"jobmate/match-service/internal/metrics"
	"jobmate/match-service/internal/model"
	"jobmate/match-service/internal/ratelimit"
	"jobmate/match-service/internal/scoring"
	"jobmate/match-service/internal/store"
)

// Service is the subset of *match.Service the handler calls.
type Service interface {
	ScoreAdHoc(profile model.Profile, job model.Job, weights scoring.Option) (scoring.Result, error)
	ScoreApplication(ctx context.Context, userID, appID string) (*store.ScoreRecord, error)
	ListScores(ctx context.Context, userID, appID string, limit int) ([]store.ScoreRecord, error)
	SubmitFeedback(ctx context.Context, userID, appID, outcome string, accuracy int, factor string) (*store.FeedbackRecord, error)
	GetWeights(ctx context.Context, userID string) (*store.WeightsRecord, error)
	ResetWeights(ctx context.Context, userID string) (*store.WeightsRecord, error)
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	SaveProfile(ctx context.Context, userID string, p model.Profile) (*model.Profile, error)
}

// ─── Handler ─────────────────────────────────────────────────────────────────

// Handler holds shared dependencies.
type Handler struct {
	svc     Service
	limiter *ratelimit.Limiter
	metrics *metrics.Metrics
	version string
	log     *zap.Logger
}

// NewHandler returns a configured Handler. limiter may be nil.
func NewHandler(svc Service, limiter *ratelimit.Limiter, version string, log *zap.Logger) *Handler {
	return &Handler{svc: svc, limiter: limiter, version: version, log: logger.WithFields(log).Named("http")}
}

// WithMetrics instruments every route and serves /metrics.
func (h *Handler) WithMetrics(m *metrics.Metrics) *Handler {
	h.metrics = m
	return h
}

// RegisterRoutes mounts all match-service routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.health)
	if h.metrics != nil {
		mux.Handle("/metrics", h.metrics.Handler())
	}
	mux.HandleFunc("/score", h.handleScore)
	mux.HandleFunc("/profile", h.handleProfile)
	mux.HandleFunc("/weights", h.handleWeights)
	mux.HandleFunc("/weights/reset", h.handleWeightsReset)
	mux.HandleFunc("/applications/", h.handleApplicationAction)
}

// Routes returns the mux wrapped in the per-user rate limiter and, when
// configured, the request metrics.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	var handler http.Handler = mux
	if h.limiter != nil {
		handler = h.limiter.Middleware(func(r *http.Request) string { return r.Header.Get("x-user-id") }, handler)
	}
	if h.metrics != nil {
		handler = h.metrics.Middleware(handler)
	}
	return handler
}

// ─── Route dispatch ───────────────────────────────────────────────────────────

// handleApplicationAction handles /applications/{id}/score|scores|feedback
func (h *Handler) handleApplicationAction(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 || parts[1] == "" {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}
	appID, action := parts[1], parts[2]

	switch {
	case action == "score" && r.Method == http.MethodPost:
		h.scoreApplication(w, r, appID)
	case action == "scores" && r.Method == http.MethodGet:
		h.listScores(w, r, appID)
	case action == "feedback" && r.Method == http.MethodPost:
		h.submitFeedback(w, r, appID)
	case action == "score" || action == "scores" || action == "feedback":
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	default:
		jsonError(w, fmt.Sprintf("unknown action %q", action), http.StatusNotFound)
	}
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getProfile(w, r)
	case http.MethodPut:
		h.saveProfile(w, r)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleWeights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	rec, err := h.svc.GetWeights(r.Context(), userID)
	if err != nil {
		h.serviceError(w, "getWeights", err)
		return
	}
	jsonOK(w, rec)
}

func (h *Handler) handleWeightsReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	rec, err := h.svc.ResetWeights(r.Context(), userID)
	if err != nil {
		h.serviceError(w, "resetWeights", err)
		return
	}
	jsonOK(w, rec)
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, map[string]string{
		"status":  "ok",
		"service": "match-service",
		"version": h.version,
	})
}

func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireUser(w, r); !ok {
		return
	}

	var body struct {
		Profile model.Profile   `json:"profile"`
		Job     model.Job       `json:"job"`
		Weights json.RawMessage `json:"weights"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	// Knobs missing from a partial object keep their default value.
	weights := scoring.None()
	if len(body.Weights) > 0 && string(body.Weights) != "null" {
		wt := scoring.DefaultWeights()
		if err := json.Unmarshal(body.Weights, &wt); err != nil {
			jsonError(w, "invalid weights", http.StatusBadRequest)
			return
		}
		weights = scoring.Some(wt)
	}
	res, err := h.svc.ScoreAdHoc(body.Profile, body.Job, weights)
	if err != nil {
		h.serviceError(w, "score", err)
		return
	}
	jsonOK(w, res)
}

func (h *Handler) scoreApplication(w http.ResponseWriter, r *http.Request, appID string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	rec, err := h.svc.ScoreApplication(r.Context(), userID, appID)
	if err != nil {
		h.serviceError(w, "scoreApplication", err)
		return
	}
	jsonOK(w, rec)
}

func (h *Handler) listScores(w http.ResponseWriter, r *http.Request, appID string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			jsonError(w, "limit must be between 1 and 200", http.StatusBadRequest)
			return
		}
		limit = n
	}

	recs, err := h.svc.ListScores(r.Context(), userID, appID, limit)
	if err != nil {
		h.serviceError(w, "listScores", err)
		return
	}
	jsonOK(w, recs)
}

func (h *Handler) submitFeedback(w http.ResponseWriter, r *http.Request, appID string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body struct {
		Outcome  string `json:"outcome"`
		Accuracy int    `json:"accuracy"`
		Factor   string `json:"factor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	rec, err := h.svc.SubmitFeedback(r.Context(), userID, appID, body.Outcome, body.Accuracy, body.Factor)
	if err != nil {
		h.serviceError(w, "submitFeedback", err)
		return
	}
	jsonOK(w, rec)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	p, err := h.svc.GetProfile(r.Context(), userID)
	if err != nil {
		h.serviceError(w, "getProfile", err)
		return
	}
	jsonOK(w, p)
}

func (h *Handler) saveProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var p model.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	saved, err := h.svc.SaveProfile(r.Context(), userID, p)
	if err != nil {
		h.serviceError(w, "saveProfile", err)
		return
	}
	jsonOK(w, saved)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

// serviceError maps match errors to status codes.
func (h *Handler) serviceError(w http.ResponseWriter, op string, err error) {
	var ve *match.ValidationError
	switch {
	case errors.As(err, &ve):
		jsonError(w, ve.Msg, http.StatusBadRequest)
	case errors.Is(err, match.ErrNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	default:
		h.log.Error(op+" failed", zap.Error(err))
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
