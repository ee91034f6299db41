// Package ratelimit implements a fixed-window request limiter keyed by user.
// Counter state lives in an injected Store so several replicas can share it.
package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"jobmate/match-service/internal/logger"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter allows Limit hits per Window for each subject.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
	now    func() time.Time
	log    *zap.Logger
}

// New returns a Limiter. now may be nil.
func New(store Store, limit int, window time.Duration, now func() time.Time, log *zap.Logger) *Limiter {
	if now == nil {
		now = time.Now
	}
	return &Limiter{store: store, limit: limit, window: window, now: now, log: logger.WithFields(log).Named("ratelimit")}
}

// Allow records a hit for subject. Store failures let the request through.
func (l *Limiter) Allow(ctx context.Context, subject string) Decision {
	now := l.now()
	start := now.Truncate(l.window)
	reset := start.Add(l.window)

	key := fmt.Sprintf("%s:%d", subject, start.Unix())
	count, err := l.store.Incr(ctx, key, reset.Sub(now))
	if err != nil {
		l.log.Warn("rate limit store failed, allowing", zap.String("subject", subject), zap.Error(err))
		return Decision{Allowed: true, Limit: l.limit, Remaining: l.limit, ResetAt: reset}
	}

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= int64(l.limit),
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   reset,
	}
}

// Middleware limits requests by the subject returned from key. Requests with
// an empty subject are not limited.
func (l *Limiter) Middleware(key func(*http.Request) string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := key(r)
		if subject == "" {
			next.ServeHTTP(w, r)
			return
		}

		d := l.Allow(r.Context(), subject)
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
		if !d.Allowed {
			retry := int(d.ResetAt.Sub(l.now()).Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
