package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByPattern(t *testing.T) {
	m := New()
	mux := http.NewServeMux()
	mux.HandleFunc("/applications/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := m.Middleware(mux)

	for _, id := range []string{"a1", "a2", "a3"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/applications/"+id+"/scores", nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/applications/", "404")))
}

func TestObserve(t *testing.T) {
	m := New()
	m.ObserveScore("application", 72)
	m.ObserveFeedback("OFFER", "")
	m.ObserveFeedback("OFFER", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.feedback.WithLabelValues("OFFER", "NONE")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.scores))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveFeedback("REJECTED", "SALARY")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `match_feedback_total{factor="SALARY",outcome="REJECTED"} 1`))
}
