package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/questionconnection/backend/internal/metrics"
)

func TestMetrics_RecordsRequests(t *testing.T) {
	t.Parallel()

	recorder := metrics.NewInMemory()
	r := chi.NewRouter()
	r.Use(Metrics(recorder))
	r.Get("/api/v1/threads/{threadId}/messages", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, path := range []string{"/api/v1/threads/t1/messages", "/missing"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, uint64(2), recorder.Snapshot().HTTPRequests)
}
