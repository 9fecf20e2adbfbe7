package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(GetClientFromContext(r.Context())))
}

func TestAPIKeyAuth(t *testing.T) {
	h := APIKeyAuth(map[string]string{"mobile": "secret"})(http.HandlerFunc(okHandler))

	tests := []struct {
		name   string
		path   string
		header map[string]string
		status int
		body   string
	}{
		{"public path", "/health", nil, http.StatusOK, ""},
		{"missing header", "/v1/analyze", nil, http.StatusUnauthorized, "missing Authorization"},
		{"bearer ok", "/v1/analyze", map[string]string{"Authorization": "Bearer secret"}, http.StatusOK, "mobile"},
		{"x-api-key ok", "/v1/analyze", map[string]string{"X-API-Key": "secret"}, http.StatusOK, "mobile"},
		{"wrong key", "/v1/analyze", map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized, "invalid API key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestAPIKeyAuth_DisabledWithoutKeys(t *testing.T) {
	h := APIKeyAuth(nil)(http.HandlerFunc(okHandler))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/analyze", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "clients have separate buckets")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("a"))

	now = now.Add(time.Hour)
	rl.Allow("c")
	assert.Equal(t, 1, rl.Len(), "idle buckets are dropped")
}

func TestRateLimitMiddleware(t *testing.T) {
	h := RateLimitMiddleware(NewRateLimiter(0.001, 1))(http.HandlerFunc(okHandler))

	do := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("/v1/scans").Code)
	rec := do("/v1/scans")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, do("/health").Code)
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthHandler(map[string]HealthChecker{
		"db": CheckFunc(func(ctx context.Context) error { return nil }),
	})(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	rec = httptest.NewRecorder()
	HealthHandler(map[string]HealthChecker{
		"db":    CheckFunc(func(ctx context.Context) error { return nil }),
		"redis": CheckFunc(func(ctx context.Context) error { return errors.New("connection refused") }),
	})(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := Logging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/scans", nil))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.WarnLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, int64(15), fields["bytes"])
	assert.Equal(t, "/v1/scans", fields["path"])
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/v1/scans/{id}", okHandler)
	r.Handle("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/scans/abc", nil))
	m.ObserveAnalysis("local", "ok", 20*time.Millisecond)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `purelabel_http_requests_total{method="GET",route="/v1/scans/{id}",status="200"} 1`)
	assert.Contains(t, body, `purelabel_analyses_total{engine="local",outcome="ok"} 1`)
}

func TestValidators(t *testing.T) {
	assert.Equal(t, "hello\tworld", SanitizeString("  hello\x00\tworld\x07 "))
	assert.Equal(t, 20, ValidateLimit(0))
	assert.Equal(t, 100, ValidateLimit(500))
	assert.Equal(t, 7, ValidateLimit(7))

	assert.NoError(t, ValidateScanID("3f1c2b6e-9a55-4d3e-8f43-1c1f0d5b2a10"))
	assert.Error(t, ValidateScanID(""))
	assert.Error(t, ValidateScanID("../../etc/passwd"))

	assert.NoError(t, ValidateText("text", "salt"))
	assert.Error(t, ValidateText("text", strings.Repeat("a", MaxTextLength+1)))
}
