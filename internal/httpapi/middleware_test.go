package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/housingjson/internal/config"
	"github.com/roach88/housingjson/internal/testutil"
)

func TestRequestID_Generated(t *testing.T) {
	env := testServer(t, config.HTTPConfig{})

	rec := do(t, env.router, http.MethodGet, "/health", "")
	id := rec.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	assert.NoError(t, err, "request id %q", id)
}

func TestRequestID_Propagated(t *testing.T) {
	env := testServer(t, config.HTTPConfig{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	env := testServer(t, config.HTTPConfig{CORSOrigin: "https://example.org"})

	rec := do(t, env.router, http.MethodOptions, "/housing/dot", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://example.org", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, env.router, http.MethodGet, "/health", "")
	assert.Equal(t, "https://example.org", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitMiddleware(t *testing.T) {
	env := testServer(t, config.HTTPConfig{RateLimit: 1, RateBurst: 2})

	assert.Equal(t, http.StatusOK, do(t, env.router, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, do(t, env.router, http.MethodGet, "/health", "").Code)

	rec := do(t, env.router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate limit exceeded", decode(t, rec)["error"])
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Hour)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
	assert.Equal(t, 2, rl.Len())
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	clock := testutil.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	rl := NewRateLimiter(60, 1, time.Minute)
	rl.now = clock.Now

	require.True(t, rl.Allow("10.0.0.1"))
	require.Equal(t, 1, rl.Len())

	clock.Advance(2 * time.Minute)
	require.True(t, rl.Allow("10.0.0.2"))
	assert.Equal(t, 1, rl.Len())
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(gin.Recovery(), RequestIDMiddleware())
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
