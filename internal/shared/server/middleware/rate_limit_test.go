package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedRouter(limiter *RateLimiter, rules map[string]RateLimitRule) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			c.Set(userIDKey, id)
		}
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		GroupFor: func(c *gin.Context) string {
			if c.FullPath() == "/api/v1/editor/sessions/:id/preview" {
				return "PREVIEW"
			}
			return ""
		},
		Limiter: limiter,
		Rules:   rules,
	}))
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	r.GET("/api/v1/editor/sessions/:id/preview", ok)
	r.PUT("/api/v1/editor/sessions/:id/steps/:step", ok)
	return r
}

func serve(r http.Handler, method, path, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestRateLimitPreviewGroupHasOwnBudget(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	r := limitedRouter(NewRateLimiter(func() time.Time { return now }), map[string]RateLimitRule{
		"DEFAULT": {Rate: 1, Burst: 2},
		"PREVIEW": {Rate: 5, Burst: 10},
	})

	for i := 0; i < 5; i++ {
		resp := serve(r, http.MethodGet, "/api/v1/editor/sessions/s1/preview", "guest:a")
		require.Equal(t, http.StatusOK, resp.Code, "preview %d", i+1)
	}
	for i := 0; i < 2; i++ {
		resp := serve(r, http.MethodPut, "/api/v1/editor/sessions/s1/steps/skills", "guest:a")
		require.Equal(t, http.StatusOK, resp.Code, "step %d", i+1)
	}
	resp := serve(r, http.MethodPut, "/api/v1/editor/sessions/s1/steps/skills", "guest:a")
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)

	// Another principal has its own bucket.
	resp = serve(r, http.MethodPut, "/api/v1/editor/sessions/s1/steps/skills", "guest:b")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRateLimit429Envelope(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	r := limitedRouter(NewRateLimiter(func() time.Time { return now }), map[string]RateLimitRule{
		"DEFAULT": {Rate: 0.5, Burst: 1},
	})

	require.Equal(t, http.StatusOK, serve(r, http.MethodPut, "/api/v1/editor/sessions/s1/steps/skills", "").Code)
	resp := serve(r, http.MethodPut, "/api/v1/editor/sessions/s1/steps/skills", "")
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "2", resp.Header().Get("Retry-After"))

	var payload struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, "rate_limited", payload.Error.Code)
	assert.Equal(t, "default", payload.Error.Details["group"])
	assert.EqualValues(t, 2000, payload.Error.Details["retryAfterMs"])

	// Groups without a rule pass through.
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/v1/editor/sessions/s1/preview", "").Code)
}

func TestRateLimiterRefillsAndPrunes(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	ok, _ := limiter.Allow("u|DEFAULT", rule)
	require.True(t, ok)
	ok, wait := limiter.Allow("u|DEFAULT", rule)
	require.False(t, ok)
	assert.Equal(t, time.Second, wait)

	now = now.Add(time.Second)
	ok, _ = limiter.Allow("u|DEFAULT", rule)
	assert.True(t, ok)
	assert.Equal(t, 1, limiter.Prune())

	now = now.Add(bucketIdleTTL + time.Second)
	assert.Equal(t, 0, limiter.Prune())
}
