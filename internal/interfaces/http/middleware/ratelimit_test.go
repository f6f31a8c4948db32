package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)

	assert.True(t, limiter.Allow("client-1"))
	assert.True(t, limiter.Allow("client-1"))
	assert.True(t, limiter.Allow("client-1"))
	assert.False(t, limiter.Allow("client-1"))

	// Independent buckets per key
	assert.True(t, limiter.Allow("client-2"))
}

func TestRateLimiter_WindowReset(t *testing.T) {
	limiter := NewRateLimiter(1, 20*time.Millisecond)

	assert.True(t, limiter.Allow("client-1"))
	assert.False(t, limiter.Allow("client-1"))

	time.Sleep(30 * time.Millisecond)
	assert.True(t, limiter.Allow("client-1"))
}

func TestRateLimiter_Remaining(t *testing.T) {
	limiter := NewRateLimiter(5, time.Minute)

	assert.Equal(t, 5, limiter.Remaining("client-1"))
	limiter.Allow("client-1")
	assert.Equal(t, 4, limiter.Remaining("client-1"))
}

func TestRateLimit_Returns429WhenExhausted(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(NewRateLimiter(2, time.Minute)))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
}

func TestRateLimit_SetsHeaders(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(NewRateLimiter(10, time.Minute)))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitByKey_UsesCustomKey(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	router := gin.New()
	router.Use(RateLimitByKey(limiter, func(c *gin.Context) string {
		return c.ClientIP() + ":" + c.FullPath()
	}))
	router.POST("/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/auth/register", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Different path gets its own bucket
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/register", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
