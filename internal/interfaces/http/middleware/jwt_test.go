package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/finbook/backend/internal/infrastructure/auth"
	"github.com/finbook/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func createTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-32-characters-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "finbook-test",
		MaxRefreshCount:        10,
	})
}

func setupProtectedRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/api/v1/users/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c), "email": GetJWTEmail(c)})
	})
	router.POST("/api/v1/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := createTestJWTService()
	userID := uuid.New()

	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: userID,
		Email:  "alice@example.com",
	})
	require.NoError(t, err)

	router := setupProtectedRouter(DefaultJWTConfig(jwtService))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), "alice@example.com")
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	router := setupProtectedRouter(DefaultJWTConfig(createTestJWTService()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_MalformedHeader(t *testing.T) {
	router := setupProtectedRouter(DefaultJWTConfig(createTestJWTService()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Token abc123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_InvalidToken(t *testing.T) {
	router := setupProtectedRouter(DefaultJWTConfig(createTestJWTService()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestJWTAuthMiddleware_RefreshTokenRejectedOnAccessEndpoint(t *testing.T) {
	jwtService := createTestJWTService()

	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: uuid.New(),
		Email:  "alice@example.com",
	})
	require.NoError(t, err)

	router := setupProtectedRouter(DefaultJWTConfig(jwtService))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	router := setupProtectedRouter(DefaultJWTConfig(createTestJWTService()))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_BlacklistedTokenRejected(t *testing.T) {
	jwtService := createTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	userID := uuid.New()

	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: userID,
		Email:  "alice@example.com",
	})
	require.NoError(t, err)

	claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Minute))

	cfg := DefaultJWTConfig(jwtService)
	cfg.TokenBlacklist = blacklist
	router := setupProtectedRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
}

func TestJWTAuthMiddleware_UserInvalidationRejectsOldTokens(t *testing.T) {
	jwtService := createTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	userID := uuid.New()

	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: userID,
		Email:  "alice@example.com",
	})
	require.NoError(t, err)

	// JWT issued-at is second-truncated; a short sleep keeps the
	// invalidation timestamp strictly after it
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, blacklist.AddUserTokensToBlacklist(context.Background(), userID.String(), time.Hour))

	cfg := DefaultJWTConfig(jwtService)
	cfg.TokenBlacklist = blacklist
	router := setupProtectedRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// staticUserVerifier answers every lookup with a fixed result
type staticUserVerifier struct {
	active bool
	err    error
}

func (v staticUserVerifier) IsActiveUser(ctx context.Context, userID string) (bool, error) {
	return v.active, v.err
}

func TestJWTAuthMiddleware_GoneUserRejected(t *testing.T) {
	jwtService := createTestJWTService()

	// The token is perfectly valid; the account behind it is not
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: uuid.New(),
		Email:  "alice@example.com",
	})
	require.NoError(t, err)

	cfg := DefaultJWTConfig(jwtService)
	cfg.UserVerifier = staticUserVerifier{active: false}
	router := setupProtectedRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ACCOUNT_NOT_ACTIVE")
}

func TestJWTAuthMiddleware_UserVerifierFailsOpen(t *testing.T) {
	jwtService := createTestJWTService()

	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: uuid.New(),
		Email:  "alice@example.com",
	})
	require.NoError(t, err)

	// A user store outage must not lock every client out
	cfg := DefaultJWTConfig(jwtService)
	cfg.UserVerifier = staticUserVerifier{err: assert.AnError}
	router := setupProtectedRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_OnErrorCallback(t *testing.T) {
	called := false
	cfg := DefaultJWTConfig(createTestJWTService())
	cfg.OnError = func(c *gin.Context, err error) {
		called = true
		c.AbortWithStatus(http.StatusTeapot)
	}
	router := setupProtectedRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusTeapot, w.Code)
}
