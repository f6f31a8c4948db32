package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupSwaggerRouter(cfg SwaggerConfig) *gin.Engine {
	router := gin.New()
	router.GET("/swagger/index.html", SwaggerProtection(cfg, nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestSwaggerProtection_Disabled(t *testing.T) {
	router := setupSwaggerRouter(SwaggerConfig{Enabled: false})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSwaggerProtection_EnabledNoRestrictions(t *testing.T) {
	router := setupSwaggerRouter(SwaggerConfig{Enabled: true})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSwaggerProtection_IPWhitelist(t *testing.T) {
	router := setupSwaggerRouter(SwaggerConfig{
		Enabled:    true,
		AllowedIPs: []string{"10.0.0.0/8"},
	})

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = "10.1.2.3:1234"
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
