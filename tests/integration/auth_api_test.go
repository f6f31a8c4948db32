package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthAPI_RegisterAndLogin(t *testing.T) {
	ts := NewAPITestServer(t)

	user := ts.RegisterUser(t, "Alice Doe", "alice@example.com", "Password123!")
	assert.NotEmpty(t, user.AccessToken)
	assert.NotEmpty(t, user.RefreshToken)
	assert.Equal(t, "alice@example.com", user.Email)

	t.Run("duplicate email is rejected", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/register", map[string]string{
			"name":     "Alice Again",
			"email":    "alice@example.com",
			"password": "Password123!",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_ALREADY_EXISTS")
	})

	t.Run("login with valid credentials", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    "alice@example.com",
			"password": "Password123!",
		})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "access_token")
	})

	t.Run("login with wrong password", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    "alice@example.com",
			"password": "WrongPassword1!",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid email or password")
	})

	t.Run("access token opens protected routes", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/users/me", nil, user.AccessToken)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "alice@example.com")
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/users/me", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthAPI_RefreshToken(t *testing.T) {
	ts := NewAPITestServer(t)
	user := ts.RegisterUser(t, "Bob Smith", "bob@example.com", "Password123!")

	t.Run("refresh issues a new pair", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/refresh", map[string]string{
			"refresh_token": user.RefreshToken,
		})

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Token struct {
				AccessToken  string `json:"access_token"`
				RefreshToken string `json:"refresh_token"`
			} `json:"token"`
		}
		decodeData(t, w, &resp)
		assert.NotEmpty(t, resp.Token.AccessToken)
		assert.NotEmpty(t, resp.Token.RefreshToken)

		me := ts.Request(http.MethodGet, "/api/v1/users/me", nil, resp.Token.AccessToken)
		assert.Equal(t, http.StatusOK, me.Code)
	})

	t.Run("garbage refresh token is rejected", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/refresh", map[string]string{
			"refresh_token": "not-a-real-token",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthAPI_Logout(t *testing.T) {
	ts := NewAPITestServer(t)
	user := ts.RegisterUser(t, "Carol Jones", "carol@example.com", "Password123!")

	w := ts.Request(http.MethodPost, "/api/v1/auth/logout", nil, user.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	// The revoked token must no longer open protected routes
	me := ts.Request(http.MethodGet, "/api/v1/users/me", nil, user.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, me.Code)
}

func TestAuthAPI_ChangePassword(t *testing.T) {
	ts := NewAPITestServer(t)
	user := ts.RegisterUser(t, "Dave Miller", "dave@example.com", "Password123!")

	w := ts.Request(http.MethodPost, "/api/v1/auth/change-password", map[string]string{
		"old_password": "Password123!",
		"new_password": "NewPassword456!",
	}, user.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, "change password failed: %s", w.Body.String())

	t.Run("old password no longer works", func(t *testing.T) {
		login := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    "dave@example.com",
			"password": "Password123!",
		})

		assert.Equal(t, http.StatusUnauthorized, login.Code)
	})

	t.Run("new password works", func(t *testing.T) {
		login := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    "dave@example.com",
			"password": "NewPassword456!",
		})

		assert.Equal(t, http.StatusOK, login.Code)
	})
}

func TestAuthAPI_DeactivateAccount(t *testing.T) {
	ts := NewAPITestServer(t)
	user := ts.RegisterUser(t, "Frank Young", "frank@example.com", "Password123!")

	t.Run("wrong password keeps the account open", func(t *testing.T) {
		w := ts.Request(http.MethodDelete, "/api/v1/users/me", map[string]string{
			"password": "WrongPassword1!",
		}, user.AccessToken)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Password is incorrect")

		me := ts.Request(http.MethodGet, "/api/v1/users/me", nil, user.AccessToken)
		assert.Equal(t, http.StatusOK, me.Code)
	})

	w := ts.Request(http.MethodDelete, "/api/v1/users/me", map[string]string{
		"password": "Password123!",
	}, user.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, "deactivation failed: %s", w.Body.String())

	t.Run("existing token no longer opens protected routes", func(t *testing.T) {
		me := ts.Request(http.MethodGet, "/api/v1/users/me", nil, user.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, me.Code)
	})

	t.Run("login is refused for the deactivated account", func(t *testing.T) {
		login := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    "frank@example.com",
			"password": "Password123!",
		})

		assert.Equal(t, http.StatusForbidden, login.Code)
		assert.Contains(t, login.Body.String(), "Account has been deactivated")
	})
}

func TestAuthAPI_ProfileUpdate(t *testing.T) {
	ts := NewAPITestServer(t)
	user := ts.RegisterUser(t, "Eve Walker", "eve@example.com", "Password123!")

	w := ts.Request(http.MethodPut, "/api/v1/users/me", map[string]string{
		"name":     "Eve W. Walker",
		"currency": "EUR",
		"timezone": "Europe/Berlin",
	}, user.AccessToken)

	require.Equal(t, http.StatusOK, w.Code, "profile update failed: %s", w.Body.String())

	me := ts.Request(http.MethodGet, "/api/v1/users/me", nil, user.AccessToken)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), "Eve W. Walker")
	assert.Contains(t, me.Body.String(), "EUR")
	assert.Contains(t, me.Body.String(), "Europe/Berlin")
}
