package handler

import (
	"time"

	"github.com/finbook/backend/internal/application/identity"
	"github.com/google/uuid"
)

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Currency string `json:"currency" binding:"omitempty,oneof=USD EUR GBP JPY INR CAD"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents the token refresh request body
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// DeactivateAccountRequest represents the account deactivation request
// body. The current password must be supplied again.
type DeactivateAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest represents the password change request body
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// TokenResponse carries an issued token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// AuthUserResponse carries the authenticated user's profile
type AuthUserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Currency    string     `json:"currency"`
	Timezone    string     `json:"timezone"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token TokenResponse    `json:"token"`
	User  AuthUserResponse `json:"user"`
}

// RefreshTokenResponse is returned by token refresh
type RefreshTokenResponse struct {
	Token TokenResponse `json:"token"`
}

// LogoutResponse is returned by logout
type LogoutResponse struct {
	Message string `json:"message"`
}

func toAuthUserResponse(user identity.UserInfo) AuthUserResponse {
	return AuthUserResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Currency:    string(user.Currency),
		Timezone:    user.Timezone,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

func toAuthResponse(result *identity.AuthResult) AuthResponse {
	return AuthResponse{
		Token: TokenResponse{
			AccessToken:           result.AccessToken,
			RefreshToken:          result.RefreshToken,
			AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
			TokenType:             result.TokenType,
		},
		User: toAuthUserResponse(result.User),
	}
}
