package identity

import (
	"time"

	"github.com/finbook/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// RegisterInput contains the input for account registration
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Currency valueobject.Currency
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult contains tokens and user information returned after
// registration or login
type AuthResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains the user's profile information
type UserInfo struct {
	ID          uuid.UUID
	Name        string
	Email       string
	Currency    valueobject.Currency
	Timezone    string
	LastLoginAt *time.Time
	CreatedAt   time.Time
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout. TokenJTI and
// TokenTTL come from the access token presented with the request.
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TokenTTL time.Duration
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// DeactivateAccountInput contains the input for account deactivation.
// The password is re-checked so a stolen session cannot close the
// account on its own.
type DeactivateAccountInput struct {
	UserID   uuid.UUID
	Password string
}

// UpdateProfileInput contains the input for profile update. Empty
// fields leave the current value untouched.
type UpdateProfileInput struct {
	UserID   uuid.UUID
	Name     string
	Currency valueobject.Currency
	Timezone string
}
