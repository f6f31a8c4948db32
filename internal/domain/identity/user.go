package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/finbook/backend/internal/domain/shared"
	"github.com/finbook/backend/internal/domain/shared/valueobject"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusDeactivated UserStatus = "deactivated"
)

// Password cost for bcrypt
const bcryptCost = 12

const (
	minNameLength = 2
	maxNameLength = 50
)

// User is the aggregate root for account operations. Accounts are keyed
// by email; the email is stored lowercased.
type User struct {
	shared.BaseAggregateRoot
	Name         string
	Email        string
	PasswordHash string
	Currency     valueobject.Currency
	Timezone     string
	Status       UserStatus
	LastLoginAt  *time.Time
}

// NewUser creates a new active user account
func NewUser(name, email, password string, currency valueobject.Currency) (*User, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Unsupported currency")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:      passwordHash,
		Currency:          currency,
		Timezone:          "UTC",
		Status:            UserStatusActive,
	}

	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// UpdateProfile changes the user's name, currency and timezone.
// Empty values leave the current setting untouched.
func (u *User) UpdateProfile(name string, currency valueobject.Currency, timezone string) error {
	if name != "" {
		if err := validateName(name); err != nil {
			return err
		}
		u.Name = strings.TrimSpace(name)
	}
	if currency != "" {
		if !currency.IsValid() {
			return shared.NewDomainError("INVALID_CURRENCY", "Unsupported currency")
		}
		u.Currency = currency
	}
	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			return shared.NewDomainError("INVALID_TIMEZONE", "Unknown timezone")
		}
		u.Timezone = timezone
	}

	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// ChangePassword changes the user's password after verifying the old one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password without checking the old one
func (u *User) SetPassword(newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	u.AddDomainEvent(NewUserPasswordChangedEvent(u))

	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// RecordLoginSuccess records a successful login
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
	u.IncrementVersion()
}

// Deactivate deactivates the account
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "User is already deactivated")
	}
	u.Status = UserStatusDeactivated
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// IsActive returns true if the account can log in
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// Validation functions

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < minNameLength || len(name) > maxNameLength {
		return shared.NewDomainError("INVALID_NAME", "Name must be between 2 and 50 characters")
	}
	return nil
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 254 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

// ValidatePassword enforces the account password policy: at least 8
// characters with an uppercase letter, a lowercase letter, a digit and a
// symbol.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain uppercase, lowercase, number, and special character")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
