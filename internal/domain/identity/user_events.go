package identity

import (
	"github.com/finbook/backend/internal/domain/shared"
)

// Event types for the identity domain
const (
	EventTypeUserRegistered      = "identity.user.registered"
	EventTypeUserPasswordChanged = "identity.user.password_changed"
)

// UserRegisteredEvent is raised when a new account is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserRegisteredEvent creates a new user registered event
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, "User", user.ID, user.ID),
		Email:           user.Email,
	}
}

// UserPasswordChangedEvent is raised when a password is changed
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
}

// NewUserPasswordChangedEvent creates a new password changed event
func NewUserPasswordChangedEvent(user *User) *UserPasswordChangedEvent {
	return &UserPasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPasswordChanged, "User", user.ID, user.ID),
	}
}
