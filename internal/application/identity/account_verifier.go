package identity

import (
	"context"
	"errors"

	"github.com/finbook/backend/internal/domain/identity"
	"github.com/finbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountVerifier answers the auth middleware's question of whether the
// account behind a validated token still exists and is active. Without
// it a token would keep working for its full TTL after the account is
// deleted or deactivated.
type AccountVerifier struct {
	userRepo identity.UserRepository
}

// NewAccountVerifier creates a new account verifier
func NewAccountVerifier(userRepo identity.UserRepository) *AccountVerifier {
	return &AccountVerifier{userRepo: userRepo}
}

// IsActiveUser reports whether the user exists and has not been
// deactivated. A malformed or unknown ID reads as not active; only a
// store failure is an error.
func (v *AccountVerifier) IsActiveUser(ctx context.Context, userID string) (bool, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return false, nil
	}

	user, err := v.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return user.IsActive(), nil
}
