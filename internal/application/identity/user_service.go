package identity

import (
	"context"

	"github.com/finbook/backend/internal/domain/identity"
	"github.com/finbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles profile operations
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetProfile returns the user's profile
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	info := toUserInfo(user)
	return &info, nil
}

// UpdateProfile updates the user's name, currency and timezone. The
// email address is fixed at registration and cannot be changed here.
func (s *UserService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.UpdateProfile(input.Name, input.Currency, input.Timezone); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save profile update",
			zap.String("user_id", input.UserID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update profile")
	}

	s.logger.Info("User profile updated", zap.String("user_id", input.UserID.String()))

	info := toUserInfo(user)
	return &info, nil
}
