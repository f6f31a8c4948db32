package handler

import (
	"github.com/finbook/backend/internal/application/identity"
	"github.com/finbook/backend/internal/domain/shared/valueobject"
	"github.com/finbook/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// UserHandler handles profile-related HTTP requests
type UserHandler struct {
	BaseHandler
	userService *identity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identity.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// UpdateProfileRequest represents the profile update request body.
// Omitted fields keep their current value.
type UpdateProfileRequest struct {
	Name     string `json:"name" binding:"omitempty,min=2,max=100"`
	Currency string `json:"currency" binding:"omitempty,oneof=USD EUR GBP JPY INR CAD"`
	Timezone string `json:"timezone" binding:"omitempty,max=64"`
}

// GetProfile godoc
// @Summary      Get current user profile
// @Tags         users
// @Produce      json
// @Success      200 {object} dto.Response{data=AuthUserResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users/me [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAuthUserResponse(*user))
}

// UpdateProfile godoc
// @Summary      Update current user profile
// @Description  Update name, currency and timezone. Omitted fields are left unchanged.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "Profile fields"
// @Success      200 {object} dto.Response{data=AuthUserResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), identity.UpdateProfileInput{
		UserID:   userID,
		Name:     req.Name,
		Currency: valueobject.Currency(req.Currency),
		Timezone: req.Timezone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAuthUserResponse(*user))
}
