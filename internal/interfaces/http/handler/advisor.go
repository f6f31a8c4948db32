package handler

import (
	appadvisor "github.com/finbook/backend/internal/application/advisor"
	"github.com/finbook/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AdvisorHandler handles AI advisor HTTP requests
type AdvisorHandler struct {
	BaseHandler
	advisorService *appadvisor.AdvisorService
}

// NewAdvisorHandler creates a new advisor handler
func NewAdvisorHandler(advisorService *appadvisor.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{
		advisorService: advisorService,
	}
}

// ChatRequest represents the advisor chat request body
type ChatRequest struct {
	Message string `json:"message" binding:"required,max=2000"`
}

// ChatResponse carries the advisor's reply
type ChatResponse struct {
	Reply string `json:"reply"`
}

// Chat godoc
// @Summary      Ask the finance advisor
// @Description  Sends one message to the advisor together with a snapshot of the user's ledger. No conversation state is kept server-side.
// @Tags         advisor
// @Accept       json
// @Produce      json
// @Param        request body ChatRequest true "User message"
// @Success      200 {object} dto.Response{data=ChatResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ai/chat [post]
func (h *AdvisorHandler) Chat(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.advisorService.Chat(c.Request.Context(), appadvisor.ChatInput{
		OwnerID: userID,
		Message: req.Message,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ChatResponse{Reply: result.Reply})
}
