package handler

import (
	appledger "github.com/finbook/backend/internal/application/ledger"
	"github.com/finbook/backend/internal/domain/shared/valueobject"
	"github.com/finbook/backend/internal/interfaces/http/dto"
	"github.com/finbook/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	BaseHandler
	budgetService *appledger.BudgetService
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(budgetService *appledger.BudgetService) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
	}
}

// Create godoc
// @Summary      Create a budget
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        request body CreateBudgetRequest true "Budget details"
// @Success      201 {object} dto.Response{data=BudgetResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	budget, err := h.budgetService.Create(c.Request.Context(), appledger.CreateBudgetInput{
		OwnerID:   userID,
		Name:      req.Name,
		Amount:    toDecimal(req.Amount),
		Category:  req.Category,
		Currency:  valueobject.Currency(req.Currency),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toBudgetResponse(budget))
}

// Get godoc
// @Summary      Get a budget with its transactions
// @Tags         budgets
// @Produce      json
// @Param        id path string true "Budget ID"
// @Success      200 {object} dto.Response{data=BudgetDetailResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /budgets/{id} [get]
func (h *BudgetHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	detail, err := h.budgetService.Get(c.Request.Context(), userID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toBudgetDetailResponse(detail))
}

// List godoc
// @Summary      List budgets
// @Tags         budgets
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]BudgetResponse}
// @Security     BearerAuth
// @Router       /budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	filter, err := listFilter(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.budgetService.List(c.Request.Context(), appledger.ListBudgetsInput{
		OwnerID: userID,
		Filter:  filter,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toBudgetResponses(result.Budgets), result.Total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a budget
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        id path string true "Budget ID"
// @Param        request body UpdateBudgetRequest true "Budget details"
// @Success      200 {object} dto.Response{data=BudgetResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /budgets/{id} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	budget, err := h.budgetService.Update(c.Request.Context(), appledger.UpdateBudgetInput{
		OwnerID:   userID,
		BudgetID:  uuid.MustParse(uri.ID),
		Name:      req.Name,
		Amount:    toDecimal(req.Amount),
		Category:  req.Category,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toBudgetResponse(budget))
}

// Delete godoc
// @Summary      Delete a budget and its transactions
// @Description  Removes the budget and every transaction linked to it in one unit of work.
// @Tags         budgets
// @Param        id path string true "Budget ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	if err := h.budgetService.Delete(c.Request.Context(), userID, uuid.MustParse(uri.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
