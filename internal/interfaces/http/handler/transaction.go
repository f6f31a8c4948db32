package handler

import (
	"strconv"
	"time"

	appledger "github.com/finbook/backend/internal/application/ledger"
	"github.com/finbook/backend/internal/interfaces/http/dto"
	"github.com/finbook/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	BaseHandler
	txService      *appledger.TransactionService
	summaryService *appledger.SummaryService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(txService *appledger.TransactionService, summaryService *appledger.SummaryService) *TransactionHandler {
	return &TransactionHandler{
		txService:      txService,
		summaryService: summaryService,
	}
}

// Create godoc
// @Summary      Record a transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        request body CreateTransactionRequest true "Transaction details"
// @Success      201 {object} dto.Response{data=TransactionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	budgetID, err := parseOptionalUUID(req.BudgetID)
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	input := appledger.CreateTransactionInput{
		OwnerID:    userID,
		Type:       req.Type,
		Amount:     toDecimal(req.Amount),
		Category:   req.Category,
		Note:       req.Note,
		BudgetID:   budgetID,
		Recurrence: toRecurrenceInput(req.Recurrence),
	}
	if req.Date != nil {
		input.Date = *req.Date
	}

	tx, err := h.txService.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toTransactionResponse(tx))
}

// Get godoc
// @Summary      Get a transaction
// @Tags         transactions
// @Produce      json
// @Param        id path string true "Transaction ID"
// @Success      200 {object} dto.Response{data=TransactionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	tx, err := h.txService.Get(c.Request.Context(), userID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTransactionResponse(tx))
}

// List godoc
// @Summary      List transactions
// @Description  The owner's transactions, newest first, with optional type, category, budget and date-range filters. date_to is exclusive.
// @Tags         transactions
// @Produce      json
// @Param        type query string false "income or expense"
// @Param        category query string false "Category name"
// @Param        budget_id query string false "Budget ID"
// @Param        date_from query string false "Inclusive lower bound (YYYY-MM-DD or RFC3339)"
// @Param        date_to query string false "Exclusive upper bound (YYYY-MM-DD or RFC3339)"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]TransactionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
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

	var req ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if req.Type != "" {
		filter.Filters["type"] = req.Type
	}
	if req.Category != "" {
		filter.Filters["category"] = req.Category
	}
	if req.BudgetID != "" {
		filter.Filters["budget_id"] = req.BudgetID
	}
	if req.DateFrom != "" {
		from, err := parseDate(req.DateFrom)
		if err != nil {
			h.BadRequest(c, "Invalid date_from")
			return
		}
		filter.Filters["date_from"] = from
	}
	if req.DateTo != "" {
		to, err := parseDate(req.DateTo)
		if err != nil {
			h.BadRequest(c, "Invalid date_to")
			return
		}
		filter.Filters["date_to"] = to
	}

	result, err := h.txService.List(c.Request.Context(), appledger.ListTransactionsInput{
		OwnerID: userID,
		Filter:  filter,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toTransactionResponses(result.Transactions), result.Total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a transaction
// @Description  Full replacement of the mutable fields. Omitting budget_id clears the link; omitting recurrence clears the schedule.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID"
// @Param        request body UpdateTransactionRequest true "Transaction details"
// @Success      200 {object} dto.Response{data=TransactionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	budgetID, err := parseOptionalUUID(req.BudgetID)
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	input := appledger.UpdateTransactionInput{
		OwnerID:       userID,
		TransactionID: uuid.MustParse(uri.ID),
		Type:          req.Type,
		Amount:        toDecimal(req.Amount),
		Category:      req.Category,
		Note:          req.Note,
		BudgetID:      budgetID,
		Recurrence:    toRecurrenceInput(req.Recurrence),
	}
	if req.Date != nil {
		input.Date = *req.Date
	}

	tx, err := h.txService.Update(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTransactionResponse(tx))
}

// Delete godoc
// @Summary      Delete a transaction
// @Tags         transactions
// @Param        id path string true "Transaction ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	if err := h.txService.Delete(c.Request.Context(), userID, uuid.MustParse(uri.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Categories godoc
// @Summary      List used category names
// @Tags         transactions
// @Produce      json
// @Success      200 {object} dto.Response{data=[]string}
// @Security     BearerAuth
// @Router       /transactions/categories [get]
func (h *TransactionHandler) Categories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	categories, err := h.txService.Categories(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, categories)
}

// Overview godoc
// @Summary      All-time totals and balance
// @Tags         transactions
// @Produce      json
// @Success      200 {object} dto.Response{data=ledger.Summary}
// @Security     BearerAuth
// @Router       /transactions/summary [get]
func (h *TransactionHandler) Overview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	summary, err := h.summaryService.Overview(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// MonthlySummary godoc
// @Summary      Monthly summary
// @Description  Per-type totals and per-category breakdown for one calendar month. Missing year/month default to the current UTC month.
// @Tags         transactions
// @Produce      json
// @Param        year query int false "Year"
// @Param        month query int false "Month (1-12)"
// @Success      200 {object} dto.Response{data=ledger.MonthlySummary}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/summary/monthly [get]
func (h *TransactionHandler) MonthlySummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	now := time.Now().UTC()
	year := now.Year()
	month := int(now.Month())

	if v := c.Query("year"); v != "" {
		year, err = strconv.Atoi(v)
		if err != nil {
			h.BadRequest(c, "Invalid year")
			return
		}
	}
	if v := c.Query("month"); v != "" {
		month, err = strconv.Atoi(v)
		if err != nil {
			h.BadRequest(c, "Invalid month")
			return
		}
	}

	summary, err := h.summaryService.Monthly(c.Request.Context(), userID, year, month)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

func parseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
