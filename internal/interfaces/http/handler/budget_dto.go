package handler

import (
	"time"

	appledger "github.com/finbook/backend/internal/application/ledger"
	"github.com/finbook/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest represents the budget creation request body
type CreateBudgetRequest struct {
	Name      string    `json:"name" binding:"required,min=2,max=100"`
	Amount    float64   `json:"amount" binding:"required,gt=0"`
	Category  string    `json:"category" binding:"required,max=50"`
	Currency  string    `json:"currency" binding:"omitempty,oneof=USD EUR GBP JPY INR CAD"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// UpdateBudgetRequest replaces a budget's mutable fields
type UpdateBudgetRequest struct {
	Name      string    `json:"name" binding:"required,min=2,max=100"`
	Amount    float64   `json:"amount" binding:"required,gt=0"`
	Category  string    `json:"category" binding:"required,max=50"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Currency  string          `json:"currency"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BudgetDetailResponse is a budget with its linked transactions
type BudgetDetailResponse struct {
	Budget       BudgetResponse        `json:"budget"`
	Transactions []TransactionResponse `json:"transactions"`
	Spent        decimal.Decimal       `json:"spent"`
}

func toBudgetResponse(b *ledger.Budget) BudgetResponse {
	return BudgetResponse{
		ID:        b.ID,
		Name:      b.Name,
		Amount:    b.Amount,
		Category:  b.Category,
		Currency:  string(b.Currency),
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func toBudgetResponses(budgets []ledger.Budget) []BudgetResponse {
	out := make([]BudgetResponse, len(budgets))
	for i := range budgets {
		out[i] = toBudgetResponse(&budgets[i])
	}
	return out
}

func toBudgetDetailResponse(detail *appledger.BudgetDetail) BudgetDetailResponse {
	return BudgetDetailResponse{
		Budget:       toBudgetResponse(&detail.Budget),
		Transactions: toTransactionResponses(detail.Transactions),
		Spent:        detail.Spent,
	}
}
