package handler

import (
	"time"

	appledger "github.com/finbook/backend/internal/application/ledger"
	"github.com/finbook/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecurrenceRequest describes how a transaction should repeat
type RecurrenceRequest struct {
	Frequency string     `json:"frequency" binding:"required,oneof=daily weekly monthly yearly"`
	NextDate  *time.Time `json:"next_date"`
}

// CreateTransactionRequest represents the transaction creation request body
type CreateTransactionRequest struct {
	Type       string             `json:"type" binding:"required,oneof=income expense"`
	Amount     float64            `json:"amount" binding:"required,gt=0"`
	Category   string             `json:"category" binding:"omitempty,max=50"`
	Date       *time.Time         `json:"date"`
	Note       string             `json:"note" binding:"omitempty,max=500"`
	BudgetID   *string            `json:"budget_id" binding:"omitempty,uuid"`
	Recurrence *RecurrenceRequest `json:"recurrence"`
}

// UpdateTransactionRequest replaces a transaction's mutable fields.
// Omitting budget_id clears the budget link; omitting recurrence clears
// the schedule.
type UpdateTransactionRequest struct {
	Type       string             `json:"type" binding:"required,oneof=income expense"`
	Amount     float64            `json:"amount" binding:"required,gt=0"`
	Category   string             `json:"category" binding:"omitempty,max=50"`
	Date       *time.Time         `json:"date"`
	Note       string             `json:"note" binding:"omitempty,max=500"`
	BudgetID   *string            `json:"budget_id" binding:"omitempty,uuid"`
	Recurrence *RecurrenceRequest `json:"recurrence"`
}

// ListTransactionsRequest represents transaction list query parameters
type ListTransactionsRequest struct {
	Type     string `form:"type" binding:"omitempty,oneof=income expense"`
	Category string `form:"category"`
	BudgetID string `form:"budget_id" binding:"omitempty,uuid"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}

// RecurrenceResponse mirrors the stored recurrence descriptor
type RecurrenceResponse struct {
	Frequency string     `json:"frequency"`
	NextDate  *time.Time `json:"next_date,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID         uuid.UUID           `json:"id"`
	BudgetID   *uuid.UUID          `json:"budget_id,omitempty"`
	Type       string              `json:"type"`
	Amount     decimal.Decimal     `json:"amount"`
	Category   string              `json:"category,omitempty"`
	Date       time.Time           `json:"date"`
	Note       string              `json:"note,omitempty"`
	Recurrence *RecurrenceResponse `json:"recurrence,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

func toTransactionResponse(tx *ledger.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:        tx.ID,
		BudgetID:  tx.BudgetID,
		Type:      tx.Type.String(),
		Amount:    tx.Amount,
		Category:  tx.Category,
		Date:      tx.Date,
		Note:      tx.Note,
		CreatedAt: tx.CreatedAt,
		UpdatedAt: tx.UpdatedAt,
	}
	if tx.Recurrence != nil {
		resp.Recurrence = &RecurrenceResponse{
			Frequency: tx.Recurrence.Frequency.String(),
			NextDate:  tx.Recurrence.NextDate,
		}
	}
	return resp
}

func toTransactionResponses(txs []ledger.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txs))
	for i := range txs {
		out[i] = toTransactionResponse(&txs[i])
	}
	return out
}

func toRecurrenceInput(req *RecurrenceRequest) *appledger.RecurrenceInput {
	if req == nil {
		return nil
	}
	return &appledger.RecurrenceInput{
		Frequency: req.Frequency,
		NextDate:  req.NextDate,
	}
}
