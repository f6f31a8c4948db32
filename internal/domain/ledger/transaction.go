package ledger

import (
	"strings"
	"time"

	"github.com/finbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType identifies the direction of a transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// String returns the string representation
func (t TransactionType) String() string {
	return string(t)
}

const (
	maxCategoryLength = 50
	maxNoteLength     = 500
)

// Transaction is a single income or expense entry in a user's ledger
type Transaction struct {
	shared.OwnedAggregateRoot
	BudgetID   *uuid.UUID
	Type       TransactionType
	Amount     decimal.Decimal
	Category   string
	Date       time.Time
	Note       string
	Recurrence *Recurrence
}

// NewTransaction creates a new transaction entry.
// A zero date defaults to the current time.
func NewTransaction(ownerID uuid.UUID, txType TransactionType, amount decimal.Decimal, category string, date time.Time, note string) (*Transaction, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Owner is required")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Type must be 'income' or 'expense'")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Amount must be a positive number")
	}
	category = strings.TrimSpace(category)
	if len(category) > maxCategoryLength {
		return nil, shared.NewDomainError("INVALID_INPUT", "Category must be at most 50 characters")
	}
	if len(note) > maxNoteLength {
		return nil, shared.NewDomainError("INVALID_INPUT", "Note must be at most 500 characters")
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}

	return &Transaction{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Type:               txType,
		Amount:             amount,
		Category:           category,
		Date:               date,
		Note:               note,
	}, nil
}

// Update replaces the mutable fields of the transaction
func (t *Transaction) Update(txType TransactionType, amount decimal.Decimal, category string, date time.Time, note string) error {
	if !txType.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Type must be 'income' or 'expense'")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Amount must be a positive number")
	}
	category = strings.TrimSpace(category)
	if len(category) > maxCategoryLength {
		return shared.NewDomainError("INVALID_INPUT", "Category must be at most 50 characters")
	}
	if len(note) > maxNoteLength {
		return shared.NewDomainError("INVALID_INPUT", "Note must be at most 500 characters")
	}

	t.Type = txType
	t.Amount = amount
	t.Category = category
	if !date.IsZero() {
		t.Date = date
	}
	t.Note = note
	t.UpdatedAt = time.Now()
	return nil
}

// AssignBudget links the transaction to a budget
func (t *Transaction) AssignBudget(budgetID uuid.UUID) {
	t.BudgetID = &budgetID
	t.UpdatedAt = time.Now()
}

// ClearBudget removes the budget link
func (t *Transaction) ClearBudget() {
	t.BudgetID = nil
	t.UpdatedAt = time.Now()
}

// SetRecurrence attaches a recurrence descriptor. The descriptor is
// persisted for future use; nothing in the system executes it.
func (t *Transaction) SetRecurrence(r *Recurrence) error {
	if r != nil && !r.Frequency.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Recurrence frequency must be daily, weekly, monthly or yearly")
	}
	t.Recurrence = r
	t.UpdatedAt = time.Now()
	return nil
}

// IsIncome reports whether this is an income entry
func (t *Transaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}

// IsExpense reports whether this is an expense entry
func (t *Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// SignedAmount returns the amount with expenses negated
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.IsExpense() {
		return t.Amount.Neg()
	}
	return t.Amount
}
