package ledger

import (
	"time"

	"github.com/finbook/backend/internal/domain/ledger"
	"github.com/finbook/backend/internal/domain/shared"
	"github.com/finbook/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecurrenceInput describes how a transaction would repeat
type RecurrenceInput struct {
	Frequency string
	NextDate  *time.Time
}

// CreateTransactionInput contains the input for creating a transaction
type CreateTransactionInput struct {
	OwnerID    uuid.UUID
	Type       string
	Amount     decimal.Decimal
	Category   string
	Date       time.Time
	Note       string
	BudgetID   *uuid.UUID
	Recurrence *RecurrenceInput
}

// UpdateTransactionInput replaces a transaction's mutable fields. A nil
// BudgetID clears the budget link; a nil Recurrence clears the schedule.
type UpdateTransactionInput struct {
	OwnerID       uuid.UUID
	TransactionID uuid.UUID
	Type          string
	Amount        decimal.Decimal
	Category      string
	Date          time.Time
	Note          string
	BudgetID      *uuid.UUID
	Recurrence    *RecurrenceInput
}

// ListTransactionsInput contains the input for listing transactions
type ListTransactionsInput struct {
	OwnerID uuid.UUID
	Filter  shared.Filter
}

// TransactionList is a page of transactions with the total match count
type TransactionList struct {
	Transactions []ledger.Transaction
	Total        int64
}

// CreateBudgetInput contains the input for creating a budget
type CreateBudgetInput struct {
	OwnerID   uuid.UUID
	Name      string
	Amount    decimal.Decimal
	Category  string
	Currency  valueobject.Currency
	StartDate time.Time
	EndDate   time.Time
}

// UpdateBudgetInput replaces a budget's mutable fields
type UpdateBudgetInput struct {
	OwnerID   uuid.UUID
	BudgetID  uuid.UUID
	Name      string
	Amount    decimal.Decimal
	Category  string
	StartDate time.Time
	EndDate   time.Time
}

// ListBudgetsInput contains the input for listing budgets
type ListBudgetsInput struct {
	OwnerID uuid.UUID
	Filter  shared.Filter
}

// BudgetList is a page of budgets with the total match count
type BudgetList struct {
	Budgets []ledger.Budget
	Total   int64
}

// BudgetDetail is a budget together with its linked transactions and the
// amount they add up to
type BudgetDetail struct {
	Budget       ledger.Budget
	Transactions []ledger.Transaction
	Spent        decimal.Decimal
}
