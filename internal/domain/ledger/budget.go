package ledger

import (
	"strings"
	"time"

	"github.com/finbook/backend/internal/domain/shared"
	"github.com/finbook/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	minBudgetNameLength = 2
	maxBudgetNameLength = 100
)

// Budget is a spending envelope for a category over a date range
type Budget struct {
	shared.OwnedAggregateRoot
	Name      string
	Amount    decimal.Decimal
	Category  string
	Currency  valueobject.Currency
	StartDate time.Time
	EndDate   time.Time
}

// NewBudget creates a new budget. The period must be a valid range:
// EndDate strictly after StartDate.
func NewBudget(ownerID uuid.UUID, name string, amount decimal.Decimal, category string, currency valueobject.Currency, startDate, endDate time.Time) (*Budget, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Owner is required")
	}
	name = strings.TrimSpace(name)
	if len(name) < minBudgetNameLength || len(name) > maxBudgetNameLength {
		return nil, shared.NewDomainError("INVALID_INPUT", "Name must be between 2 and 100 characters")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Amount must be a positive number")
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Category is required")
	}
	if len(category) > maxCategoryLength {
		return nil, shared.NewDomainError("INVALID_INPUT", "Category must be at most 50 characters")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unsupported currency")
	}
	if startDate.IsZero() || endDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Start date and end date are required")
	}
	if !endDate.After(startDate) {
		return nil, shared.NewDomainError("INVALID_INPUT", "End date must be after start date")
	}

	return &Budget{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               name,
		Amount:             amount,
		Category:           category,
		Currency:           currency,
		StartDate:          startDate,
		EndDate:            endDate,
	}, nil
}

// Update replaces the mutable fields of the budget
func (b *Budget) Update(name string, amount decimal.Decimal, category string, startDate, endDate time.Time) error {
	name = strings.TrimSpace(name)
	if len(name) < minBudgetNameLength || len(name) > maxBudgetNameLength {
		return shared.NewDomainError("INVALID_INPUT", "Name must be between 2 and 100 characters")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Amount must be a positive number")
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return shared.NewDomainError("INVALID_INPUT", "Category is required")
	}
	if len(category) > maxCategoryLength {
		return shared.NewDomainError("INVALID_INPUT", "Category must be at most 50 characters")
	}
	if startDate.IsZero() || endDate.IsZero() {
		return shared.NewDomainError("INVALID_INPUT", "Start date and end date are required")
	}
	if !endDate.After(startDate) {
		return shared.NewDomainError("INVALID_INPUT", "End date must be after start date")
	}

	b.Name = name
	b.Amount = amount
	b.Category = category
	b.StartDate = startDate
	b.EndDate = endDate
	b.UpdatedAt = time.Now()
	return nil
}

// Contains reports whether the given date falls inside the budget period
func (b *Budget) Contains(date time.Time) bool {
	return !date.Before(b.StartDate) && !date.After(b.EndDate)
}
