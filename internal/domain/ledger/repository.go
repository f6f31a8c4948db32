package ledger

import (
	"context"
	"time"

	"github.com/finbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRepository defines persistence operations for transactions
type TransactionRepository interface {
	shared.OwnedRepository[Transaction]

	// FindRecentForOwner returns the owner's most recent transactions by
	// date, newest first, capped at limit.
	FindRecentForOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]Transaction, error)

	// FindByBudget returns all transactions linked to a budget, newest first
	FindByBudget(ctx context.Context, ownerID, budgetID uuid.UUID) ([]Transaction, error)

	// DeleteByBudget removes every transaction linked to a budget
	DeleteByBudget(ctx context.Context, ownerID, budgetID uuid.UUID) error

	// SumByTypeForOwner returns the total amount of the owner's
	// transactions of one type inside [from, to). A zero bound leaves
	// that side of the window open.
	SumByTypeForOwner(ctx context.Context, ownerID uuid.UUID, txType TransactionType, from, to time.Time) (decimal.Decimal, error)

	// SumByCategoryForOwner returns per-category totals of one type inside
	// [from, to), ordered by earliest transaction so the grouping is stable
	SumByCategoryForOwner(ctx context.Context, ownerID uuid.UUID, txType TransactionType, from, to time.Time) ([]CategoryTotal, error)

	// DistinctCategoriesForOwner lists the category names the owner has used
	DistinctCategoriesForOwner(ctx context.Context, ownerID uuid.UUID) ([]string, error)
}

// BudgetRepository defines persistence operations for budgets
type BudgetRepository interface {
	shared.OwnedRepository[Budget]

	// DeleteCascade removes the budget and every transaction linked to it
	// as a single unit of work
	DeleteCascade(ctx context.Context, ownerID, budgetID uuid.UUID) error
}
