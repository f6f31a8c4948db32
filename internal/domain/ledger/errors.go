package ledger

import "github.com/finbook/backend/internal/domain/shared"

// Ledger-specific domain errors
var (
	ErrInvalidRecurrence = shared.NewDomainError("INVALID_INPUT", "Recurrence frequency must be daily, weekly, monthly or yearly")
	ErrInvalidMonth      = shared.NewDomainError("INVALID_INPUT", "Month must be between 1 and 12")
	ErrBudgetNotOwned    = shared.NewDomainError("NOT_FOUND", "Budget not found")
)
