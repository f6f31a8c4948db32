package ledger

import (
	"context"
	"errors"

	"github.com/finbook/backend/internal/domain/ledger"
	"github.com/finbook/backend/internal/domain/shared"
	"github.com/finbook/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BudgetService handles budget CRUD for a single owner
type BudgetService struct {
	budgetRepo   ledger.BudgetRepository
	txRepo       ledger.TransactionRepository
	summaryCache cache.MonthlySummaryCache
	logger       *zap.Logger
}

// NewBudgetService creates a new budget service
func NewBudgetService(
	budgetRepo ledger.BudgetRepository,
	txRepo ledger.TransactionRepository,
	summaryCache cache.MonthlySummaryCache,
	logger *zap.Logger,
) *BudgetService {
	return &BudgetService{
		budgetRepo:   budgetRepo,
		txRepo:       txRepo,
		summaryCache: summaryCache,
		logger:       logger,
	}
}

// Create creates a new budget
func (s *BudgetService) Create(ctx context.Context, input CreateBudgetInput) (*ledger.Budget, error) {
	budget, err := ledger.NewBudget(
		input.OwnerID,
		input.Name,
		input.Amount,
		input.Category,
		input.Currency,
		input.StartDate,
		input.EndDate,
	)
	if err != nil {
		return nil, err
	}

	if err := s.budgetRepo.Save(ctx, budget); err != nil {
		s.logger.Error("Failed to save budget", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save budget")
	}

	s.logger.Info("Budget created",
		zap.String("budget_id", budget.ID.String()),
		zap.String("owner_id", input.OwnerID.String()),
		zap.String("category", budget.Category))

	return budget, nil
}

// Get returns one of the owner's budgets together with its linked
// transactions, newest first
func (s *BudgetService) Get(ctx context.Context, ownerID, budgetID uuid.UUID) (*BudgetDetail, error) {
	budget, err := s.budgetRepo.FindByIDForOwner(ctx, ownerID, budgetID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Budget not found")
		}
		s.logger.Error("Failed to load budget", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load budget")
	}

	transactions, err := s.txRepo.FindByBudget(ctx, ownerID, budgetID)
	if err != nil {
		s.logger.Error("Failed to load budget transactions", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load budget")
	}

	spent := decimal.Zero
	for i := range transactions {
		if transactions[i].IsExpense() {
			spent = spent.Add(transactions[i].Amount)
		}
	}

	return &BudgetDetail{
		Budget:       *budget,
		Transactions: transactions,
		Spent:        spent,
	}, nil
}

// List returns a page of the owner's budgets
func (s *BudgetService) List(ctx context.Context, input ListBudgetsInput) (*BudgetList, error) {
	budgets, err := s.budgetRepo.FindAllForOwner(ctx, input.OwnerID, input.Filter)
	if err != nil {
		s.logger.Error("Failed to list budgets", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list budgets")
	}

	total, err := s.budgetRepo.CountForOwner(ctx, input.OwnerID, input.Filter)
	if err != nil {
		s.logger.Error("Failed to count budgets", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list budgets")
	}

	return &BudgetList{Budgets: budgets, Total: total}, nil
}

// Update replaces the budget's mutable fields
func (s *BudgetService) Update(ctx context.Context, input UpdateBudgetInput) (*ledger.Budget, error) {
	budget, err := s.budgetRepo.FindByIDForOwner(ctx, input.OwnerID, input.BudgetID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Budget not found")
		}
		s.logger.Error("Failed to load budget", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load budget")
	}

	if err := budget.Update(input.Name, input.Amount, input.Category, input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	if err := s.budgetRepo.Save(ctx, budget); err != nil {
		s.logger.Error("Failed to save budget", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save budget")
	}

	s.logger.Info("Budget updated",
		zap.String("budget_id", budget.ID.String()),
		zap.String("owner_id", input.OwnerID.String()))

	return budget, nil
}

// Delete removes the budget and every transaction linked to it. The
// transactions are gone, not unlinked, so the owner's summaries change.
func (s *BudgetService) Delete(ctx context.Context, ownerID, budgetID uuid.UUID) error {
	if err := s.budgetRepo.DeleteCascade(ctx, ownerID, budgetID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Budget not found")
		}
		s.logger.Error("Failed to delete budget", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete budget")
	}

	if err := s.summaryCache.InvalidateOwner(ctx, ownerID); err != nil {
		s.logger.Warn("Failed to invalidate summary cache",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err))
	}

	s.logger.Info("Budget deleted",
		zap.String("budget_id", budgetID.String()),
		zap.String("owner_id", ownerID.String()))

	return nil
}
