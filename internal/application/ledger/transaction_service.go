package ledger

import (
	"context"
	"errors"

	"github.com/finbook/backend/internal/domain/ledger"
	"github.com/finbook/backend/internal/domain/shared"
	"github.com/finbook/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TransactionService handles transaction CRUD for a single owner.
// Every mutation drops the owner's cached summaries.
type TransactionService struct {
	txRepo       ledger.TransactionRepository
	budgetRepo   ledger.BudgetRepository
	summaryCache cache.MonthlySummaryCache
	logger       *zap.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	txRepo ledger.TransactionRepository,
	budgetRepo ledger.BudgetRepository,
	summaryCache cache.MonthlySummaryCache,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		txRepo:       txRepo,
		budgetRepo:   budgetRepo,
		summaryCache: summaryCache,
		logger:       logger,
	}
}

// Create records a new transaction
func (s *TransactionService) Create(ctx context.Context, input CreateTransactionInput) (*ledger.Transaction, error) {
	tx, err := ledger.NewTransaction(
		input.OwnerID,
		ledger.TransactionType(input.Type),
		input.Amount,
		input.Category,
		input.Date,
		input.Note,
	)
	if err != nil {
		return nil, err
	}

	if input.BudgetID != nil {
		if err := s.linkBudget(ctx, tx, *input.BudgetID); err != nil {
			return nil, err
		}
	}

	if input.Recurrence != nil {
		recurrence, err := ledger.NewRecurrence(
			ledger.RecurrenceFrequency(input.Recurrence.Frequency),
			input.Recurrence.NextDate,
		)
		if err != nil {
			return nil, err
		}
		if err := tx.SetRecurrence(recurrence); err != nil {
			return nil, err
		}
	}

	categoryRef := s.classifyCategory(ctx, input.OwnerID, input.Category)

	if err := s.txRepo.Save(ctx, tx); err != nil {
		s.logger.Error("Failed to save transaction", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save transaction")
	}

	s.invalidateSummaries(ctx, input.OwnerID)

	if categoryRef.IsNew() {
		s.logger.Info("Category introduced",
			zap.String("owner_id", input.OwnerID.String()),
			zap.String("category", categoryRef.Name()))
	}

	s.logger.Info("Transaction created",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("owner_id", input.OwnerID.String()),
		zap.String("type", tx.Type.String()))

	return tx, nil
}

// Get returns one of the owner's transactions
func (s *TransactionService) Get(ctx context.Context, ownerID, transactionID uuid.UUID) (*ledger.Transaction, error) {
	tx, err := s.txRepo.FindByIDForOwner(ctx, ownerID, transactionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Transaction not found")
		}
		s.logger.Error("Failed to load transaction", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load transaction")
	}
	return tx, nil
}

// List returns a page of the owner's transactions, newest first unless
// the filter orders otherwise
func (s *TransactionService) List(ctx context.Context, input ListTransactionsInput) (*TransactionList, error) {
	transactions, err := s.txRepo.FindAllForOwner(ctx, input.OwnerID, input.Filter)
	if err != nil {
		s.logger.Error("Failed to list transactions", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list transactions")
	}

	total, err := s.txRepo.CountForOwner(ctx, input.OwnerID, input.Filter)
	if err != nil {
		s.logger.Error("Failed to count transactions", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list transactions")
	}

	return &TransactionList{Transactions: transactions, Total: total}, nil
}

// Update replaces the transaction's mutable fields
func (s *TransactionService) Update(ctx context.Context, input UpdateTransactionInput) (*ledger.Transaction, error) {
	tx, err := s.txRepo.FindByIDForOwner(ctx, input.OwnerID, input.TransactionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Transaction not found")
		}
		s.logger.Error("Failed to load transaction", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load transaction")
	}

	if err := tx.Update(
		ledger.TransactionType(input.Type),
		input.Amount,
		input.Category,
		input.Date,
		input.Note,
	); err != nil {
		return nil, err
	}

	if input.BudgetID != nil {
		if err := s.linkBudget(ctx, tx, *input.BudgetID); err != nil {
			return nil, err
		}
	} else {
		tx.ClearBudget()
	}

	if input.Recurrence != nil {
		recurrence, err := ledger.NewRecurrence(
			ledger.RecurrenceFrequency(input.Recurrence.Frequency),
			input.Recurrence.NextDate,
		)
		if err != nil {
			return nil, err
		}
		if err := tx.SetRecurrence(recurrence); err != nil {
			return nil, err
		}
	} else {
		if err := tx.SetRecurrence(nil); err != nil {
			return nil, err
		}
	}

	if err := s.txRepo.Save(ctx, tx); err != nil {
		s.logger.Error("Failed to save transaction", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save transaction")
	}

	s.invalidateSummaries(ctx, input.OwnerID)

	s.logger.Info("Transaction updated",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("owner_id", input.OwnerID.String()))

	return tx, nil
}

// Delete removes one of the owner's transactions
func (s *TransactionService) Delete(ctx context.Context, ownerID, transactionID uuid.UUID) error {
	// Scope the lookup to the owner so deleting someone else's entry
	// reads as not found
	if _, err := s.txRepo.FindByIDForOwner(ctx, ownerID, transactionID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Transaction not found")
		}
		s.logger.Error("Failed to load transaction", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete transaction")
	}

	if err := s.txRepo.Delete(ctx, transactionID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Transaction not found")
		}
		s.logger.Error("Failed to delete transaction", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete transaction")
	}

	s.invalidateSummaries(ctx, ownerID)

	s.logger.Info("Transaction deleted",
		zap.String("transaction_id", transactionID.String()),
		zap.String("owner_id", ownerID.String()))

	return nil
}

// Categories lists the category names the owner has used so far
func (s *TransactionService) Categories(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	categories, err := s.txRepo.DistinctCategoriesForOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("Failed to list categories", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list categories")
	}
	return categories, nil
}

// classifyCategory resolves the category name against the ones the owner
// already uses. The result only drives logging, so lookup failures
// degrade to a zero reference.
func (s *TransactionService) classifyCategory(ctx context.Context, ownerID uuid.UUID, category string) ledger.CategoryRef {
	if category == "" {
		return ledger.CategoryRef{}
	}

	known, err := s.txRepo.DistinctCategoriesForOwner(ctx, ownerID)
	if err != nil {
		return ledger.CategoryRef{}
	}

	ref, err := ledger.ResolveCategory(category, known)
	if err != nil {
		return ledger.CategoryRef{}
	}
	return ref
}

func (s *TransactionService) linkBudget(ctx context.Context, tx *ledger.Transaction, budgetID uuid.UUID) error {
	budget, err := s.budgetRepo.FindByIDForOwner(ctx, tx.OwnerID, budgetID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Budget not found")
		}
		s.logger.Error("Failed to load budget", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to load budget")
	}
	tx.AssignBudget(budget.ID)
	return nil
}

// invalidateSummaries drops the owner's cached summaries. A failure here
// only means a stale read until the TTL expires, so it is not fatal.
func (s *TransactionService) invalidateSummaries(ctx context.Context, ownerID uuid.UUID) {
	if err := s.summaryCache.InvalidateOwner(ctx, ownerID); err != nil {
		s.logger.Warn("Failed to invalidate summary cache",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err))
	}
}
