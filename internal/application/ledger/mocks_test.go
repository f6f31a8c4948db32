package ledger

import (
	"context"
	"time"

	"github.com/finbook/backend/internal/domain/ledger"
	"github.com/finbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockTransactionRepository is a mock implementation of ledger.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*ledger.Transaction, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.Transaction, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]ledger.Transaction, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) FindRecentForOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]ledger.Transaction, error) {
	args := m.Called(ctx, ownerID, limit)
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByBudget(ctx context.Context, ownerID, budgetID uuid.UUID) ([]ledger.Transaction, error) {
	args := m.Called(ctx, ownerID, budgetID)
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) DeleteByBudget(ctx context.Context, ownerID, budgetID uuid.UUID) error {
	args := m.Called(ctx, ownerID, budgetID)
	return args.Error(0)
}

func (m *MockTransactionRepository) SumByTypeForOwner(ctx context.Context, ownerID uuid.UUID, txType ledger.TransactionType, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, ownerID, txType, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) SumByCategoryForOwner(ctx context.Context, ownerID uuid.UUID, txType ledger.TransactionType, from, to time.Time) ([]ledger.CategoryTotal, error) {
	args := m.Called(ctx, ownerID, txType, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.CategoryTotal), args.Error(1)
}

func (m *MockTransactionRepository) DistinctCategoriesForOwner(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTransactionRepository) Save(ctx context.Context, tx *ledger.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockBudgetRepository is a mock implementation of ledger.BudgetRepository
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Budget, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*ledger.Budget, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.Budget, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ledger.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]ledger.Budget, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]ledger.Budget), args.Error(1)
}

func (m *MockBudgetRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBudgetRepository) DeleteCascade(ctx context.Context, ownerID, budgetID uuid.UUID) error {
	args := m.Called(ctx, ownerID, budgetID)
	return args.Error(0)
}

func (m *MockBudgetRepository) Save(ctx context.Context, budget *ledger.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBudgetRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// Interface compliance checks for the mocks
var (
	_ ledger.TransactionRepository = (*MockTransactionRepository)(nil)
	_ ledger.BudgetRepository      = (*MockBudgetRepository)(nil)
)
