package handler

import (
	"context"
	"time"

	"github.com/finbook/backend/internal/domain/identity"
	"github.com/finbook/backend/internal/domain/ledger"
	"github.com/finbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository implements identity.UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ identity.UserRepository = (*MockUserRepository)(nil)

// MockTransactionRepository implements ledger.TransactionRepository for testing
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

func (m *MockTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Transaction), args.Error(1)
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

func (m *MockTransactionRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*ledger.Transaction, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]ledger.Transaction, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) FindRecentForOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]ledger.Transaction, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByBudget(ctx context.Context, ownerID, budgetID uuid.UUID) ([]ledger.Transaction, error) {
	args := m.Called(ctx, ownerID, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

var _ ledger.TransactionRepository = (*MockTransactionRepository)(nil)

// MockBudgetRepository implements ledger.BudgetRepository for testing
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

func (m *MockBudgetRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.Budget, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Budget), args.Error(1)
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

func (m *MockBudgetRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*ledger.Budget, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]ledger.Budget, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

var _ ledger.BudgetRepository = (*MockBudgetRepository)(nil)
