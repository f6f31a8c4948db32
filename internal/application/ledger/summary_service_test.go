package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finbook/backend/internal/domain/ledger"
	"github.com/finbook/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func createSummaryService(txRepo *MockTransactionRepository) (*SummaryService, *cache.InMemorySummaryCache) {
	summaryCache := cache.NewInMemorySummaryCache()
	return NewSummaryService(txRepo, summaryCache, time.Minute, zap.NewNop()), summaryCache
}

func TestSummaryService_Monthly_Computes(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	txRepo := new(MockTransactionRepository)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	txRepo.On("SumByTypeForOwner", ctx, ownerID, ledger.TransactionTypeIncome, start, end).
		Return(decimal.NewFromInt(5000), nil)
	txRepo.On("SumByTypeForOwner", ctx, ownerID, ledger.TransactionTypeExpense, start, end).
		Return(decimal.NewFromInt(1800), nil)
	txRepo.On("SumByCategoryForOwner", ctx, ownerID, ledger.TransactionTypeIncome, start, end).
		Return([]ledger.CategoryTotal{{Category: "salary", Total: decimal.NewFromInt(5000)}}, nil)
	txRepo.On("SumByCategoryForOwner", ctx, ownerID, ledger.TransactionTypeExpense, start, end).
		Return([]ledger.CategoryTotal{
			{Category: "rent", Total: decimal.NewFromInt(1200)},
			{Category: "food", Total: decimal.NewFromInt(400)},
		}, nil)

	service, _ := createSummaryService(txRepo)

	summary, err := service.Monthly(ctx, ownerID, 2026, 3)

	require.NoError(t, err)
	assert.Equal(t, 2026, summary.Year)
	assert.Equal(t, 3, summary.Month)
	assert.True(t, decimal.NewFromInt(5000).Equal(summary.Income.Total))
	assert.True(t, decimal.NewFromInt(1800).Equal(summary.Expense.Total))
	require.Len(t, summary.Expense.ByCategory, 2)
	// First-seen ordering comes back from the repository
	assert.Equal(t, "rent", summary.Expense.ByCategory[0].Category)
	assert.Equal(t, "food", summary.Expense.ByCategory[1].Category)
}

func TestSummaryService_Monthly_DecemberWindowRollsToJanuary(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	txRepo := new(MockTransactionRepository)

	start := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	txRepo.On("SumByTypeForOwner", ctx, ownerID, mock.Anything, start, end).
		Return(decimal.Zero, nil)
	txRepo.On("SumByCategoryForOwner", ctx, ownerID, mock.Anything, start, end).
		Return([]ledger.CategoryTotal{}, nil)

	service, _ := createSummaryService(txRepo)

	summary, err := service.Monthly(ctx, ownerID, 2026, 12)

	require.NoError(t, err)
	assert.Equal(t, 12, summary.Month)
	txRepo.AssertExpectations(t)
}

func TestSummaryService_Monthly_InvalidMonth(t *testing.T) {
	ctx := context.Background()
	txRepo := new(MockTransactionRepository)

	service, _ := createSummaryService(txRepo)

	for _, month := range []int{0, 13, -1} {
		summary, err := service.Monthly(ctx, uuid.New(), 2026, month)
		require.Error(t, err)
		assert.Nil(t, summary)
		assert.Equal(t, ledger.ErrInvalidMonth, err)
	}
}

func TestSummaryService_Monthly_CacheHitSkipsRepository(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	txRepo := new(MockTransactionRepository)

	service, summaryCache := createSummaryService(txRepo)

	seeded := ledger.MonthlySummary{
		Year:    2026,
		Month:   3,
		Income:  ledger.TypeBreakdown{Total: decimal.NewFromInt(5000), ByCategory: []ledger.CategoryTotal{}},
		Expense: ledger.TypeBreakdown{Total: decimal.NewFromInt(1800), ByCategory: []ledger.CategoryTotal{}},
	}
	require.NoError(t, summaryCache.Set(ctx, ownerID, seeded, time.Hour))

	summary, err := service.Monthly(ctx, ownerID, 2026, 3)

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5000).Equal(summary.Income.Total))
	txRepo.AssertNotCalled(t, "SumByTypeForOwner",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSummaryService_Monthly_PopulatesCache(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	txRepo := new(MockTransactionRepository)

	txRepo.On("SumByTypeForOwner", ctx, ownerID, mock.Anything, mock.Anything, mock.Anything).
		Return(decimal.NewFromInt(100), nil)
	txRepo.On("SumByCategoryForOwner", ctx, ownerID, mock.Anything, mock.Anything, mock.Anything).
		Return([]ledger.CategoryTotal{}, nil)

	service, summaryCache := createSummaryService(txRepo)

	_, err := service.Monthly(ctx, ownerID, 2026, 3)
	require.NoError(t, err)

	cached, err := summaryCache.Get(ctx, ownerID, 2026, 3)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.True(t, decimal.NewFromInt(100).Equal(cached.Income.Total))
}

func TestSummaryService_Overview(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	txRepo := new(MockTransactionRepository)

	// Zero bounds ask the store for the sum over every record, with no
	// cutoff for future-dated entries
	var unbounded time.Time
	txRepo.On("SumByTypeForOwner", ctx, ownerID, ledger.TransactionTypeIncome, unbounded, unbounded).
		Return(decimal.NewFromInt(5000), nil)
	txRepo.On("SumByTypeForOwner", ctx, ownerID, ledger.TransactionTypeExpense, unbounded, unbounded).
		Return(decimal.NewFromInt(1800), nil)

	service, _ := createSummaryService(txRepo)

	overview, err := service.Overview(ctx, ownerID)

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5000).Equal(overview.TotalIncome))
	assert.True(t, decimal.NewFromInt(1800).Equal(overview.TotalExpense))
	assert.True(t, decimal.NewFromInt(3200).Equal(overview.Balance))
}

func TestSummaryService_Monthly_RepositoryError(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	txRepo := new(MockTransactionRepository)

	txRepo.On("SumByTypeForOwner", ctx, ownerID, mock.Anything, mock.Anything, mock.Anything).
		Return(decimal.Zero, errors.New("connection refused"))

	service, _ := createSummaryService(txRepo)

	summary, err := service.Monthly(ctx, ownerID, 2026, 3)

	require.Error(t, err)
	assert.Nil(t, summary)
}
