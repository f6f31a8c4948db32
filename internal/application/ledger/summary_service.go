package ledger

import (
	"context"
	"time"

	"github.com/finbook/backend/internal/domain/ledger"
	"github.com/finbook/backend/internal/domain/shared"
	"github.com/finbook/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSummaryTTL is how long a computed monthly summary stays cached.
// Mutations invalidate eagerly, so the TTL only bounds staleness when an
// invalidation was lost.
const DefaultSummaryTTL = 15 * time.Minute

// SummaryService computes monthly summaries from SQL aggregates and
// caches the result per owner and month
type SummaryService struct {
	txRepo       ledger.TransactionRepository
	summaryCache cache.MonthlySummaryCache
	ttl          time.Duration
	logger       *zap.Logger
}

// NewSummaryService creates a new summary service. A non-positive ttl
// falls back to DefaultSummaryTTL.
func NewSummaryService(
	txRepo ledger.TransactionRepository,
	summaryCache cache.MonthlySummaryCache,
	ttl time.Duration,
	logger *zap.Logger,
) *SummaryService {
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}
	return &SummaryService{
		txRepo:       txRepo,
		summaryCache: summaryCache,
		ttl:          ttl,
		logger:       logger,
	}
}

// Monthly returns the owner's summary for one calendar month. The month
// is 1-based and the window is [first of month, first of next month) in
// UTC. Cache errors degrade to a recompute, never to a failure.
func (s *SummaryService) Monthly(ctx context.Context, ownerID uuid.UUID, year, month int) (*ledger.MonthlySummary, error) {
	if month < 1 || month > 12 {
		return nil, ledger.ErrInvalidMonth
	}
	if year < 1 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Year must be a positive number")
	}

	cached, err := s.summaryCache.Get(ctx, ownerID, year, month)
	if err != nil {
		s.logger.Warn("Summary cache read failed",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	summary, err := s.compute(ctx, ownerID, year, month)
	if err != nil {
		s.logger.Error("Failed to compute monthly summary",
			zap.String("owner_id", ownerID.String()),
			zap.Int("year", year),
			zap.Int("month", month),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to compute summary")
	}

	if err := s.summaryCache.Set(ctx, ownerID, *summary, s.ttl); err != nil {
		s.logger.Warn("Summary cache write failed",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err))
	}

	return summary, nil
}

// Overview returns the owner's totals and balance over every recorded
// transaction, future-dated entries included. It is computed fresh on
// every call; only monthly summaries are cached.
func (s *SummaryService) Overview(ctx context.Context, ownerID uuid.UUID) (*ledger.Summary, error) {
	var unbounded time.Time

	income, err := s.txRepo.SumByTypeForOwner(ctx, ownerID, ledger.TransactionTypeIncome, unbounded, unbounded)
	if err != nil {
		s.logger.Error("Failed to compute overview",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to compute summary")
	}
	expense, err := s.txRepo.SumByTypeForOwner(ctx, ownerID, ledger.TransactionTypeExpense, unbounded, unbounded)
	if err != nil {
		s.logger.Error("Failed to compute overview",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to compute summary")
	}

	return &ledger.Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
	}, nil
}

func (s *SummaryService) compute(ctx context.Context, ownerID uuid.UUID, year, month int) (*ledger.MonthlySummary, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	incomeTotal, err := s.txRepo.SumByTypeForOwner(ctx, ownerID, ledger.TransactionTypeIncome, start, end)
	if err != nil {
		return nil, err
	}
	expenseTotal, err := s.txRepo.SumByTypeForOwner(ctx, ownerID, ledger.TransactionTypeExpense, start, end)
	if err != nil {
		return nil, err
	}

	incomeByCategory, err := s.txRepo.SumByCategoryForOwner(ctx, ownerID, ledger.TransactionTypeIncome, start, end)
	if err != nil {
		return nil, err
	}
	expenseByCategory, err := s.txRepo.SumByCategoryForOwner(ctx, ownerID, ledger.TransactionTypeExpense, start, end)
	if err != nil {
		return nil, err
	}

	return &ledger.MonthlySummary{
		Year:  year,
		Month: month,
		Income: ledger.TypeBreakdown{
			Total:      incomeTotal,
			ByCategory: emptyIfNil(incomeByCategory),
		},
		Expense: ledger.TypeBreakdown{
			Total:      expenseTotal,
			ByCategory: emptyIfNil(expenseByCategory),
		},
	}, nil
}

func emptyIfNil(totals []ledger.CategoryTotal) []ledger.CategoryTotal {
	if totals == nil {
		return []ledger.CategoryTotal{}
	}
	return totals
}
