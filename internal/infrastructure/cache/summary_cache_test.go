package cache

import (
	"context"
	"testing"
	"time"

	"github.com/finbook/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSummary(year, month int) ledger.MonthlySummary {
	return ledger.MonthlySummary{
		Year:  year,
		Month: month,
		Income: ledger.TypeBreakdown{
			Total: decimal.NewFromInt(1000),
			ByCategory: []ledger.CategoryTotal{
				{Category: "salary", Total: decimal.NewFromInt(1000)},
			},
		},
		Expense: ledger.TypeBreakdown{
			Total:      decimal.NewFromInt(250),
			ByCategory: []ledger.CategoryTotal{},
		},
	}
}

func TestInMemorySummaryCache_GetSet(t *testing.T) {
	c := NewInMemorySummaryCache()
	ctx := context.Background()
	ownerID := uuid.New()

	// Miss before set
	got, err := c.Get(ctx, ownerID, 2026, 3)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, ownerID, testSummary(2026, 3), time.Minute))

	got, err = c.Get(ctx, ownerID, 2026, 3)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2026, got.Year)
	assert.Equal(t, 3, got.Month)
	assert.True(t, got.Income.Total.Equal(decimal.NewFromInt(1000)))
}

func TestInMemorySummaryCache_Expiration(t *testing.T) {
	c := NewInMemorySummaryCache()
	ctx := context.Background()
	ownerID := uuid.New()

	require.NoError(t, c.Set(ctx, ownerID, testSummary(2026, 3), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	got, err := c.Get(ctx, ownerID, 2026, 3)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInMemorySummaryCache_InvalidateOwner(t *testing.T) {
	c := NewInMemorySummaryCache()
	ctx := context.Background()
	owner1 := uuid.New()
	owner2 := uuid.New()

	require.NoError(t, c.Set(ctx, owner1, testSummary(2026, 2), time.Minute))
	require.NoError(t, c.Set(ctx, owner1, testSummary(2026, 3), time.Minute))
	require.NoError(t, c.Set(ctx, owner2, testSummary(2026, 3), time.Minute))

	require.NoError(t, c.InvalidateOwner(ctx, owner1))

	got, err := c.Get(ctx, owner1, 2026, 2)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = c.Get(ctx, owner1, 2026, 3)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Other owners keep their entries
	got, err = c.Get(ctx, owner2, 2026, 3)
	require.NoError(t, err)
	assert.NotNil(t, got)
}
