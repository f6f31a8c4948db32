package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary holds overall totals for a set of transactions
type Summary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
}

// CategoryTotal is one category's contribution to a breakdown.
// Categories are listed in the order they were first seen.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// TypeBreakdown is the per-type part of a monthly summary. Uncategorized
// transactions count toward Total but get no ByCategory entry.
type TypeBreakdown struct {
	Total      decimal.Decimal `json:"total"`
	ByCategory []CategoryTotal `json:"by_category"`
}

// MonthlySummary groups one month's transactions by type and category
type MonthlySummary struct {
	Year    int           `json:"year"`
	Month   int           `json:"month"`
	Income  TypeBreakdown `json:"income"`
	Expense TypeBreakdown `json:"expense"`
}

// FilterCriteria selects transactions by exact field match. Zero-value
// fields are ignored, so criteria compose: every set field must match.
type FilterCriteria struct {
	Type     TransactionType
	Category string
	Date     time.Time
}

// Summarize computes overall totals. Balance is income minus expense.
func Summarize(txs []Transaction) Summary {
	income := decimal.Zero
	expense := decimal.Zero
	for i := range txs {
		switch txs[i].Type {
		case TransactionTypeIncome:
			income = income.Add(txs[i].Amount)
		case TransactionTypeExpense:
			expense = expense.Add(txs[i].Amount)
		}
	}
	return Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
	}
}

// MonthlyBreakdown groups the transactions of one calendar month by type
// and category. month is 1-based; the window is the half-open interval
// [first of month, first of next month) in UTC, so December rolls into
// January of the following year.
func MonthlyBreakdown(txs []Transaction, year, month int) (MonthlySummary, error) {
	if month < 1 || month > 12 {
		return MonthlySummary{}, ErrInvalidMonth
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	result := MonthlySummary{
		Year:    year,
		Month:   month,
		Income:  newTypeBreakdown(),
		Expense: newTypeBreakdown(),
	}

	for i := range txs {
		d := txs[i].Date
		if d.Before(start) || !d.Before(end) {
			continue
		}
		switch txs[i].Type {
		case TransactionTypeIncome:
			result.Income.add(txs[i].Category, txs[i].Amount)
		case TransactionTypeExpense:
			result.Expense.add(txs[i].Category, txs[i].Amount)
		}
	}

	return result, nil
}

// FilterByCriteria returns the transactions matching every set criterion.
// Type and Category match exactly; Date matches by calendar day in UTC.
// Zero-value criteria are a no-op: an empty criteria returns everything.
func FilterByCriteria(txs []Transaction, criteria FilterCriteria) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for i := range txs {
		if criteria.Type != "" && txs[i].Type != criteria.Type {
			continue
		}
		if criteria.Category != "" && txs[i].Category != criteria.Category {
			continue
		}
		if !criteria.Date.IsZero() && !sameDay(txs[i].Date, criteria.Date) {
			continue
		}
		out = append(out, txs[i])
	}
	return out
}

func newTypeBreakdown() TypeBreakdown {
	return TypeBreakdown{
		Total:      decimal.Zero,
		ByCategory: make([]CategoryTotal, 0),
	}
}

func (b *TypeBreakdown) add(category string, amount decimal.Decimal) {
	b.Total = b.Total.Add(amount)
	if category == "" {
		return
	}
	for i := range b.ByCategory {
		if b.ByCategory[i].Category == category {
			b.ByCategory[i].Total = b.ByCategory[i].Total.Add(amount)
			return
		}
	}
	b.ByCategory = append(b.ByCategory, CategoryTotal{Category: category, Total: amount})
}

func sameDay(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	return au.Year() == bu.Year() && au.Month() == bu.Month() && au.Day() == bu.Day()
}
