package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/finbook/backend/internal/domain/ledger"
	"github.com/finbook/backend/internal/domain/shared"
	"github.com/finbook/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOwner finds a transaction by ID scoped to its owner
func (r *GormTransactionRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*ledger.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all transactions matching the filter
func (r *GormTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.Transaction, error) {
	var txModels []models.TransactionModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.TransactionModel{}), filter)

	if err := query.Find(&txModels).Error; err != nil {
		return nil, err
	}

	return toDomainTransactions(txModels), nil
}

// FindAllForOwner finds all transactions for an owner
func (r *GormTransactionRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]ledger.Transaction, error) {
	var txModels []models.TransactionModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.TransactionModel{}).Where("owner_id = ?", ownerID),
		filter,
	)

	if err := query.Find(&txModels).Error; err != nil {
		return nil, err
	}

	return toDomainTransactions(txModels), nil
}

// FindRecentForOwner returns the owner's most recent transactions by date, newest first
func (r *GormTransactionRepository) FindRecentForOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]ledger.Transaction, error) {
	var txModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("date DESC, created_at DESC").
		Limit(limit).
		Find(&txModels).Error; err != nil {
		return nil, err
	}

	return toDomainTransactions(txModels), nil
}

// FindByBudget returns all transactions linked to a budget, newest first
func (r *GormTransactionRepository) FindByBudget(ctx context.Context, ownerID, budgetID uuid.UUID) ([]ledger.Transaction, error) {
	var txModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND budget_id = ?", ownerID, budgetID).
		Order("date DESC, created_at DESC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}

	return toDomainTransactions(txModels), nil
}

// DeleteByBudget removes every transaction linked to a budget
func (r *GormTransactionRepository) DeleteByBudget(ctx context.Context, ownerID, budgetID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.TransactionModel{}, "owner_id = ? AND budget_id = ?", ownerID, budgetID).
		Error
}

// SumByTypeForOwner returns the total amount of the owner's transactions
// of one type inside [from, to). A zero bound leaves that side of the
// window open.
func (r *GormTransactionRepository) SumByTypeForOwner(ctx context.Context, ownerID uuid.UUID, txType ledger.TransactionType, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("owner_id = ? AND type = ?", ownerID, txType)
	if !from.IsZero() {
		query = query.Where("date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("date < ?", to)
	}
	if err := query.Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// SumByCategoryForOwner returns per-category totals of one type inside
// [from, to). Categories are ordered by their earliest transaction so the
// grouping is stable across calls.
func (r *GormTransactionRepository) SumByCategoryForOwner(ctx context.Context, ownerID uuid.UUID, txType ledger.TransactionType, from, to time.Time) ([]ledger.CategoryTotal, error) {
	var results []ledger.CategoryTotal
	err := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Where("owner_id = ? AND type = ? AND date >= ? AND date < ? AND category <> ''", ownerID, txType, from, to).
		Group("category").
		Order("MIN(date) ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// DistinctCategoriesForOwner lists the category names the owner has used
func (r *GormTransactionRepository) DistinctCategoriesForOwner(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Distinct("category").
		Where("owner_id = ? AND category <> ''", ownerID).
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Save creates or updates a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, tx *ledger.Transaction) error {
	model := models.TransactionModelFromDomain(tx)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a transaction
func (r *GormTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TransactionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts transactions matching the filter
func (r *GormTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.TransactionModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForOwner counts an owner's transactions matching the filter
func (r *GormTransactionRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.TransactionModel{}).Where("owner_id = ?", ownerID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, TransactionSortFields, "date")
		orderDir := ValidateSortOrder(filter.OrderDir)
		query = query.Order(orderBy + " " + orderDir)
	} else {
		// Newest entries first
		query = query.Order("date DESC, created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormTransactionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("category ILIKE ? OR note ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		case "budget_id":
			query = query.Where("budget_id = ?", value)
		case "date_from":
			query = query.Where("date >= ?", value)
		case "date_to":
			query = query.Where("date < ?", value)
		}
	}

	return query
}

func toDomainTransactions(txModels []models.TransactionModel) []ledger.Transaction {
	transactions := make([]ledger.Transaction, len(txModels))
	for i, model := range txModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ ledger.TransactionRepository = (*GormTransactionRepository)(nil)
