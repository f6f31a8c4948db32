package persistence

import (
	"context"
	"errors"

	"github.com/finbook/backend/internal/domain/ledger"
	"github.com/finbook/backend/internal/domain/shared"
	"github.com/finbook/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBudgetRepository implements BudgetRepository using GORM
type GormBudgetRepository struct {
	db *gorm.DB
}

// NewGormBudgetRepository creates a new GormBudgetRepository
func NewGormBudgetRepository(db *gorm.DB) *GormBudgetRepository {
	return &GormBudgetRepository{db: db}
}

// FindByID finds a budget by its ID
func (r *GormBudgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Budget, error) {
	var model models.BudgetModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOwner finds a budget by ID scoped to its owner
func (r *GormBudgetRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*ledger.Budget, error) {
	var model models.BudgetModel
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

// FindAll finds all budgets matching the filter
func (r *GormBudgetRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.Budget, error) {
	var budgetModels []models.BudgetModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BudgetModel{}), filter)

	if err := query.Find(&budgetModels).Error; err != nil {
		return nil, err
	}

	return toDomainBudgets(budgetModels), nil
}

// FindAllForOwner finds all budgets for an owner
func (r *GormBudgetRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]ledger.Budget, error) {
	var budgetModels []models.BudgetModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.BudgetModel{}).Where("owner_id = ?", ownerID),
		filter,
	)

	if err := query.Find(&budgetModels).Error; err != nil {
		return nil, err
	}

	return toDomainBudgets(budgetModels), nil
}

// Save creates or updates a budget
func (r *GormBudgetRepository) Save(ctx context.Context, budget *ledger.Budget) error {
	model := models.BudgetModelFromDomain(budget)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a budget
func (r *GormBudgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BudgetModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteCascade removes the budget and its linked transactions in one
// database transaction. The budget must belong to the owner.
func (r *GormBudgetRepository) DeleteCascade(ctx context.Context, ownerID, budgetID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("owner_id = ? AND budget_id = ?", ownerID, budgetID).
			Delete(&models.TransactionModel{}).Error; err != nil {
			return err
		}

		result := tx.
			Where("owner_id = ? AND id = ?", ownerID, budgetID).
			Delete(&models.BudgetModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts budgets matching the filter
func (r *GormBudgetRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.BudgetModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForOwner counts an owner's budgets matching the filter
func (r *GormBudgetRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.BudgetModel{}).Where("owner_id = ?", ownerID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormBudgetRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, BudgetSortFields, "created_at")
		orderDir := ValidateSortOrder(filter.OrderDir)
		query = query.Order(orderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormBudgetRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR category ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "active_on":
			query = query.Where("start_date <= ? AND end_date >= ?", value, value)
		}
	}

	return query
}

func toDomainBudgets(budgetModels []models.BudgetModel) []ledger.Budget {
	budgets := make([]ledger.Budget, len(budgetModels))
	for i, model := range budgetModels {
		budgets[i] = *model.ToDomain()
	}
	return budgets
}

// Ensure GormBudgetRepository implements BudgetRepository
var _ ledger.BudgetRepository = (*GormBudgetRepository)(nil)
