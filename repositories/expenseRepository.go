package repositories

import (
	"DentServe/cache"
	"DentServe/models"
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExpenseRepository stores clinic expenses. They only feed the reports
// screen, so reads stay uncached.
type ExpenseRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewExpenseRepository(db *gorm.DB, cache *cache.Cache) *ExpenseRepository {
	return &ExpenseRepository{db: db, cache: cache}
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.DateSpent.IsZero() {
		expense.DateSpent = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(expense).Error; err != nil {
		return storeError("failed to create expense", err)
	}
	return nil
}

func (r *ExpenseRepository) GetAll(ctx context.Context) ([]models.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var expenses []models.Expense
	err := r.db.WithContext(ctx).
		Order("date_spent DESC, id DESC").
		Find(&expenses).Error
	if err != nil {
		return nil, storeError("failed to get all expenses", err)
	}
	return expenses, nil
}

func (r *ExpenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	result := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Where("id = ?", expense.ID).
		Updates(map[string]interface{}{
			"title":      expense.Title,
			"category":   expense.Category,
			"amount":     expense.Amount,
			"date_spent": expense.DateSpent,
		})
	if result.Error != nil {
		return storeError("failed to update expense", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Expense{}, "id = ?", id)
	if result.Error != nil {
		return storeError("failed to delete expense", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
