package repositories

import (
	"DentServe/cache"
	"DentServe/models"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	InstallmentCacheExpiry = 24 * time.Hour
)

type InstallmentRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewInstallmentRepository(db *gorm.DB, cache *cache.Cache) *InstallmentRepository {
	return &InstallmentRepository{db: db, cache: cache}
}

// WithTx binds the repository to a running database transaction, uncached.
func (r *InstallmentRepository) WithTx(tx *gorm.DB) *InstallmentRepository {
	return &InstallmentRepository{db: tx}
}

func (r *InstallmentRepository) Create(ctx context.Context, installment *models.Installment) error {
	if installment.ID == "" {
		installment.ID = uuid.New().String()
	}
	if installment.DateTransact.IsZero() {
		installment.DateTransact = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(installment).Error; err != nil {
		return storeError("failed to create installment", err)
	}
	return r.InvalidateCache(ctx, installment.TransactionID)
}

func (r *InstallmentRepository) GetByID(ctx context.Context, id string) (*models.Installment, error) {
	var installment models.Installment
	if err := r.db.WithContext(ctx).First(&installment, "id = ?", id).Error; err != nil {
		return nil, storeError("failed to get installment", err)
	}
	return &installment, nil
}

// ListByTransaction returns the payment history newest first.
func (r *InstallmentRepository) ListByTransaction(ctx context.Context, transactionID string) ([]models.Installment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.transactionListCacheKey(transactionID)
	var cached []models.Installment
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	} else if err != cache.ErrMiss {
		log.Printf("Failed to get installments from cache: %v", err)
	}

	var installments []models.Installment
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at DESC, id DESC").
		Find(&installments).Error
	if err != nil {
		return nil, storeError("failed to list installments", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, installments, InstallmentCacheExpiry); err != nil {
		log.Printf("Failed to set installments in cache: %v", err)
	}
	return installments, nil
}

// ListAll returns every installment newest first, for reporting.
func (r *InstallmentRepository) ListAll(ctx context.Context) ([]models.Installment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var installments []models.Installment
	err := r.db.WithContext(ctx).
		Order("date_transact DESC, id DESC").
		Find(&installments).Error
	if err != nil {
		return nil, storeError("failed to list all installments", err)
	}
	return installments, nil
}

// SumByTransaction totals the recorded payments for one transaction. This
// is the authoritative value the parent's cached paid field must match.
func (r *InstallmentRepository) SumByTransaction(ctx context.Context, transactionID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.Installment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("transaction_id = ?", transactionID).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, storeError("failed to sum installments", err)
	}
	return total, nil
}

func (r *InstallmentRepository) Delete(ctx context.Context, id string) error {
	installment, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Installment{}, "id = ?", id).Error; err != nil {
		return storeError("failed to delete installment", err)
	}
	return r.InvalidateCache(ctx, installment.TransactionID)
}

// DeleteByTransaction removes the full payment history of a transaction.
func (r *InstallmentRepository) DeleteByTransaction(ctx context.Context, transactionID string) error {
	if err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).Delete(&models.Installment{}).Error; err != nil {
		return storeError("failed to delete installments", err)
	}
	return r.InvalidateCache(ctx, transactionID)
}

// InvalidateCache drops every installment list key for the transaction.
func (r *InstallmentRepository) InvalidateCache(ctx context.Context, transactionID string) error {
	if err := r.cache.Delete(ctx, r.transactionListCacheKey(transactionID)); err != nil {
		return fmt.Errorf("failed to delete installments cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "installments_cache:*")
}

func (r *InstallmentRepository) transactionListCacheKey(transactionID string) string {
	return fmt.Sprintf("installments_cache:%s", transactionID)
}
