package repositories

import (
	"DentServe/cache"
	"DentServe/models"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TransactionCacheExpiry = 24 * time.Hour
)

type TransactionRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewTransactionRepository(db *gorm.DB, cache *cache.Cache) *TransactionRepository {
	return &TransactionRepository{db: db, cache: cache}
}

// WithTx binds the repository to a running database transaction. The copy
// is uncached so every read inside the transaction hits the database;
// callers invalidate through the original repository after commit.
func (r *TransactionRepository) WithTx(tx *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: tx}
}

func (r *TransactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(transaction).Error; err != nil {
		return storeError("failed to create transaction", err)
	}
	return r.InvalidateCache(ctx, transaction.ID, transaction.PatientID)
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.transactionCacheKey(id)
	var cached models.Transaction
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	} else if err != cache.ErrMiss {
		log.Printf("Failed to get transaction from cache: %v", err)
	}

	var transaction models.Transaction
	if err := r.db.WithContext(ctx).First(&transaction, "id = ?", id).Error; err != nil {
		return nil, storeError("failed to get transaction", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, transaction, TransactionCacheExpiry); err != nil {
		log.Printf("Failed to set transaction in cache: %v", err)
	}
	return &transaction, nil
}

// ListByPatient returns the patient's transactions newest first.
func (r *TransactionRepository) ListByPatient(ctx context.Context, patientID string) ([]models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.patientListCacheKey(patientID)
	var cached []models.Transaction
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	} else if err != cache.ErrMiss {
		log.Printf("Failed to get transactions from cache: %v", err)
	}

	var transactions []models.Transaction
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC, id DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, storeError("failed to list transactions", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, transactions, TransactionCacheExpiry); err != nil {
		log.Printf("Failed to set transactions in cache: %v", err)
	}
	return transactions, nil
}

// ListAll returns every transaction newest first, for reporting. Unscoped
// reads are not cached; the reporting screen always wants fresh totals.
func (r *TransactionRepository) ListAll(ctx context.Context) ([]models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var transactions []models.Transaction
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, storeError("failed to list all transactions", err)
	}
	return transactions, nil
}

// Update persists the transaction's cached payment fields.
func (r *TransactionRepository) Update(ctx context.Context, transaction *models.Transaction) error {
	result := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", transaction.ID).
		Updates(map[string]interface{}{
			"paid":      transaction.Paid,
			"remaining": transaction.Remaining,
			"status":    transaction.Status,
		})
	if result.Error != nil {
		return storeError("failed to update transaction", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return r.InvalidateCache(ctx, transaction.ID, transaction.PatientID)
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	var transaction models.Transaction
	if err := r.db.WithContext(ctx).First(&transaction, "id = ?", id).Error; err != nil {
		return storeError("failed to find transaction", err)
	}
	if err := r.db.WithContext(ctx).Delete(&models.Transaction{}, "id = ?", id).Error; err != nil {
		return storeError("failed to delete transaction", err)
	}
	return r.InvalidateCache(ctx, id, transaction.PatientID)
}

// InvalidateCache drops the record key and every transaction list key.
func (r *TransactionRepository) InvalidateCache(ctx context.Context, id, patientID string) error {
	if err := r.cache.Delete(ctx, r.transactionCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete transaction cache: %w", err)
	}
	if patientID != "" {
		if err := r.cache.Delete(ctx, r.patientListCacheKey(patientID)); err != nil {
			return fmt.Errorf("failed to delete patient transactions cache: %w", err)
		}
	}
	return r.cache.DeleteAll(ctx, "transactions_cache:*")
}

func (r *TransactionRepository) transactionCacheKey(id string) string {
	return fmt.Sprintf("transaction_cache:%s", id)
}

func (r *TransactionRepository) patientListCacheKey(patientID string) string {
	return fmt.Sprintf("transactions_cache:%s", patientID)
}
