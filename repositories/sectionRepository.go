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
	SectionCacheExpiry = 24 * time.Hour
)

// SectionRepository gives scoped CRUD access to one patient record
// section (notes, medical history or treatment plans). The three sections
// share a schema, so one repository parameterized by table serves all of
// them. State lives per request; nothing is held across patient views.
type SectionRepository struct {
	db    *gorm.DB
	cache *cache.Cache
	table string
	label string
}

func NewSectionRepository(db *gorm.DB, cache *cache.Cache, table, label string) *SectionRepository {
	return &SectionRepository{db: db, cache: cache, table: table, label: label}
}

func (r *SectionRepository) Label() string {
	return r.label
}

func (r *SectionRepository) Create(ctx context.Context, record *models.SectionRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Table(r.table).Create(record).Error; err != nil {
		return storeError(fmt.Sprintf("failed to create %s record", r.label), err)
	}
	return r.InvalidateCache(ctx, record.PatientID)
}

// ListByPatient returns the patient's section records newest first.
func (r *SectionRepository) ListByPatient(ctx context.Context, patientID string) ([]models.SectionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.listCacheKey(patientID)
	var cached []models.SectionRecord
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	} else if err != cache.ErrMiss {
		log.Printf("Failed to get %s records from cache: %v", r.label, err)
	}

	var records []models.SectionRecord
	err := r.db.WithContext(ctx).
		Table(r.table).
		Where("patient_id = ?", patientID).
		Order("created_at DESC, id DESC").
		Find(&records).Error
	if err != nil {
		return nil, storeError(fmt.Sprintf("failed to list %s records", r.label), err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, records, SectionCacheExpiry); err != nil {
		log.Printf("Failed to set %s records in cache: %v", r.label, err)
	}
	return records, nil
}

func (r *SectionRepository) GetByID(ctx context.Context, id string) (*models.SectionRecord, error) {
	var record models.SectionRecord
	if err := r.db.WithContext(ctx).Table(r.table).First(&record, "id = ?", id).Error; err != nil {
		return nil, storeError(fmt.Sprintf("failed to get %s record", r.label), err)
	}
	return &record, nil
}

func (r *SectionRepository) Update(ctx context.Context, record *models.SectionRecord) error {
	result := r.db.WithContext(ctx).
		Table(r.table).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{
			"title":   record.Title,
			"content": record.Content,
		})
	if result.Error != nil {
		return storeError(fmt.Sprintf("failed to update %s record", r.label), result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return r.InvalidateCache(ctx, record.PatientID)
}

func (r *SectionRepository) Delete(ctx context.Context, id string) error {
	record, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Table(r.table).Where("id = ?", id).Delete(&models.SectionRecord{}).Error; err != nil {
		return storeError(fmt.Sprintf("failed to delete %s record", r.label), err)
	}
	return r.InvalidateCache(ctx, record.PatientID)
}

func (r *SectionRepository) InvalidateCache(ctx context.Context, patientID string) error {
	return r.cache.Delete(ctx, r.listCacheKey(patientID))
}

func (r *SectionRepository) listCacheKey(patientID string) string {
	return fmt.Sprintf("sections_cache:%s:%s", r.table, patientID)
}
