package repositories

import (
	"DentServe/cache"
	"DentServe/database"
	"DentServe/models"
	"context"
	"fmt"
	"log"
	"time"

	stderrors "errors"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	PatientCacheExpiry = 7 * 24 * time.Hour
)

// ErrHasDependents rejects a plain delete that would orphan dependent
// records. The cascading delete path is DeletePatientAndRelated.
var ErrHasDependents = stderrors.New("patient has dependent records")

type PatientRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewPatientRepository(db *gorm.DB, cache *cache.Cache) *PatientRepository {
	return &PatientRepository{db: db, cache: cache}
}

func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	lockKey := fmt.Sprintf("patient_lock:%s_%s", patient.PatientName, patient.BirthDate)
	return database.WithLock(ctx, lockKey, func() error {
		// Reject duplicate intake for the same person
		var existing models.Patient
		err := r.db.WithContext(ctx).
			Where("patient_name = ? AND birth_date = ?", patient.PatientName, patient.BirthDate).
			First(&existing).Error
		if err == nil {
			return errors.New("patient with the same details already exists")
		} else if !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return storeError("failed to check for existing patient", err)
		}

		if patient.ID == "" {
			patient.ID = uuid.New().String()
		}
		if err := r.db.WithContext(ctx).Create(patient).Error; err != nil {
			return storeError("failed to create patient", err)
		}
		return r.InvalidateCache(ctx, patient.ID)
	})
}

func (r *PatientRepository) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.patientCacheKey(id)
	var cached models.Patient
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	} else if err != cache.ErrMiss {
		log.Printf("Failed to get patient from cache: %v", err)
	}

	var patient models.Patient
	if err := r.db.WithContext(ctx).First(&patient, "id = ?", id).Error; err != nil {
		return nil, storeError("failed to get patient", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, patient, PatientCacheExpiry); err != nil {
		log.Printf("Failed to set patient in cache: %v", err)
	}
	return &patient, nil
}

func (r *PatientRepository) GetAll(ctx context.Context) ([]models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := "patients_cache"
	var cached []models.Patient
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	} else if err != cache.ErrMiss {
		log.Printf("Failed to get patients from cache: %v", err)
	}

	var patients []models.Patient
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&patients).Error
	if err != nil {
		return nil, storeError("failed to get all patients", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, patients, PatientCacheExpiry); err != nil {
		log.Printf("Failed to set patients in cache: %v", err)
	}
	return patients, nil
}

func (r *PatientRepository) Update(ctx context.Context, patient *models.Patient) error {
	lockKey := fmt.Sprintf("patient_lock:%s", patient.ID)
	return database.WithLock(ctx, lockKey, func() error {
		result := r.db.WithContext(ctx).
			Model(&models.Patient{}).
			Where("id = ?", patient.ID).
			Updates(map[string]interface{}{
				"patient_name":      patient.PatientName,
				"gender":            patient.Gender,
				"birth_date":        patient.BirthDate,
				"address":           patient.Address,
				"contact":           patient.Contact,
				"emergency_contact": patient.EmergencyContact,
			})
		if result.Error != nil {
			return storeError("failed to update patient", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return r.InvalidateCache(ctx, patient.ID)
	})
}

// Delete removes a patient with no dependent records. Deleting a patient
// who still has transactions or section entries is refused; staff either
// clean those up first or call DeletePatientAndRelated.
func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	lockKey := fmt.Sprintf("patient_lock:%s", id)
	return database.WithLock(ctx, lockKey, func() error {
		dependents, err := r.countDependents(ctx, id)
		if err != nil {
			return err
		}
		if dependents > 0 {
			return ErrHasDependents
		}

		result := r.db.WithContext(ctx).Delete(&models.Patient{}, "id = ?", id)
		if result.Error != nil {
			return storeError("failed to delete patient", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return r.InvalidateCache(ctx, id)
	})
}

// DeletePatientAndRelated removes the patient together with every
// dependent record in one database transaction: transactions, their
// installments, and all three section collections.
func (r *PatientRepository) DeletePatientAndRelated(ctx context.Context, id string) error {
	lockKey := fmt.Sprintf("patient_lock:%s", id)
	return database.WithLock(ctx, lockKey, func() error {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			transactionIDs := tx.Model(&models.Transaction{}).Select("id").Where("patient_id = ?", id)
			if err := tx.Where("transaction_id IN (?)", transactionIDs).Delete(&models.Installment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("patient_id = ?", id).Delete(&models.Transaction{}).Error; err != nil {
				return err
			}
			if err := tx.Where("patient_id = ?", id).Delete(&models.Note{}).Error; err != nil {
				return err
			}
			if err := tx.Where("patient_id = ?", id).Delete(&models.MedicalHistory{}).Error; err != nil {
				return err
			}
			if err := tx.Where("patient_id = ?", id).Delete(&models.TreatmentPlan{}).Error; err != nil {
				return err
			}
			result := tx.Delete(&models.Patient{}, "id = ?", id)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			return nil
		})
		if err != nil {
			return storeError("failed to delete patient and related records", err)
		}

		if err := r.InvalidateCache(ctx, id); err != nil {
			return err
		}
		if err := r.cache.DeleteAll(ctx, "transactions_cache:*"); err != nil {
			return err
		}
		if err := r.cache.DeleteAll(ctx, "installments_cache:*"); err != nil {
			return err
		}
		return r.cache.DeleteAll(ctx, "sections_cache:*")
	})
}

func (r *PatientRepository) countDependents(ctx context.Context, id string) (int64, error) {
	var total int64
	counts := []struct {
		model interface{}
		op    string
	}{
		{&models.Transaction{}, "failed to count transactions"},
		{&models.Note{}, "failed to count notes"},
		{&models.MedicalHistory{}, "failed to count medical history"},
		{&models.TreatmentPlan{}, "failed to count treatment plans"},
	}
	for _, c := range counts {
		var n int64
		if err := r.db.WithContext(ctx).Model(c.model).Where("patient_id = ?", id).Count(&n).Error; err != nil {
			return 0, storeError(c.op, err)
		}
		total += n
	}
	return total, nil
}

// InvalidateCache drops the patient record key and the patient list key.
func (r *PatientRepository) InvalidateCache(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, r.patientCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete patient cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "patients_cache")
}

func (r *PatientRepository) patientCacheKey(id string) string {
	return fmt.Sprintf("patient_cache:%s", id)
}
