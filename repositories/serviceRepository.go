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
	ServiceCacheExpiry = 7 * 24 * time.Hour
)

// ServiceRepository stores the treatment catalog. The ledger only ever
// reads it; prices are copied onto transactions at creation time.
type ServiceRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewServiceRepository(db *gorm.DB, cache *cache.Cache) *ServiceRepository {
	return &ServiceRepository{db: db, cache: cache}
}

func (r *ServiceRepository) Create(ctx context.Context, service *models.Service) error {
	if service.ID == "" {
		service.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(service).Error; err != nil {
		return storeError("failed to create service", err)
	}
	return r.InvalidateCache(ctx, service.ID)
}

func (r *ServiceRepository) GetByID(ctx context.Context, id string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.serviceCacheKey(id)
	var cached models.Service
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	} else if err != cache.ErrMiss {
		log.Printf("Failed to get service from cache: %v", err)
	}

	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, "id = ?", id).Error; err != nil {
		return nil, storeError("failed to get service", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, service, ServiceCacheExpiry); err != nil {
		log.Printf("Failed to set service in cache: %v", err)
	}
	return &service, nil
}

func (r *ServiceRepository) GetAll(ctx context.Context) ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := "services_cache"
	var cached []models.Service
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	} else if err != cache.ErrMiss {
		log.Printf("Failed to get services from cache: %v", err)
	}

	var services []models.Service
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&services).Error
	if err != nil {
		return nil, storeError("failed to get all services", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, services, ServiceCacheExpiry); err != nil {
		log.Printf("Failed to set services in cache: %v", err)
	}
	return services, nil
}

func (r *ServiceRepository) Update(ctx context.Context, service *models.Service) error {
	result := r.db.WithContext(ctx).
		Model(&models.Service{}).
		Where("id = ?", service.ID).
		Updates(map[string]interface{}{
			"service_name":        service.ServiceName,
			"service_description": service.ServiceDescription,
			"service_price":       service.ServicePrice,
		})
	if result.Error != nil {
		return storeError("failed to update service", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return r.InvalidateCache(ctx, service.ID)
}

func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Service{}, "id = ?", id)
	if result.Error != nil {
		return storeError("failed to delete service", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return r.InvalidateCache(ctx, id)
}

func (r *ServiceRepository) InvalidateCache(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, r.serviceCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete service cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "services_cache")
}

func (r *ServiceRepository) serviceCacheKey(id string) string {
	return fmt.Sprintf("service_cache:%s", id)
}
