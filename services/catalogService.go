package services

import (
	"DentServe/models"
	"DentServe/repositories"
	"context"
)

type CatalogService struct {
	repository *repositories.ServiceRepository
}

func NewCatalogService(repository *repositories.ServiceRepository) *CatalogService {
	return &CatalogService{repository: repository}
}

func (s *CatalogService) Create(ctx context.Context, service *models.Service) error {
	return s.repository.Create(ctx, service)
}

func (s *CatalogService) GetByID(ctx context.Context, id string) (*models.Service, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *CatalogService) GetAll(ctx context.Context) ([]models.Service, error) {
	return s.repository.GetAll(ctx)
}

func (s *CatalogService) Update(ctx context.Context, service *models.Service) error {
	return s.repository.Update(ctx, service)
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	return s.repository.Delete(ctx, id)
}
