package services

import (
	"DentServe/models"
	"DentServe/repositories"
	"context"

	"github.com/pkg/errors"
)

// SectionService serves the three patient record sections through one
// repository per collection, resolved by the public collection name.
type SectionService struct {
	sections map[string]*repositories.SectionRepository
}

func NewSectionService(sections map[string]*repositories.SectionRepository) *SectionService {
	return &SectionService{sections: sections}
}

func (s *SectionService) repo(collection string) (*repositories.SectionRepository, error) {
	repo, ok := s.sections[collection]
	if !ok {
		return nil, errors.Wrapf(ErrValidationRejected, "unknown section %q", collection)
	}
	return repo, nil
}

func (s *SectionService) Create(ctx context.Context, collection string, record *models.SectionRecord) error {
	repo, err := s.repo(collection)
	if err != nil {
		return err
	}
	return repo.Create(ctx, record)
}

func (s *SectionService) ListByPatient(ctx context.Context, collection, patientID string) ([]models.SectionRecord, error) {
	repo, err := s.repo(collection)
	if err != nil {
		return nil, err
	}
	return repo.ListByPatient(ctx, patientID)
}

func (s *SectionService) Update(ctx context.Context, collection string, record *models.SectionRecord) error {
	repo, err := s.repo(collection)
	if err != nil {
		return err
	}
	return repo.Update(ctx, record)
}

func (s *SectionService) Delete(ctx context.Context, collection, id string) error {
	repo, err := s.repo(collection)
	if err != nil {
		return err
	}
	return repo.Delete(ctx, id)
}
