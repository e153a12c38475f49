package services

import (
	"DentServe/models"
	"DentServe/repositories"
	"context"
)

type ExpenseService struct {
	repository *repositories.ExpenseRepository
}

func NewExpenseService(repository *repositories.ExpenseRepository) *ExpenseService {
	return &ExpenseService{repository: repository}
}

func (s *ExpenseService) Create(ctx context.Context, expense *models.Expense) error {
	return s.repository.Create(ctx, expense)
}

func (s *ExpenseService) GetAll(ctx context.Context) ([]models.Expense, error) {
	return s.repository.GetAll(ctx)
}

func (s *ExpenseService) Update(ctx context.Context, expense *models.Expense) error {
	return s.repository.Update(ctx, expense)
}

func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	return s.repository.Delete(ctx, id)
}
