package service

import (
	"context"
	"errors"

	"cashtrackr/internal/domain"
	"cashtrackr/internal/repository"
)

// ExpenseService operates on expenses inside an already-resolved budget. It
// performs no ownership checks of its own.
type ExpenseService interface {
	Create(ctx context.Context, budgetID int64, name string, amount float64) (*domain.Expense, error)
	GetByID(ctx context.Context, id int64) (*domain.Expense, error)
	Update(ctx context.Context, expense *domain.Expense, name string, amount float64) error
	Delete(ctx context.Context, id int64) error
}

type expenseService struct {
	expenses repository.ExpenseRepository
}

func NewExpenseService(expenses repository.ExpenseRepository) ExpenseService {
	return &expenseService{expenses: expenses}
}

func (s *expenseService) Create(ctx context.Context, budgetID int64, name string, amount float64) (*domain.Expense, error) {
	expense := &domain.Expense{
		Name:     name,
		Amount:   amount,
		BudgetID: budgetID,
	}
	if _, err := s.expenses.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) GetByID(ctx context.Context, id int64) (*domain.Expense, error) {
	expense, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) Update(ctx context.Context, expense *domain.Expense, name string, amount float64) error {
	expense.Name = name
	expense.Amount = amount
	return s.expenses.Update(ctx, expense)
}

func (s *expenseService) Delete(ctx context.Context, id int64) error {
	return s.expenses.Delete(ctx, id)
}
