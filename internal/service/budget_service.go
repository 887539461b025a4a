package service

import (
	"context"
	"errors"

	"cashtrackr/internal/domain"
	"cashtrackr/internal/repository"
)

var (
	// ErrBudgetNotFound indicates the requested budget does not exist.
	ErrBudgetNotFound = errors.New("budget not found")
	// ErrExpenseNotFound indicates the requested expense does not exist.
	ErrExpenseNotFound = errors.New("expense not found")
)

// BudgetService provides ownership-scoped budget operations. Ownership itself
// is proven by the HTTP middleware chain before any call lands here.
type BudgetService interface {
	ListForUser(ctx context.Context, userID int64) ([]domain.Budget, error)
	Create(ctx context.Context, userID int64, name string, amount float64) (*domain.Budget, error)
	GetByID(ctx context.Context, id int64) (*domain.Budget, error)
	GetWithExpenses(ctx context.Context, id int64) (*domain.Budget, error)
	Update(ctx context.Context, budget *domain.Budget, name string, amount float64) error
	Delete(ctx context.Context, id int64) error
}

type budgetService struct {
	budgets repository.BudgetRepository
}

func NewBudgetService(budgets repository.BudgetRepository) BudgetService {
	return &budgetService{budgets: budgets}
}

func (s *budgetService) ListForUser(ctx context.Context, userID int64) ([]domain.Budget, error) {
	return s.budgets.ListByUser(ctx, userID)
}

func (s *budgetService) Create(ctx context.Context, userID int64, name string, amount float64) (*domain.Budget, error) {
	budget := &domain.Budget{
		Name:   name,
		Amount: amount,
		UserID: userID,
	}
	if _, err := s.budgets.Create(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *budgetService) GetByID(ctx context.Context, id int64) (*domain.Budget, error) {
	budget, err := s.budgets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

func (s *budgetService) GetWithExpenses(ctx context.Context, id int64) (*domain.Budget, error) {
	budget, err := s.budgets.GetByIDWithExpenses(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

func (s *budgetService) Update(ctx context.Context, budget *domain.Budget, name string, amount float64) error {
	budget.Name = name
	budget.Amount = amount
	return s.budgets.Update(ctx, budget)
}

func (s *budgetService) Delete(ctx context.Context, id int64) error {
	return s.budgets.Delete(ctx, id)
}
