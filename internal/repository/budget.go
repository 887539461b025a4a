package repository

import (
	"context"

	"cashtrackr/internal/domain"
)

// BudgetRepository defines persistence operations for Budget entities.
type BudgetRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, budget *domain.Budget) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Budget, error)
	GetByID(ctx context.Context, id int64) (*domain.Budget, error)
	GetByIDWithExpenses(ctx context.Context, id int64) (*domain.Budget, error)
	Update(ctx context.Context, budget *domain.Budget) error
	// Delete removes the budget; its expenses cascade at the schema level.
	Delete(ctx context.Context, id int64) error
}

// ExpenseRepository defines persistence operations for Expense entities.
type ExpenseRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, expense *domain.Expense) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Expense, error)
	Update(ctx context.Context, expense *domain.Expense) error
	Delete(ctx context.Context, id int64) error
}
