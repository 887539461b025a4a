package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cashtrackr/internal/domain"
	"cashtrackr/internal/repository"
)

const createBudgetsTable = `
CREATE TABLE IF NOT EXISTS budgets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	amount REAL NOT NULL,
	user_id INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (user_id) REFERENCES users(id) ON UPDATE CASCADE ON DELETE CASCADE
);
`

type BudgetRepository struct {
	db *sql.DB
}

func NewBudgetRepository(db *sql.DB) repository.BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createBudgetsTable); err != nil {
		return fmt.Errorf("create budgets table: %w", err)
	}
	return nil
}

func (r *BudgetRepository) Create(ctx context.Context, budget *domain.Budget) (int64, error) {
	now := time.Now().UTC()
	budget.CreatedAt = now
	budget.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO budgets (name, amount, user_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		budget.Name,
		budget.Amount,
		budget.UserID,
		budget.CreatedAt,
		budget.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert budget: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("budget last insert id: %w", err)
	}
	budget.ID = id
	return id, nil
}

func (r *BudgetRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Budget, error) {
	rows, err := r.db.QueryContext(ctx, selectBudget+`WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	budgets := []domain.Budget{}
	for rows.Next() {
		var b domain.Budget
		if err := scanBudgetInto(rows, &b); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return budgets, nil
}

func (r *BudgetRepository) GetByID(ctx context.Context, id int64) (*domain.Budget, error) {
	row := r.db.QueryRowContext(ctx, selectBudget+`WHERE id = ?`, id)

	var b domain.Budget
	if err := scanBudgetInto(row, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BudgetRepository) GetByIDWithExpenses(ctx context.Context, id int64) (*domain.Budget, error) {
	budget, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, amount, budget_id, created_at, updated_at
FROM expenses
WHERE budget_id = ?
ORDER BY created_at DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("list budget expenses: %w", err)
	}
	defer rows.Close()

	budget.Expenses = []domain.Expense{}
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.Name, &e.Amount, &e.BudgetID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		budget.Expenses = append(budget.Expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budget expenses: %w", err)
	}
	return budget, nil
}

func (r *BudgetRepository) Update(ctx context.Context, budget *domain.Budget) error {
	budget.UpdatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
UPDATE budgets
SET name = ?, amount = ?, updated_at = ?
WHERE id = ?`,
		budget.Name,
		budget.Amount,
		budget.UpdatedAt,
		budget.ID,
	)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return nil
}

func (r *BudgetRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}

const selectBudget = `
SELECT id, name, amount, user_id, created_at, updated_at
FROM budgets
`

func scanBudgetInto(row interface {
	Scan(dest ...any) error
}, b *domain.Budget) error {
	if err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Amount,
		&b.UserID,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("budget %w", repository.ErrNotFound)
		}
		return fmt.Errorf("scan budget: %w", err)
	}
	return nil
}
