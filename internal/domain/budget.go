package domain

import "time"

// Budget is a named spending envelope owned by exactly one user. Deleting a
// budget cascades to its expenses.
type Budget struct {
	ID        int64
	Name      string
	Amount    float64
	UserID    int64
	CreatedAt time.Time
	UpdatedAt time.Time

	// Expenses is populated only by eager-loading lookups.
	Expenses []Expense
}

// Expense is a single spending entry inside a budget.
type Expense struct {
	ID        int64
	Name      string
	Amount    float64
	BudgetID  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
