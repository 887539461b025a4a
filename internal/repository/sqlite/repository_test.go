package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"cashtrackr/internal/domain"
	"cashtrackr/internal/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, init := range []interface {
		Init(context.Context) error
	}{
		NewUserRepository(db),
		NewBudgetRepository(db),
		NewExpenseRepository(db),
	} {
		if err := init.Init(ctx); err != nil {
			t.Fatalf("init schema: %v", err)
		}
	}
	return db
}

func createTestUser(t *testing.T, db *sql.DB, email string) *domain.User {
	t.Helper()
	user := &domain.User{Name: "Juan", Password: "digest", Email: email}
	if _, err := NewUserRepository(db).Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestUserRepositoryLookups(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	token := "123456"
	user := &domain.User{Name: "Juan", Password: "digest", Email: "juan@test.com", Token: &token}
	if _, err := repo.Create(ctx, user); err != nil {
		t.Fatalf("create: %v", err)
	}

	byEmail, err := repo.GetByEmail(ctx, "juan@test.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != user.ID || byEmail.Confirmed {
		t.Errorf("unexpected user: %+v", byEmail)
	}

	byToken, err := repo.GetByToken(ctx, "123456")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if byToken.ID != user.ID {
		t.Errorf("token lookup returned user %d, want %d", byToken.ID, user.ID)
	}

	if _, err := repo.GetByEmail(ctx, "nobody@test.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("missing email should wrap ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByToken(ctx, "000000"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("missing token should wrap ErrNotFound, got %v", err)
	}
}

func TestUserRepositoryUniqueEmail(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createTestUser(t, db, "juan@test.com")

	_, err := repo.Create(ctx, &domain.User{Name: "Dup", Password: "digest", Email: "juan@test.com"})
	if err == nil {
		t.Fatal("duplicate email should fail the unique constraint")
	}
}

func TestUserRepositoryUpdateClearsToken(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	token := "654321"
	user := &domain.User{Name: "Juan", Password: "digest", Email: "juan@test.com", Token: &token}
	if _, err := repo.Create(ctx, user); err != nil {
		t.Fatalf("create: %v", err)
	}

	user.Token = nil
	user.Confirmed = true
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("update: %v", err)
	}

	stored, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Token != nil {
		t.Errorf("token should be NULL after clearing, got %q", *stored.Token)
	}
	if !stored.Confirmed {
		t.Error("confirmed flag should persist")
	}
}

func TestEmailInUseByOther(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	juan := createTestUser(t, db, "juan@test.com")
	createTestUser(t, db, "ana@test.com")

	inUse, err := repo.EmailInUseByOther(ctx, "ana@test.com", juan.ID)
	if err != nil {
		t.Fatalf("email in use: %v", err)
	}
	if !inUse {
		t.Error("ana's email should count as taken for juan")
	}

	inUse, err = repo.EmailInUseByOther(ctx, "juan@test.com", juan.ID)
	if err != nil {
		t.Fatalf("email in use: %v", err)
	}
	if inUse {
		t.Error("a user's own email should not count as taken")
	}
}

func TestBudgetRepositoryListIsScopedToUser(t *testing.T) {
	db := openTestDB(t)
	budgets := NewBudgetRepository(db)
	ctx := context.Background()

	juan := createTestUser(t, db, "juan@test.com")
	ana := createTestUser(t, db, "ana@test.com")

	for _, b := range []*domain.Budget{
		{Name: "Gastos", Amount: 3000, UserID: juan.ID},
		{Name: "Viajes", Amount: 1500, UserID: juan.ID},
		{Name: "Casa", Amount: 800, UserID: ana.ID},
	} {
		if _, err := budgets.Create(ctx, b); err != nil {
			t.Fatalf("create budget: %v", err)
		}
	}

	mine, err := budgets.ListByUser(ctx, juan.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 budgets for juan, got %d", len(mine))
	}
	for _, b := range mine {
		if b.UserID != juan.ID {
			t.Errorf("budget %d belongs to user %d, not juan", b.ID, b.UserID)
		}
	}
}

func TestBudgetRepositoryEagerLoadsExpenses(t *testing.T) {
	db := openTestDB(t)
	budgets := NewBudgetRepository(db)
	expenses := NewExpenseRepository(db)
	ctx := context.Background()

	juan := createTestUser(t, db, "juan@test.com")
	budget := &domain.Budget{Name: "Gastos", Amount: 3000, UserID: juan.ID}
	if _, err := budgets.Create(ctx, budget); err != nil {
		t.Fatalf("create budget: %v", err)
	}

	for _, name := range []string{"Luz", "Agua", "Internet"} {
		if _, err := expenses.Create(ctx, &domain.Expense{Name: name, Amount: 100, BudgetID: budget.ID}); err != nil {
			t.Fatalf("create expense: %v", err)
		}
	}

	loaded, err := budgets.GetByIDWithExpenses(ctx, budget.ID)
	if err != nil {
		t.Fatalf("get with expenses: %v", err)
	}
	if len(loaded.Expenses) != 3 {
		t.Errorf("expected 3 expenses, got %d", len(loaded.Expenses))
	}

	empty := &domain.Budget{Name: "Vacío", Amount: 10, UserID: juan.ID}
	if _, err := budgets.Create(ctx, empty); err != nil {
		t.Fatalf("create budget: %v", err)
	}
	loaded, err = budgets.GetByIDWithExpenses(ctx, empty.ID)
	if err != nil {
		t.Fatalf("get with expenses: %v", err)
	}
	if loaded.Expenses == nil || len(loaded.Expenses) != 0 {
		t.Errorf("budget without expenses should load an empty slice, got %v", loaded.Expenses)
	}
}

func TestDeleteBudgetCascadesToExpenses(t *testing.T) {
	db := openTestDB(t)
	budgets := NewBudgetRepository(db)
	expenses := NewExpenseRepository(db)
	ctx := context.Background()

	juan := createTestUser(t, db, "juan@test.com")
	budget := &domain.Budget{Name: "Gastos", Amount: 3000, UserID: juan.ID}
	if _, err := budgets.Create(ctx, budget); err != nil {
		t.Fatalf("create budget: %v", err)
	}

	expense := &domain.Expense{Name: "Luz", Amount: 100, BudgetID: budget.ID}
	if _, err := expenses.Create(ctx, expense); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	if err := budgets.Delete(ctx, budget.ID); err != nil {
		t.Fatalf("delete budget: %v", err)
	}

	if _, err := expenses.GetByID(ctx, expense.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expense should be cascade-deleted with its budget, got %v", err)
	}
}

func TestExpenseRepositoryUpdate(t *testing.T) {
	db := openTestDB(t)
	budgets := NewBudgetRepository(db)
	expenses := NewExpenseRepository(db)
	ctx := context.Background()

	juan := createTestUser(t, db, "juan@test.com")
	budget := &domain.Budget{Name: "Gastos", Amount: 3000, UserID: juan.ID}
	if _, err := budgets.Create(ctx, budget); err != nil {
		t.Fatalf("create budget: %v", err)
	}

	expense := &domain.Expense{Name: "Luz", Amount: 100, BudgetID: budget.ID}
	if _, err := expenses.Create(ctx, expense); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	expense.Name = "Luz y gas"
	expense.Amount = 250
	if err := expenses.Update(ctx, expense); err != nil {
		t.Fatalf("update expense: %v", err)
	}

	stored, err := expenses.GetByID(ctx, expense.ID)
	if err != nil {
		t.Fatalf("get expense: %v", err)
	}
	if stored.Name != "Luz y gas" || stored.Amount != 250 {
		t.Errorf("unexpected expense after update: %+v", stored)
	}
}
