package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"cashtrackr/internal/auth"
	"cashtrackr/internal/domain"
	"cashtrackr/internal/service"
)

// fakeAuthService serves a single known user.
type fakeAuthService struct {
	service.AuthService
	user *domain.User
}

func (f *fakeAuthService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	if f.user != nil && f.user.ID == userID {
		return f.user, nil
	}
	return nil, service.ErrUserNotFound
}

// fakeBudgetService serves budgets from a map and records downstream calls.
type fakeBudgetService struct {
	service.BudgetService
	budgets map[int64]*domain.Budget
	err     error
}

func (f *fakeBudgetService) GetByID(ctx context.Context, id int64) (*domain.Budget, error) {
	if f.err != nil {
		return nil, f.err
	}
	if b, ok := f.budgets[id]; ok {
		return b, nil
	}
	return nil, service.ErrBudgetNotFound
}

func (f *fakeBudgetService) GetWithExpenses(ctx context.Context, id int64) (*domain.Budget, error) {
	b, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	copied := *b
	copied.Expenses = []domain.Expense{}
	return &copied, nil
}

type fakeExpenseService struct {
	service.ExpenseService
	expenses map[int64]*domain.Expense
	err      error
}

func (f *fakeExpenseService) GetByID(ctx context.Context, id int64) (*domain.Expense, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.expenses[id]; ok {
		return e, nil
	}
	return nil, service.ErrExpenseNotFound
}

type gateFixture struct {
	router  *gin.Engine
	bearer  string
	budgets *fakeBudgetService
	exps    *fakeExpenseService
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	bearer, err := tokens.Issue(1)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	budgets := &fakeBudgetService{budgets: map[int64]*domain.Budget{
		1: {ID: 1, Name: "Gastos", Amount: 3000, UserID: 1},
		2: {ID: 2, Name: "Ajeno", Amount: 500, UserID: 20},
	}}
	exps := &fakeExpenseService{expenses: map[int64]*domain.Expense{
		1: {ID: 1, Name: "Luz", Amount: 100, BudgetID: 1},
		2: {ID: 2, Name: "Otro", Amount: 50, BudgetID: 2},
	}}

	h := NewHandler(Config{
		Auth:       &fakeAuthService{user: &domain.User{ID: 1, Name: "Juan", Email: "juan@test.com"}},
		Budgets:    budgets,
		Expenses:   exps,
		Tokens:     tokens,
		RateLimit:  1000,
		RateWindow: time.Minute,
	})

	router := gin.New()
	h.RegisterRoutes(router)

	return &gateFixture{router: router, bearer: bearer, budgets: budgets, exps: exps}
}

func (f *gateFixture) get(t *testing.T, path string, authenticated bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+f.bearer)
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rr.Body.String(), err)
	}
	return body.Error
}

func TestAuthenticateMissingHeader(t *testing.T) {
	f := newGateFixture(t)

	rr := f.get(t, "/api/budgets", false)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	if msg := errorMessage(t, rr); msg != "No Autorizado" {
		t.Errorf("error = %q, want %q", msg, "No Autorizado")
	}
}

// A present-but-invalid bearer token historically answers 500, not 401.
func TestAuthenticateInvalidTokenYieldsInternalError(t *testing.T) {
	f := newGateFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/budgets", nil)
	req.Header.Set("Authorization", "Bearer token_invalid")
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if msg := errorMessage(t, rr); msg != "Hubo un error" {
		t.Errorf("error = %q, want %q", msg, "Hubo un error")
	}
}

func TestAuthenticateUnknownUserYieldsInternalError(t *testing.T) {
	f := newGateFixture(t)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	bearer, err := tokens.Issue(99) // no such user
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/budgets", nil)
	req.Header.Set("Authorization", "Bearer "+bearer)
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
}

func TestBudgetGateInvalidID(t *testing.T) {
	f := newGateFixture(t)

	rr := f.get(t, "/api/budgets/not_valid", true)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}

	var body struct {
		Errors []fieldError `json:"errors"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Errors) != 1 || body.Errors[0].Msg != "ID no válido" {
		t.Errorf("expected a single 'ID no válido' error, got %v", body.Errors)
	}
}

func TestBudgetGateNotFound(t *testing.T) {
	f := newGateFixture(t)

	rr := f.get(t, "/api/budgets/99", true)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	if msg := errorMessage(t, rr); msg != "Presupuesto no encontrado." {
		t.Errorf("error = %q", msg)
	}
}

func TestBudgetGatePersistenceError(t *testing.T) {
	f := newGateFixture(t)
	f.budgets.err = context.DeadlineExceeded

	rr := f.get(t, "/api/budgets/1", true)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if msg := errorMessage(t, rr); msg != "Hubo un error" {
		t.Errorf("error = %q", msg)
	}
}

// Cross-owner access answers 401 (not 403) with "Acción no válida." and the
// downstream handler never runs.
func TestBudgetGateOwnershipMismatch(t *testing.T) {
	f := newGateFixture(t)

	rr := f.get(t, "/api/budgets/2", true)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	if msg := errorMessage(t, rr); msg != "Acción no válida." {
		t.Errorf("error = %q", msg)
	}
}

func TestBudgetGateAllowsOwner(t *testing.T) {
	f := newGateFixture(t)

	rr := f.get(t, "/api/budgets/1", true)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rr.Code, rr.Body.String())
	}

	var body BudgetDetailResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.ID != 1 || body.Expenses == nil {
		t.Errorf("unexpected budget payload: %+v", body)
	}
}

func TestExpenseGateNotFound(t *testing.T) {
	f := newGateFixture(t)

	rr := f.get(t, "/api/budgets/1/expenses/99", true)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	if msg := errorMessage(t, rr); msg != "Gasto no encontrado." {
		t.Errorf("error = %q", msg)
	}
}

// An expense reached through a budget that is not its parent answers 403,
// unlike the 401 of the budget ownership check.
func TestExpenseGateParentMismatch(t *testing.T) {
	f := newGateFixture(t)
	// budget 1 belongs to the caller, expense 2 belongs to budget 2
	rr := f.get(t, "/api/budgets/1/expenses/2", true)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rr.Code)
	}
	if msg := errorMessage(t, rr); msg != "Acción no válida." {
		t.Errorf("error = %q", msg)
	}
}

func TestExpenseGateAllowsMatchingParent(t *testing.T) {
	f := newGateFixture(t)

	rr := f.get(t, "/api/budgets/1/expenses/1", true)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rr.Code, rr.Body.String())
	}

	var body ExpenseResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.ID != 1 || body.BudgetID != 1 {
		t.Errorf("unexpected expense payload: %+v", body)
	}
}

func TestExpenseGateInvalidID(t *testing.T) {
	f := newGateFixture(t)

	rr := f.get(t, "/api/budgets/1/expenses/zero", true)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}
