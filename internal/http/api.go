package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"cashtrackr/internal/auth"
	"cashtrackr/internal/domain"
	"cashtrackr/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth     service.AuthService
	budgets  service.BudgetService
	expenses service.ExpenseService
	tokens   *auth.TokenManager
	limiter  *rateLimiter
	logger   *logrus.Logger
}

// Config bundles the Handler collaborators.
type Config struct {
	Auth     service.AuthService
	Budgets  service.BudgetService
	Expenses service.ExpenseService
	Tokens   *auth.TokenManager
	Logger   *logrus.Logger

	// Auth endpoint throttling; RateLimit requests per RateWindow per client.
	RateLimit  int
	RateWindow time.Duration
}

func NewHandler(cfg Config) *Handler {
	return &Handler{
		auth:     cfg.Auth,
		budgets:  cfg.Budgets,
		expenses: cfg.Expenses,
		tokens:   cfg.Tokens,
		limiter:  newRateLimiter(cfg.RateLimit, cfg.RateWindow),
		logger:   cfg.Logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	if h.logger != nil {
		router.Use(requestLogger(h.logger))
	}

	api := router.Group("/api")

	authRoutes := api.Group("/auth", h.limiter.middleware())
	{
		authRoutes.POST("/create-account", h.createAccount)
		authRoutes.POST("/confirm-account", h.confirmAccount)
		authRoutes.POST("/login", h.login)
		authRoutes.POST("/forgot-password", h.forgotPassword)
		authRoutes.POST("/validate-token", h.validateToken)
		authRoutes.POST("/reset-password/:token", h.resetPassword)

		authRoutes.GET("/user", h.authenticate, h.currentUserProfile)
		authRoutes.POST("/update-password", h.authenticate, h.updatePassword)
		authRoutes.POST("/check-password", h.authenticate, h.checkPassword)
		authRoutes.PUT("/user", h.authenticate, h.updateProfile)
	}

	budgets := api.Group("/budgets", h.authenticate)
	{
		budgets.GET("", h.listBudgets)
		budgets.POST("", h.createBudget)

		scoped := budgets.Group("/:budgetId", h.loadBudget, h.budgetAccess)
		{
			scoped.GET("", h.getBudget)
			scoped.PUT("", h.updateBudget)
			scoped.DELETE("", h.deleteBudget)

			scoped.POST("/expenses", h.createExpense)

			expense := scoped.Group("/expenses/:expenseId", h.loadExpense, h.expenseBelongsToBudget)
			{
				expense.GET("", h.getExpense)
				expense.PUT("", h.updateExpense)
				expense.DELETE("", h.deleteExpense)
			}
		}
	}
}

func (h *Handler) internalError(c *gin.Context, err error) {
	if h.logger != nil {
		h.logger.WithField("path", c.Request.URL.Path).WithError(err).Error("request failed")
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": genericErrorMessage})
}

func (h *Handler) createAccount(c *gin.Context) {
	var req createAccountRequest
	if !bindJSON(c, &req) || !validate(c, req.fields()) {
		return
	}

	err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "El usuario con ese email ya esta registrado."})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, "Cuenta creada correctamente.")
}

func (h *Handler) confirmAccount(c *gin.Context) {
	var req confirmAccountRequest
	if !bindJSON(c, &req) || !validate(c, req.fields()) {
		return
	}

	if err := h.auth.ConfirmAccount(c.Request.Context(), req.Token); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token no válido"})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, "Cuenta confirmada correctamente")
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) || !validate(c, req.fields()) {
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado."})
		case errors.Is(err, service.ErrNotConfirmed):
			c.JSON(http.StatusForbidden, gin.H{"error": "La cuenta no ha sido confirmada."})
		case errors.Is(err, service.ErrInvalidPassword):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "La contraseña es incorrecta."})
		default:
			h.internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, token)
}

func (h *Handler) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if !bindJSON(c, &req) || !validate(c, req.fields()) {
		return
	}

	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado."})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, "Revisa tu email para instrucciones.")
}

func (h *Handler) validateToken(c *gin.Context) {
	var req confirmAccountRequest
	if !bindJSON(c, &req) || !validate(c, req.fields()) {
		return
	}

	if err := h.auth.ValidateToken(c.Request.Context(), req.Token); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token no valido"})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, "Token válido, asigna un nuevo password.")
}

func (h *Handler) resetPassword(c *gin.Context) {
	token := c.Param("token")

	var req resetPasswordRequest
	if !bindJSON(c, &req) || !validate(c, req.fields(token)) {
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), token, req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token no valido"})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, "Contraseña actualizada correctamente.")
}

func (h *Handler) currentUserProfile(c *gin.Context) {
	c.JSON(http.StatusOK, userToResponse(currentUser(c)))
}

func (h *Handler) updatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if !bindJSON(c, &req) || !validate(c, req.fields()) {
		return
	}

	err := h.auth.UpdatePassword(c.Request.Context(), currentUser(c).ID, req.CurrentPassword, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "La contraseña actual es incorrecto."})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, "Contraseña actualizada correctamente.")
}

func (h *Handler) checkPassword(c *gin.Context) {
	var req checkPasswordRequest
	if !bindJSON(c, &req) || !validate(c, req.fields()) {
		return
	}

	if err := h.auth.CheckPassword(c.Request.Context(), currentUser(c).ID, req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "La contraseña actual es incorrecto."})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, "Contraseña actual correcto.")
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if !bindJSON(c, &req) || !validate(c, req.fields()) {
		return
	}

	err := h.auth.UpdateProfile(c.Request.Context(), currentUser(c).ID, req.Name, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Este email ya esta registrado."})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, "Perfil actualizado correctamente.")
}

func (h *Handler) listBudgets(c *gin.Context) {
	budgets, err := h.budgets.ListForUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.internalError(c, err)
		return
	}

	resp := make([]BudgetResponse, len(budgets))
	for i := range budgets {
		resp[i] = budgetToResponse(budgets[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createBudget(c *gin.Context) {
	var req budgetInputRequest
	if !bindJSON(c, &req) || !validate(c, req.fields()) {
		return
	}

	if _, err := h.budgets.Create(c.Request.Context(), currentUser(c).ID, req.Name, *req.Amount); err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, "Presupuesto creado correctamente.")
}

func (h *Handler) getBudget(c *gin.Context) {
	budget, err := h.budgets.GetWithExpenses(c.Request.Context(), currentBudget(c).ID)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, budgetToDetailResponse(budget))
}

func (h *Handler) updateBudget(c *gin.Context) {
	var req budgetInputRequest
	if !bindJSON(c, &req) || !validate(c, req.fields()) {
		return
	}

	if err := h.budgets.Update(c.Request.Context(), currentBudget(c), req.Name, *req.Amount); err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, "Presupuesto actualizado correctamente.")
}

func (h *Handler) deleteBudget(c *gin.Context) {
	if err := h.budgets.Delete(c.Request.Context(), currentBudget(c).ID); err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, "Presupuesto eliminado correctamente.")
}

func (h *Handler) createExpense(c *gin.Context) {
	var req expenseInputRequest
	if !bindJSON(c, &req) || !validate(c, req.fields()) {
		return
	}

	if _, err := h.expenses.Create(c.Request.Context(), currentBudget(c).ID, req.Name, *req.Amount); err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, "Gasto agregado correctamente.")
}

func (h *Handler) getExpense(c *gin.Context) {
	c.JSON(http.StatusOK, expenseToResponse(*currentExpense(c)))
}

func (h *Handler) updateExpense(c *gin.Context) {
	var req expenseInputRequest
	if !bindJSON(c, &req) || !validate(c, req.fields()) {
		return
	}

	if err := h.expenses.Update(c.Request.Context(), currentExpense(c), req.Name, *req.Amount); err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, "Gasto actualizado correctamente.")
}

func (h *Handler) deleteExpense(c *gin.Context) {
	if err := h.expenses.Delete(c.Request.Context(), currentExpense(c).ID); err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, "Gasto eliminado correctamente.")
}

type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type BudgetResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	UserID    int64   `json:"userId"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

type BudgetDetailResponse struct {
	BudgetResponse
	Expenses []ExpenseResponse `json:"expenses"`
}

type ExpenseResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	BudgetID  int64   `json:"budgetId"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

func budgetToResponse(budget domain.Budget) BudgetResponse {
	return BudgetResponse{
		ID:        budget.ID,
		Name:      budget.Name,
		Amount:    budget.Amount,
		UserID:    budget.UserID,
		CreatedAt: budget.CreatedAt.Format(time.RFC3339),
		UpdatedAt: budget.UpdatedAt.Format(time.RFC3339),
	}
}

func budgetToDetailResponse(budget *domain.Budget) BudgetDetailResponse {
	resp := BudgetDetailResponse{
		BudgetResponse: budgetToResponse(*budget),
		Expenses:       make([]ExpenseResponse, len(budget.Expenses)),
	}
	for i := range budget.Expenses {
		resp.Expenses[i] = expenseToResponse(budget.Expenses[i])
	}
	return resp
}

func expenseToResponse(expense domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:        expense.ID,
		Name:      expense.Name,
		Amount:    expense.Amount,
		BudgetID:  expense.BudgetID,
		CreatedAt: expense.CreatedAt.Format(time.RFC3339),
		UpdatedAt: expense.UpdatedAt.Format(time.RFC3339),
	}
}
