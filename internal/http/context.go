package http

import (
	"github.com/gin-gonic/gin"

	"cashtrackr/internal/domain"
)

// Context keys owned by the middleware chain. Each gate is the only writer
// of its key; handlers read through the typed accessors below.
const (
	ctxKeyUser    = "authenticatedUser"
	ctxKeyBudget  = "budget"
	ctxKeyExpense = "expense"
)

func setCurrentUser(c *gin.Context, user *domain.User) {
	c.Set(ctxKeyUser, user)
}

func currentUser(c *gin.Context) *domain.User {
	return c.MustGet(ctxKeyUser).(*domain.User)
}

func setCurrentBudget(c *gin.Context, budget *domain.Budget) {
	c.Set(ctxKeyBudget, budget)
}

func currentBudget(c *gin.Context) *domain.Budget {
	return c.MustGet(ctxKeyBudget).(*domain.Budget)
}

func setCurrentExpense(c *gin.Context, expense *domain.Expense) {
	c.Set(ctxKeyExpense, expense)
}

func currentExpense(c *gin.Context) *domain.Expense {
	return c.MustGet(ctxKeyExpense).(*domain.Expense)
}
