package handler

import (
	"github.com/dafibh/budgetly/budgetly-backend/internal/middleware"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handlers groups every HTTP handler the API exposes
type Handlers struct {
	Health      *HealthHandler
	Auth        *AuthHandler
	Profile     *ProfileHandler
	Category    *CategoryHandler
	Transaction *TransactionHandler
	Budget      *BudgetHandler
}

// RegisterRoutes sets up all API routes. Every route except register, login,
// health and the API docs requires a token and is rate limited per token.
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.TokenAuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers) {
	e.GET("/health", h.Health.Health)

	// API documentation (public)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API version 1
	api := e.Group("/api/v1")
	api.GET("/openapi.json", ServeOpenAPI3Spec)

	protected := []echo.MiddlewareFunc{authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter)}

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	// Auth routes (protected)
	auth.POST("/logout", h.Auth.Logout, protected...)
	auth.GET("/profile", h.Profile.GetProfile, protected...)
	auth.PUT("/profile", h.Profile.UpdateProfile, protected...)
	auth.PATCH("/profile", h.Profile.UpdateProfile, protected...)
	auth.DELETE("/profile", h.Profile.DeleteProfile, protected...)

	// Category routes (protected)
	categories := api.Group("/categories", protected...)
	categories.POST("", h.Category.CreateCategory)
	categories.GET("", h.Category.GetCategories)
	categories.GET("/:id", h.Category.GetCategory)
	categories.PUT("/:id", h.Category.UpdateCategory)
	categories.PATCH("/:id", h.Category.UpdateCategory)
	categories.DELETE("/:id", h.Category.DeleteCategory)

	// Transaction routes (protected)
	transactions := api.Group("/transactions", protected...)
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.GET("/summary", h.Transaction.GetSummary)
	transactions.GET("/:id", h.Transaction.GetTransaction)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)
	transactions.PATCH("/:id", h.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)

	// Budget routes (protected)
	budgets := api.Group("/budgets", protected...)
	budgets.POST("", h.Budget.CreateBudget)
	budgets.GET("", h.Budget.GetBudgets)
	budgets.GET("/:id", h.Budget.GetBudget)
	budgets.PUT("/:id", h.Budget.UpdateBudget)
	budgets.PATCH("/:id", h.Budget.UpdateBudget)
	budgets.DELETE("/:id", h.Budget.DeleteBudget)
}
