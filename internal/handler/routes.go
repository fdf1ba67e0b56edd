package handler

import (
	"github.com/centsible/centsible-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, authHandler *AuthHandler, profileHandler *ProfileHandler, transactionHandler *TransactionHandler, budgetHandler *BudgetHandler, goalHandler *SavingsGoalHandler, summaryHandler *SummaryHandler, categoryHandler *CategoryHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// User routes; registration and recovery are public
	users := api.Group("/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.POST("/forgot-password", authHandler.ForgotPassword)
	users.POST("/reset-password", authHandler.ResetPassword)

	account := api.Group("/users")
	account.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	account.GET("/profile", profileHandler.GetProfile)
	account.PUT("/profile", profileHandler.UpdateProfile)
	account.PUT("/change-password", profileHandler.ChangePassword)

	// Transaction routes (protected)
	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.POST("/filter", transactionHandler.FilterTransactions)
	transactions.GET("/summary", transactionHandler.SummaryByCategory)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Budget routes (protected)
	budgets := api.Group("/budgets")
	budgets.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.PUT("/alerts/config", profileHandler.UpdateAlertConfig)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.PATCH("/:id/toggle", budgetHandler.ToggleBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	// Savings goal routes (protected)
	goals := api.Group("/savings-goals")
	goals.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.PATCH("/:id/add-money", goalHandler.AddMoney)
	goals.DELETE("/:id", goalHandler.DeleteGoal)

	// Summary routes (protected)
	summary := api.Group("/summary")
	summary.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	summary.GET("", summaryHandler.GetSummary)

	// Category routes (protected)
	categories := api.Group("/categories")
	categories.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	categories.GET("", categoryHandler.GetCategories)
	categories.POST("", categoryHandler.CreateCategory)
}
