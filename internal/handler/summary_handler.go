package handler

import (
	"errors"
	"net/http"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/middleware"
	"github.com/centsible/centsible-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// SummaryHandler handles dashboard summary HTTP requests
type SummaryHandler struct {
	summaryService *service.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(summaryService *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// CategoryTotalResponse is an aggregated spend bucket for one category
type CategoryTotalResponse struct {
	Category string `json:"category"`
	Total    string `json:"total"`
	Count    int64  `json:"count"`
}

// MonthlySummaryResponse is the dashboard snapshot for one month
type MonthlySummaryResponse struct {
	TotalBalance       string                  `json:"totalBalance"`
	MonthlyIncome      string                  `json:"monthlyIncome"`
	MonthlyExpense     string                  `json:"monthlyExpense"`
	MonthlySavings     string                  `json:"monthlySavings"`
	TotalSaved         string                  `json:"totalSaved"`
	ExpensesByCategory []CategoryTotalResponse `json:"expensesByCategory"`
	RecentTransactions []TransactionResponse   `json:"recentTransactions"`
}

// GetSummary builds the dashboard snapshot for one calendar month
func (h *SummaryHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)

	summary, err := h.summaryService.MonthlySummary(userID, c.QueryParam("month"))
	if err != nil {
		if errors.Is(err, domain.ErrMissingMonth) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "month", Message: "Month is required"},
			})
		}
		if errors.Is(err, domain.ErrInvalidMonth) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "month", Message: "Must be in YYYY-MM format"},
			})
		}
		log.Error().Err(err).Msg("Failed to build monthly summary")
		return NewInternalError(c, "Failed to build monthly summary")
	}

	expenses := make([]CategoryTotalResponse, 0, len(summary.ExpensesByCategory))
	for _, e := range summary.ExpensesByCategory {
		expenses = append(expenses, CategoryTotalResponse{
			Category: e.CategoryName,
			Total:    e.Total.String(),
			Count:    e.Count,
		})
	}

	recent := make([]TransactionResponse, 0, len(summary.RecentTransactions))
	for _, t := range summary.RecentTransactions {
		recent = append(recent, toTransactionWithCategoryResponse(t))
	}

	return c.JSON(http.StatusOK, MonthlySummaryResponse{
		TotalBalance:       summary.TotalBalance.String(),
		MonthlyIncome:      summary.MonthlyIncome.String(),
		MonthlyExpense:     summary.MonthlyExpense.String(),
		MonthlySavings:     summary.MonthlySavings.String(),
		TotalSaved:         summary.TotalSaved.String(),
		ExpensesByCategory: expenses,
		RecentTransactions: recent,
	})
}
