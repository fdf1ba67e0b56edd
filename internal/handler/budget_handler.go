package handler

import (
	"errors"
	"net/http"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/middleware"
	"github.com/centsible/centsible-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateBudgetRequest represents the create budget request body
type CreateBudgetRequest struct {
	CategoryID string `json:"categoryId"`
	Month      string `json:"month"`
	Limit      string `json:"limit"`
	Threshold  int32  `json:"threshold"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID         string `json:"id"`
	CategoryID string `json:"categoryId"`
	Month      string `json:"month"`
	Limit      string `json:"limit"`
	Threshold  int32  `json:"threshold"`
	IsActive   bool   `json:"isActive"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// BudgetSummaryResponse is a budget with the month's spend figures
type BudgetSummaryResponse struct {
	BudgetResponse
	Category    string `json:"category"`
	Spent       string `json:"spent"`
	Available   string `json:"available"`
	PercentUsed string `json:"percentUsed"`
	Alert       bool   `json:"alert"`
}

func toBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		ID:         b.ID.String(),
		CategoryID: b.CategoryID.String(),
		Month:      b.Month,
		Limit:      b.Limit.String(),
		Threshold:  b.Threshold,
		IsActive:   b.IsActive,
		CreatedAt:  b.CreatedAt.Format(timeLayout),
		UpdatedAt:  b.UpdatedAt.Format(timeLayout),
	}
}

// CreateBudget creates a new active budget for a category and month
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return NewValidationError(c, "Invalid category", []ValidationError{
			{Field: "categoryId", Message: "Must be a valid UUID"},
		})
	}
	limit, err := decimal.NewFromString(req.Limit)
	if err != nil {
		return NewValidationError(c, "Invalid limit", []ValidationError{
			{Field: "limit", Message: "Must be a valid decimal number"},
		})
	}

	budget, err := h.budgetService.CreateBudget(userID, service.CreateBudgetInput{
		CategoryID: categoryID,
		Month:      req.Month,
		Limit:      limit,
		Threshold:  req.Threshold,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidMonth):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "month", Message: "Must be in YYYY-MM format"},
			})
		case errors.Is(err, domain.ErrInvalidThreshold):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "threshold", Message: "Must be between 0 and 100"},
			})
		case errors.Is(err, domain.ErrInvalidLimit):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "limit", Message: "Limit must be positive"},
			})
		case errors.Is(err, domain.ErrCategoryNotFound):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "categoryId", Message: "Category not found"},
			})
		case errors.Is(err, domain.ErrTooManyActiveBudgets):
			return NewConflictError(c, "Active budget limit reached")
		case errors.Is(err, domain.ErrDuplicateBudget):
			return NewConflictError(c, "An active budget for this category and month already exists")
		}
		log.Error().Err(err).Msg("Failed to create budget")
		return NewInternalError(c, "Failed to create budget")
	}

	return c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

// GetBudgets lists active budgets with their spend summaries, optionally
// filtered to one month
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var month *string
	if m := c.QueryParam("month"); m != "" {
		month = &m
	}

	summaries, err := h.budgetService.ListWithSummary(userID, month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMonth) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "month", Message: "Must be in YYYY-MM format"},
			})
		}
		log.Error().Err(err).Msg("Failed to list budgets")
		return NewInternalError(c, "Failed to list budgets")
	}

	resp := make([]BudgetSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, BudgetSummaryResponse{
			BudgetResponse: toBudgetResponse(&s.Budget),
			Category:       s.CategoryName,
			Spent:          s.Spent.String(),
			Available:      s.Available.String(),
			PercentUsed:    s.PercentUsed.String(),
			Alert:          s.Alert,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateBudgetRequest represents the update budget request body.
// Omitted fields are left unchanged.
type UpdateBudgetRequest struct {
	CategoryID *string `json:"categoryId,omitempty"`
	Month      *string `json:"month,omitempty"`
	Limit      *string `json:"limit,omitempty"`
	Threshold  *int32  `json:"threshold,omitempty"`
}

// UpdateBudget applies a partial update to an owned budget
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	var req UpdateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	data := &domain.UpdateBudgetData{
		Month:     req.Month,
		Threshold: req.Threshold,
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return NewValidationError(c, "Invalid category", []ValidationError{
				{Field: "categoryId", Message: "Must be a valid UUID"},
			})
		}
		data.CategoryID = &categoryID
	}
	if req.Limit != nil {
		limit, err := decimal.NewFromString(*req.Limit)
		if err != nil {
			return NewValidationError(c, "Invalid limit", []ValidationError{
				{Field: "limit", Message: "Must be a valid decimal number"},
			})
		}
		data.Limit = &limit
	}

	budget, err := h.budgetService.UpdateBudget(userID, id, data)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBudgetNotFound):
			return NewNotFoundError(c, "Budget not found")
		case errors.Is(err, domain.ErrInvalidMonth):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "month", Message: "Must be in YYYY-MM format"},
			})
		case errors.Is(err, domain.ErrInvalidThreshold):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "threshold", Message: "Must be between 0 and 100"},
			})
		case errors.Is(err, domain.ErrInvalidLimit):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "limit", Message: "Limit must be positive"},
			})
		case errors.Is(err, domain.ErrCategoryNotFound):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "categoryId", Message: "Category not found"},
			})
		case errors.Is(err, domain.ErrDuplicateBudget):
			return NewConflictError(c, "An active budget for this category and month already exists")
		}
		log.Error().Err(err).Str("budget_id", id.String()).Msg("Failed to update budget")
		return NewInternalError(c, "Failed to update budget")
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// ToggleBudget flips a budget between active and paused
func (h *BudgetHandler) ToggleBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	budget, err := h.budgetService.ToggleBudget(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		if errors.Is(err, domain.ErrDuplicateBudget) {
			return NewConflictError(c, "An active budget for this category and month already exists")
		}
		log.Error().Err(err).Str("budget_id", id.String()).Msg("Failed to toggle budget")
		return NewInternalError(c, "Failed to toggle budget")
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// DeleteBudget soft-deletes a budget
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	if err := h.budgetService.DeleteBudget(userID, id); err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Str("budget_id", id.String()).Msg("Failed to delete budget")
		return NewInternalError(c, "Failed to delete budget")
	}

	return c.NoContent(http.StatusNoContent)
}
