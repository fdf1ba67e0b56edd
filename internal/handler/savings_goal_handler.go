package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/middleware"
	"github.com/centsible/centsible-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SavingsGoalHandler handles savings goal HTTP requests
type SavingsGoalHandler struct {
	goalService *service.SavingsGoalService
}

// NewSavingsGoalHandler creates a new SavingsGoalHandler
func NewSavingsGoalHandler(goalService *service.SavingsGoalService) *SavingsGoalHandler {
	return &SavingsGoalHandler{goalService: goalService}
}

// CreateGoalRequest represents the create savings goal request body
type CreateGoalRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	TargetAmount string `json:"targetAmount"`
	DueDate      string `json:"dueDate"`
}

// GoalResponse represents a savings goal in API responses
type GoalResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	TargetAmount  string `json:"targetAmount"`
	CurrentAmount string `json:"currentAmount"`
	DueDate       string `json:"dueDate"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// GoalProgressResponse is a goal with its derived reporting fields
type GoalProgressResponse struct {
	GoalResponse
	Progress     string `json:"progress"`
	Status       string `json:"status"`
	MonthlyQuota string `json:"monthlyQuota"`
}

func toGoalResponse(g *domain.SavingsGoal) GoalResponse {
	return GoalResponse{
		ID:            g.ID.String(),
		Name:          g.Name,
		Description:   g.Description,
		TargetAmount:  g.TargetAmount.String(),
		CurrentAmount: g.CurrentAmount.String(),
		DueDate:       g.DueDate.Format(dateLayout),
		CreatedAt:     g.CreatedAt.Format(timeLayout),
		UpdatedAt:     g.UpdatedAt.Format(timeLayout),
	}
}

// CreateGoal creates a new savings goal
func (h *SavingsGoalHandler) CreateGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req CreateGoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	target, err := decimal.NewFromString(req.TargetAmount)
	if err != nil {
		return NewValidationError(c, "Invalid target amount", []ValidationError{
			{Field: "targetAmount", Message: "Must be a valid decimal number"},
		})
	}
	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		return NewValidationError(c, "Invalid due date", []ValidationError{
			{Field: "dueDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	goal, err := h.goalService.CreateGoal(userID, service.CreateGoalInput{
		Name:         req.Name,
		Description:  req.Description,
		TargetAmount: target,
		DueDate:      dueDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		case errors.Is(err, domain.ErrInvalidTarget):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "targetAmount", Message: "Target amount must be positive"},
			})
		case errors.Is(err, domain.ErrDuplicateGoalName):
			return NewConflictError(c, "A goal with this name already exists")
		}
		log.Error().Err(err).Msg("Failed to create savings goal")
		return NewInternalError(c, "Failed to create savings goal")
	}

	return c.JSON(http.StatusCreated, toGoalResponse(goal))
}

// GetGoals lists goals with progress, status and monthly quota
func (h *SavingsGoalHandler) GetGoals(c echo.Context) error {
	userID := middleware.GetUserID(c)

	goals, err := h.goalService.ListGoals(userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list savings goals")
		return NewInternalError(c, "Failed to list savings goals")
	}

	resp := make([]GoalProgressResponse, 0, len(goals))
	for _, g := range goals {
		resp = append(resp, GoalProgressResponse{
			GoalResponse: toGoalResponse(&g.SavingsGoal),
			Progress:     g.ProgressPercent.String(),
			Status:       string(g.Status),
			MonthlyQuota: g.MonthlyQuota.String(),
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateGoalRequest represents the update goal request body. Omitted
// fields are left unchanged.
type UpdateGoalRequest struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	TargetAmount *string `json:"targetAmount,omitempty"`
	DueDate      *string `json:"dueDate,omitempty"`
}

// UpdateGoal applies a partial update to an owned goal
func (h *SavingsGoalHandler) UpdateGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	var req UpdateGoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	data := &domain.UpdateGoalData{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.TargetAmount != nil {
		target, err := decimal.NewFromString(*req.TargetAmount)
		if err != nil {
			return NewValidationError(c, "Invalid target amount", []ValidationError{
				{Field: "targetAmount", Message: "Must be a valid decimal number"},
			})
		}
		data.TargetAmount = &target
	}
	if req.DueDate != nil {
		dueDate, err := time.Parse(dateLayout, *req.DueDate)
		if err != nil {
			return NewValidationError(c, "Invalid due date", []ValidationError{
				{Field: "dueDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		data.DueDate = &dueDate
	}

	goal, err := h.goalService.UpdateGoal(userID, id, data)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrGoalNotFound):
			return NewNotFoundError(c, "Goal not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		case errors.Is(err, domain.ErrInvalidTarget):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "targetAmount", Message: "Target amount must be positive"},
			})
		case errors.Is(err, domain.ErrTargetBelowCurrent):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "targetAmount", Message: "Target amount must not be below the saved amount"},
			})
		case errors.Is(err, domain.ErrDuplicateGoalName):
			return NewConflictError(c, "A goal with this name already exists")
		}
		log.Error().Err(err).Str("goal_id", id.String()).Msg("Failed to update savings goal")
		return NewInternalError(c, "Failed to update savings goal")
	}

	return c.JSON(http.StatusOK, toGoalResponse(goal))
}

// DeleteGoal soft-deletes a goal
func (h *SavingsGoalHandler) DeleteGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	if err := h.goalService.DeleteGoal(userID, id); err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		log.Error().Err(err).Str("goal_id", id.String()).Msg("Failed to delete savings goal")
		return NewInternalError(c, "Failed to delete savings goal")
	}

	return c.NoContent(http.StatusNoContent)
}

// AddMoneyRequest represents the accrual request body
type AddMoneyRequest struct {
	Amount string `json:"amount"`
}

// AddMoney moves money from the ledger balance into a goal
func (h *SavingsGoalHandler) AddMoney(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	var req AddMoneyRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	goal, err := h.goalService.AddMoney(userID, id, amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		case errors.Is(err, domain.ErrInsufficientBalance):
			return NewValidationError(c, "Insufficient balance", []ValidationError{
				{Field: "amount", Message: "Amount exceeds the available balance"},
			})
		case errors.Is(err, domain.ErrGoalNotFound):
			return NewNotFoundError(c, "Goal not found")
		}
		log.Error().Err(err).Str("goal_id", id.String()).Msg("Failed to add money to savings goal")
		return NewInternalError(c, "Failed to add money to savings goal")
	}

	return c.JSON(http.StatusOK, toGoalResponse(goal))
}
