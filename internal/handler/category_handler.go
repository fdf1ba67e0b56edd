package handler

import (
	"errors"
	"net/http"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AppliesTo string `json:"appliesTo"`
}

func toCategoryResponse(cat *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        cat.ID.String(),
		Name:      cat.Name,
		AppliesTo: string(cat.AppliesTo),
	}
}

// GetCategories lists categories, optionally filtered by applicability
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	var appliesTo *domain.CategoryApplicability
	if a := c.QueryParam("appliesTo"); a != "" {
		applicability := domain.CategoryApplicability(a)
		appliesTo = &applicability
	}

	categories, err := h.categoryService.ListCategories(appliesTo)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidType) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "appliesTo", Message: "Must be one of: income, expense"},
			})
		}
		log.Error().Err(err).Msg("Failed to list categories")
		return NewInternalError(c, "Failed to list categories")
	}

	resp := make([]CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		resp = append(resp, toCategoryResponse(cat))
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateCategoryRequest represents the create category request body
type CreateCategoryRequest struct {
	Name      string `json:"name"`
	AppliesTo string `json:"appliesTo"`
}

// CreateCategory adds a new globally unique category
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.CreateCategory(req.Name, domain.CategoryApplicability(req.AppliesTo))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		case errors.Is(err, domain.ErrInvalidType):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "appliesTo", Message: "Must be one of: income, expense"},
			})
		case errors.Is(err, domain.ErrDuplicateCategory):
			return NewConflictError(c, "A category with this name already exists")
		}
		log.Error().Err(err).Msg("Failed to create category")
		return NewInternalError(c, "Failed to create category")
	}

	return c.JSON(http.StatusCreated, toCategoryResponse(category))
}
