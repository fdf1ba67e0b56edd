package service

import (
	"strings"

	"github.com/centsible/centsible-backend/internal/domain"
)

// CategoryService handles category reference data
type CategoryService struct {
	categoryRepo domain.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// ListCategories returns categories sorted by name, optionally filtered
// by applicability
func (s *CategoryService) ListCategories(appliesTo *domain.CategoryApplicability) ([]*domain.Category, error) {
	if appliesTo != nil && !appliesTo.IsValid() {
		return nil, domain.ErrInvalidType
	}
	return s.categoryRepo.GetAll(appliesTo)
}

// CreateCategory persists a new globally unique category
func (s *CategoryService) CreateCategory(name string, appliesTo domain.CategoryApplicability) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if !appliesTo.IsValid() {
		return nil, domain.ErrInvalidType
	}
	return s.categoryRepo.Create(&domain.Category{Name: name, AppliesTo: appliesTo})
}
