package service

import (
	"testing"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/testutil"
)

func TestListCategories_FilterByApplicability(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	categoryService := NewCategoryService(categoryRepo)

	categoryRepo.AddCategory(&domain.Category{Name: "Salary", AppliesTo: domain.AppliesToIncome})
	categoryRepo.AddCategory(&domain.Category{Name: "Groceries", AppliesTo: domain.AppliesToExpense})
	categoryRepo.AddCategory(&domain.Category{Name: "Rent", AppliesTo: domain.AppliesToExpense})

	expense := domain.AppliesToExpense
	categories, err := categoryService.ListCategories(&expense)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(categories) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(categories))
	}
	if categories[0].Name != "Groceries" || categories[1].Name != "Rent" {
		t.Errorf("Expected name-sorted expense categories, got %s, %s", categories[0].Name, categories[1].Name)
	}
}

func TestListCategories_InvalidFilter(t *testing.T) {
	categoryService := NewCategoryService(testutil.NewMockCategoryRepository())

	bad := domain.CategoryApplicability("transfer")
	_, err := categoryService.ListCategories(&bad)
	if err != domain.ErrInvalidType {
		t.Errorf("Expected ErrInvalidType, got %v", err)
	}
}

func TestCreateCategory_TrimsName(t *testing.T) {
	categoryService := NewCategoryService(testutil.NewMockCategoryRepository())

	category, err := categoryService.CreateCategory("  Pets  ", domain.AppliesToExpense)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if category.Name != "Pets" {
		t.Errorf("Expected trimmed name 'Pets', got %q", category.Name)
	}
}

func TestCreateCategory_Duplicate(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	categoryService := NewCategoryService(categoryRepo)
	categoryRepo.AddCategory(&domain.Category{Name: "Pets", AppliesTo: domain.AppliesToExpense})

	_, err := categoryService.CreateCategory("Pets", domain.AppliesToExpense)
	if err != domain.ErrDuplicateCategory {
		t.Errorf("Expected ErrDuplicateCategory, got %v", err)
	}
}

func TestCreateCategory_EmptyName(t *testing.T) {
	categoryService := NewCategoryService(testutil.NewMockCategoryRepository())

	_, err := categoryService.CreateCategory("   ", domain.AppliesToExpense)
	if err != domain.ErrInvalidInput {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateCategory_InvalidApplicability(t *testing.T) {
	categoryService := NewCategoryService(testutil.NewMockCategoryRepository())

	_, err := categoryService.CreateCategory("Pets", "transfer")
	if err != domain.ErrInvalidType {
		t.Errorf("Expected ErrInvalidType, got %v", err)
	}
}
