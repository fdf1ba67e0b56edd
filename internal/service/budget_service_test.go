package service

import (
	"testing"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newBudgetFixture() (*BudgetService, *testutil.MockBudgetRepository, *testutil.MockCategoryRepository, *testutil.MockTransactionRepository, uuid.UUID) {
	categoryRepo := testutil.NewMockCategoryRepository()
	transactionRepo := testutil.NewMockTransactionRepository(categoryRepo)
	budgetRepo := testutil.NewMockBudgetRepository(categoryRepo)
	budgetService := NewBudgetService(budgetRepo, categoryRepo, transactionRepo)
	return budgetService, budgetRepo, categoryRepo, transactionRepo, uuid.New()
}

func TestCreateBudget_Success(t *testing.T) {
	budgetService, _, categoryRepo, _, userID := newBudgetFixture()
	category := categoryRepo.AddCategory(&domain.Category{Name: "Groceries", AppliesTo: domain.AppliesToExpense})

	budget, err := budgetService.CreateBudget(userID, CreateBudgetInput{
		CategoryID: category.ID,
		Month:      "2025-09",
		Limit:      decimal.NewFromInt(500),
		Threshold:  80,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !budget.IsActive {
		t.Error("Expected new budget to be active")
	}
	if budget.Month != "2025-09" {
		t.Errorf("Expected month '2025-09', got %s", budget.Month)
	}
}

func TestCreateBudget_InvalidMonth(t *testing.T) {
	budgetService, _, categoryRepo, _, userID := newBudgetFixture()
	category := categoryRepo.AddCategory(&domain.Category{Name: "Groceries", AppliesTo: domain.AppliesToExpense})

	for _, month := range []string{"2025/09", "September", "2025-9", "2025-13", "2025-00", ""} {
		_, err := budgetService.CreateBudget(userID, CreateBudgetInput{
			CategoryID: category.ID,
			Month:      month,
			Limit:      decimal.NewFromInt(500),
			Threshold:  80,
		})
		if err != domain.ErrInvalidMonth {
			t.Errorf("Expected ErrInvalidMonth for %q, got %v", month, err)
		}
	}
}

func TestCreateBudget_InvalidThreshold(t *testing.T) {
	budgetService, _, categoryRepo, _, userID := newBudgetFixture()
	category := categoryRepo.AddCategory(&domain.Category{Name: "Groceries", AppliesTo: domain.AppliesToExpense})

	for _, threshold := range []int32{-1, 101} {
		_, err := budgetService.CreateBudget(userID, CreateBudgetInput{
			CategoryID: category.ID,
			Month:      "2025-09",
			Limit:      decimal.NewFromInt(500),
			Threshold:  threshold,
		})
		if err != domain.ErrInvalidThreshold {
			t.Errorf("Expected ErrInvalidThreshold for %d, got %v", threshold, err)
		}
	}
}

func TestCreateBudget_InvalidLimit(t *testing.T) {
	budgetService, _, categoryRepo, _, userID := newBudgetFixture()
	category := categoryRepo.AddCategory(&domain.Category{Name: "Groceries", AppliesTo: domain.AppliesToExpense})

	_, err := budgetService.CreateBudget(userID, CreateBudgetInput{
		CategoryID: category.ID,
		Month:      "2025-09",
		Limit:      decimal.Zero,
		Threshold:  80,
	})
	if err != domain.ErrInvalidLimit {
		t.Errorf("Expected ErrInvalidLimit, got %v", err)
	}
}

func TestCreateBudget_ActiveCapReached(t *testing.T) {
	budgetService, budgetRepo, categoryRepo, _, userID := newBudgetFixture()
	category := categoryRepo.AddCategory(&domain.Category{Name: "Groceries", AppliesTo: domain.AppliesToExpense})

	for i := 0; i < domain.MaxActiveBudgets; i++ {
		budgetRepo.AddBudget(&domain.Budget{
			UserID:     userID,
			CategoryID: uuid.New(),
			Month:      "2025-09",
			Limit:      decimal.NewFromInt(100),
			IsActive:   true,
		})
	}

	_, err := budgetService.CreateBudget(userID, CreateBudgetInput{
		CategoryID: category.ID,
		Month:      "2025-10",
		Limit:      decimal.NewFromInt(500),
		Threshold:  80,
	})
	if err != domain.ErrTooManyActiveBudgets {
		t.Errorf("Expected ErrTooManyActiveBudgets, got %v", err)
	}
}

func TestCreateBudget_PausedAndDeletedDoNotCountTowardCap(t *testing.T) {
	budgetService, budgetRepo, categoryRepo, _, userID := newBudgetFixture()
	category := categoryRepo.AddCategory(&domain.Category{Name: "Groceries", AppliesTo: domain.AppliesToExpense})

	for i := 0; i < domain.MaxActiveBudgets; i++ {
		budgetRepo.AddBudget(&domain.Budget{
			UserID:     userID,
			CategoryID: uuid.New(),
			Month:      "2025-09",
			Limit:      decimal.NewFromInt(100),
			IsActive:   i%2 == 0,
			IsDeleted:  i%2 != 0,
		})
	}

	_, err := budgetService.CreateBudget(userID, CreateBudgetInput{
		CategoryID: category.ID,
		Month:      "2025-10",
		Limit:      decimal.NewFromInt(500),
		Threshold:  80,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestCreateBudget_DuplicateSlot(t *testing.T) {
	budgetService, budgetRepo, categoryRepo, _, userID := newBudgetFixture()
	category := categoryRepo.AddCategory(&domain.Category{Name: "Groceries", AppliesTo: domain.AppliesToExpense})

	budgetRepo.AddBudget(&domain.Budget{
		UserID:     userID,
		CategoryID: category.ID,
		Month:      "2025-09",
		Limit:      decimal.NewFromInt(100),
		IsActive:   true,
	})

	_, err := budgetService.CreateBudget(userID, CreateBudgetInput{
		CategoryID: category.ID,
		Month:      "2025-09",
		Limit:      decimal.NewFromInt(500),
		Threshold:  80,
	})
	if err != domain.ErrDuplicateBudget {
		t.Errorf("Expected ErrDuplicateBudget, got %v", err)
	}
}

func TestListWithSummary_PercentAndAvailable(t *testing.T) {
	budgetService, budgetRepo, categoryRepo, transactionRepo, userID := newBudgetFixture()
	category := categoryRepo.AddCategory(&domain.Category{Name: "Groceries", AppliesTo: domain.AppliesToExpense})

	budgetRepo.AddBudget(&domain.Budget{
		UserID:     userID,
		CategoryID: category.ID,
		Month:      "2025-09",
		Limit:      decimal.NewFromInt(500),
		Threshold:  80,
		IsActive:   true,
	})

	transactionRepo.AddTransaction(&domain.Transaction{
		UserID:     userID,
		Type:       domain.TransactionTypeExpense,
		Amount:     decimal.NewFromFloat(85.50),
		OccurredOn: time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC),
		CategoryID: &category.ID,
	})

	summaries, err := budgetService.ListWithSummary(userID, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("Expected 1 summary, got %d", len(summaries))
	}

	s := summaries[0]
	if !s.Spent.Equal(decimal.NewFromFloat(85.50)) {
		t.Errorf("Expected spent 85.5, got %s", s.Spent)
	}
	if !s.Available.Equal(decimal.NewFromFloat(414.50)) {
		t.Errorf("Expected available 414.5, got %s", s.Available)
	}
	if s.PercentUsed.String() != "17.1" {
		t.Errorf("Expected percent used 17.1, got %s", s.PercentUsed)
	}
	if s.Alert {
		t.Error("Expected no alert below the threshold")
	}
}

func TestListWithSummary_AlertAtThreshold(t *testing.T) {
	budgetService, budgetRepo, categoryRepo, transactionRepo, userID := newBudgetFixture()
	category := categoryRepo.AddCategory(&domain.Category{Name: "Dining Out", AppliesTo: domain.AppliesToExpense})

	budgetRepo.AddBudget(&domain.Budget{
		UserID:     userID,
		CategoryID: category.ID,
		Month:      "2025-09",
		Limit:      decimal.NewFromInt(200),
		Threshold:  75,
		IsActive:   true,
	})

	transactionRepo.AddTransaction(&domain.Transaction{
		UserID:     userID,
		Type:       domain.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(160),
		OccurredOn: time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC),
		CategoryID: &category.ID,
	})

	summaries, err := budgetService.ListWithSummary(userID, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("Expected 1 summary, got %d", len(summaries))
	}

	s := summaries[0]
	if s.PercentUsed.String() != "80" {
		t.Errorf("Expected percent used 80, got %s", s.PercentUsed)
	}
	if !s.Alert {
		t.Error("Expected alert at 80 percent with threshold 75")
	}
}

func TestListWithSummary_IgnoresOtherMonthsAndCategories(t *testing.T) {
	budgetService, budgetRepo, categoryRepo, transactionRepo, userID := newBudgetFixture()
	groceries := categoryRepo.AddCategory(&domain.Category{Name: "Groceries", AppliesTo: domain.AppliesToExpense})
	transport := categoryRepo.AddCategory(&domain.Category{Name: "Transport", AppliesTo: domain.AppliesToExpense})

	budgetRepo.AddBudget(&domain.Budget{
		UserID:     userID,
		CategoryID: groceries.ID,
		Month:      "2025-09",
		Limit:      decimal.NewFromInt(500),
		Threshold:  80,
		IsActive:   true,
	})

	// Outside the month
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID:     userID,
		Type:       domain.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(50),
		OccurredOn: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		CategoryID: &groceries.ID,
	})
	// Different category
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID:     userID,
		Type:       domain.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(30),
		OccurredOn: time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC),
		CategoryID: &transport.ID,
	})
	// Income in the same category never counts as spend
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID:     userID,
		Type:       domain.TransactionTypeIncome,
		Amount:     decimal.NewFromInt(100),
		OccurredOn: time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC),
		CategoryID: &groceries.ID,
	})

	summaries, err := budgetService.ListWithSummary(userID, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !summaries[0].Spent.IsZero() {
		t.Errorf("Expected spent 0, got %s", summaries[0].Spent)
	}
}

func TestToggleBudget_FlipsActiveFlag(t *testing.T) {
	budgetService, budgetRepo, categoryRepo, _, userID := newBudgetFixture()
	category := categoryRepo.AddCategory(&domain.Category{Name: "Groceries", AppliesTo: domain.AppliesToExpense})

	budget := budgetRepo.AddBudget(&domain.Budget{
		UserID:     userID,
		CategoryID: category.ID,
		Month:      "2025-09",
		Limit:      decimal.NewFromInt(500),
		IsActive:   true,
	})

	toggled, err := budgetService.ToggleBudget(userID, budget.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if toggled.IsActive {
		t.Error("Expected budget to be paused after toggle")
	}

	toggled, err = budgetService.ToggleBudget(userID, budget.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !toggled.IsActive {
		t.Error("Expected budget to be active after second toggle")
	}
}

func TestUpdateBudget_MoveToOccupiedSlot(t *testing.T) {
	budgetService, budgetRepo, categoryRepo, _, userID := newBudgetFixture()
	category := categoryRepo.AddCategory(&domain.Category{Name: "Groceries", AppliesTo: domain.AppliesToExpense})

	budgetRepo.AddBudget(&domain.Budget{
		UserID:     userID,
		CategoryID: category.ID,
		Month:      "2025-10",
		Limit:      decimal.NewFromInt(100),
		IsActive:   true,
	})
	second := budgetRepo.AddBudget(&domain.Budget{
		UserID:     userID,
		CategoryID: category.ID,
		Month:      "2025-09",
		Limit:      decimal.NewFromInt(100),
		IsActive:   true,
	})

	month := "2025-10"
	_, err := budgetService.UpdateBudget(userID, second.ID, &domain.UpdateBudgetData{Month: &month})
	if err != domain.ErrDuplicateBudget {
		t.Errorf("Expected ErrDuplicateBudget, got %v", err)
	}
}

func TestUpdateBudget_SameSlotPatch(t *testing.T) {
	budgetService, budgetRepo, categoryRepo, _, userID := newBudgetFixture()
	category := categoryRepo.AddCategory(&domain.Category{Name: "Groceries", AppliesTo: domain.AppliesToExpense})

	budget := budgetRepo.AddBudget(&domain.Budget{
		UserID:     userID,
		CategoryID: category.ID,
		Month:      "2025-09",
		Limit:      decimal.NewFromInt(500),
		IsActive:   true,
	})

	// A full-object update repeats the current slot; the budget must not
	// conflict with itself.
	month := "2025-09"
	limit := decimal.NewFromInt(600)
	updated, err := budgetService.UpdateBudget(userID, budget.ID, &domain.UpdateBudgetData{
		CategoryID: &category.ID,
		Month:      &month,
		Limit:      &limit,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !updated.Limit.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Expected limit 600, got %s", updated.Limit)
	}
	if updated.Month != "2025-09" {
		t.Errorf("Expected month '2025-09', got %s", updated.Month)
	}
}

func TestDeleteBudget_SoftDeletesAndFreesSlot(t *testing.T) {
	budgetService, budgetRepo, categoryRepo, _, userID := newBudgetFixture()
	category := categoryRepo.AddCategory(&domain.Category{Name: "Groceries", AppliesTo: domain.AppliesToExpense})

	budget := budgetRepo.AddBudget(&domain.Budget{
		UserID:     userID,
		CategoryID: category.ID,
		Month:      "2025-09",
		Limit:      decimal.NewFromInt(500),
		IsActive:   true,
	})

	if err := budgetService.DeleteBudget(userID, budget.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := budgetService.ToggleBudget(userID, budget.ID); err != domain.ErrBudgetNotFound {
		t.Errorf("Expected ErrBudgetNotFound after delete, got %v", err)
	}

	// The slot is free again
	_, err := budgetService.CreateBudget(userID, CreateBudgetInput{
		CategoryID: category.ID,
		Month:      "2025-09",
		Limit:      decimal.NewFromInt(300),
		Threshold:  50,
	})
	if err != nil {
		t.Fatalf("Expected no error recreating the slot, got %v", err)
	}
}

func TestDeleteBudget_NotFoundForOtherUser(t *testing.T) {
	budgetService, budgetRepo, categoryRepo, _, userID := newBudgetFixture()
	category := categoryRepo.AddCategory(&domain.Category{Name: "Groceries", AppliesTo: domain.AppliesToExpense})

	budget := budgetRepo.AddBudget(&domain.Budget{
		UserID:     userID,
		CategoryID: category.ID,
		Month:      "2025-09",
		Limit:      decimal.NewFromInt(500),
		IsActive:   true,
	})

	if err := budgetService.DeleteBudget(uuid.New(), budget.ID); err != domain.ErrBudgetNotFound {
		t.Errorf("Expected ErrBudgetNotFound, got %v", err)
	}
}
