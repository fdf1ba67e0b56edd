package service

import (
	"errors"
	"testing"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newTransactionFixture() (*TransactionService, *testutil.MockTransactionRepository, *testutil.MockCategoryRepository, uuid.UUID) {
	categoryRepo := testutil.NewMockCategoryRepository()
	transactionRepo := testutil.NewMockTransactionRepository(categoryRepo)
	transactionService := NewTransactionService(transactionRepo, categoryRepo)
	return transactionService, transactionRepo, categoryRepo, uuid.New()
}

func TestCreateTransaction_Success(t *testing.T) {
	transactionService, _, categoryRepo, userID := newTransactionFixture()
	category := categoryRepo.AddCategory(&domain.Category{Name: "Groceries", AppliesTo: domain.AppliesToExpense})

	transaction, err := transactionService.CreateTransaction(userID, CreateTransactionInput{
		Type:       domain.TransactionTypeExpense,
		Amount:     decimal.NewFromFloat(42.50),
		OccurredOn: time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC),
		CategoryID: &category.ID,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if transaction.UserID != userID {
		t.Errorf("Expected owner %s, got %s", userID, transaction.UserID)
	}
	if !transaction.Amount.Equal(decimal.NewFromFloat(42.50)) {
		t.Errorf("Expected amount 42.5, got %s", transaction.Amount)
	}
}

func TestCreateTransaction_InvalidType(t *testing.T) {
	transactionService, _, _, userID := newTransactionFixture()

	_, err := transactionService.CreateTransaction(userID, CreateTransactionInput{
		Type:       "transfer",
		Amount:     decimal.NewFromInt(10),
		OccurredOn: time.Now(),
	})
	if err != domain.ErrInvalidType {
		t.Errorf("Expected ErrInvalidType, got %v", err)
	}
}

func TestCreateTransaction_NegativeAmount(t *testing.T) {
	transactionService, _, _, userID := newTransactionFixture()

	_, err := transactionService.CreateTransaction(userID, CreateTransactionInput{
		Type:       domain.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(-5),
		OccurredOn: time.Now(),
	})
	if err != domain.ErrInvalidAmount {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestCreateTransaction_UnknownCategory(t *testing.T) {
	transactionService, _, _, userID := newTransactionFixture()

	unknown := uuid.New()
	_, err := transactionService.CreateTransaction(userID, CreateTransactionInput{
		Type:       domain.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(10),
		OccurredOn: time.Now(),
		CategoryID: &unknown,
	})
	if err != domain.ErrCategoryNotFound {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}

func TestUpdateTransaction_CategoryMismatch(t *testing.T) {
	transactionService, transactionRepo, categoryRepo, userID := newTransactionFixture()
	salary := categoryRepo.AddCategory(&domain.Category{Name: "Salary", AppliesTo: domain.AppliesToIncome})

	transaction := transactionRepo.AddTransaction(&domain.Transaction{
		UserID:     userID,
		Type:       domain.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(10),
		OccurredOn: time.Now(),
	})

	_, err := transactionService.UpdateTransaction(userID, transaction.ID, &domain.UpdateTransactionData{
		CategoryID: &salary.ID,
	})
	if !errors.Is(err, domain.ErrCategoryMismatch) {
		t.Errorf("Expected ErrCategoryMismatch, got %v", err)
	}
}

func TestUpdateTransaction_TypeAndCategoryTogether(t *testing.T) {
	transactionService, transactionRepo, categoryRepo, userID := newTransactionFixture()
	salary := categoryRepo.AddCategory(&domain.Category{Name: "Salary", AppliesTo: domain.AppliesToIncome})

	transaction := transactionRepo.AddTransaction(&domain.Transaction{
		UserID:     userID,
		Type:       domain.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(10),
		OccurredOn: time.Now(),
	})

	// The category is checked against the patched type
	income := domain.TransactionTypeIncome
	updated, err := transactionService.UpdateTransaction(userID, transaction.ID, &domain.UpdateTransactionData{
		Type:       &income,
		CategoryID: &salary.ID,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.CategoryID == nil || *updated.CategoryID != salary.ID {
		t.Error("Expected category to be set")
	}
}

func TestUpdateTransaction_ClearCategory(t *testing.T) {
	transactionService, transactionRepo, categoryRepo, userID := newTransactionFixture()
	category := categoryRepo.AddCategory(&domain.Category{Name: "Groceries", AppliesTo: domain.AppliesToExpense})

	transaction := transactionRepo.AddTransaction(&domain.Transaction{
		UserID:     userID,
		Type:       domain.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(10),
		OccurredOn: time.Now(),
		CategoryID: &category.ID,
	})

	updated, err := transactionService.UpdateTransaction(userID, transaction.ID, &domain.UpdateTransactionData{
		ClearCategory: true,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.CategoryID != nil {
		t.Error("Expected category to be cleared")
	}
}

func TestUpdateTransaction_NotFoundForOtherUser(t *testing.T) {
	transactionService, transactionRepo, _, userID := newTransactionFixture()

	transaction := transactionRepo.AddTransaction(&domain.Transaction{
		UserID:     userID,
		Type:       domain.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(10),
		OccurredOn: time.Now(),
	})

	amount := decimal.NewFromInt(20)
	_, err := transactionService.UpdateTransaction(uuid.New(), transaction.ID, &domain.UpdateTransactionData{
		Amount: &amount,
	})
	if err != domain.ErrTransactionNotFound {
		t.Errorf("Expected ErrTransactionNotFound, got %v", err)
	}
}

func TestQueryTransactions_InvalidTypeFilter(t *testing.T) {
	transactionService, _, _, userID := newTransactionFixture()

	bad := domain.TransactionType("transfer")
	_, err := transactionService.QueryTransactions(userID, &domain.TransactionFilters{Type: &bad})
	if err != domain.ErrInvalidType {
		t.Errorf("Expected ErrInvalidType, got %v", err)
	}
}

func TestQueryTransactions_FiltersCombineWithAnd(t *testing.T) {
	transactionService, transactionRepo, categoryRepo, userID := newTransactionFixture()
	groceries := categoryRepo.AddCategory(&domain.Category{Name: "Groceries", AppliesTo: domain.AppliesToExpense})

	transactionRepo.AddTransaction(&domain.Transaction{
		UserID:     userID,
		Type:       domain.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(50),
		OccurredOn: time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC),
		CategoryID: &groceries.ID,
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID:     userID,
		Type:       domain.TransactionTypeIncome,
		Amount:     decimal.NewFromInt(100),
		OccurredOn: time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID:     userID,
		Type:       domain.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(75),
		OccurredOn: time.Date(2025, 10, 2, 0, 0, 0, 0, time.UTC),
		CategoryID: &groceries.ID,
	})

	expense := domain.TransactionTypeExpense
	name := "groc" // case-insensitive substring
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)
	page, err := transactionService.QueryTransactions(userID, &domain.TransactionFilters{
		Type:         &expense,
		CategoryName: &name,
		StartDate:    &start,
		EndDate:      &end,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if page.TotalItems != 1 {
		t.Fatalf("Expected 1 match, got %d", page.TotalItems)
	}
	if !page.Data[0].Amount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected the September grocery expense, got %s", page.Data[0].Amount)
	}
}

func TestSummaryByCategory_GroupsIncomeAndExpense(t *testing.T) {
	transactionService, transactionRepo, categoryRepo, userID := newTransactionFixture()
	side := categoryRepo.AddCategory(&domain.Category{Name: "Freelance", AppliesTo: domain.AppliesToIncome})

	transactionRepo.AddTransaction(&domain.Transaction{
		UserID:     userID,
		Type:       domain.TransactionTypeIncome,
		Amount:     decimal.NewFromInt(800),
		OccurredOn: time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC),
		CategoryID: &side.ID,
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID:     userID,
		Type:       domain.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(60),
		OccurredOn: time.Date(2025, 9, 6, 0, 0, 0, 0, time.UTC),
	})

	summaries, err := transactionService.SummaryByCategory(userID, "2025-09")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(summaries))
	}

	if summaries[0].Category != "Freelance" {
		t.Errorf("Expected 'Freelance' first, got %s", summaries[0].Category)
	}
	if !summaries[0].Income.Equal(decimal.NewFromInt(800)) {
		t.Errorf("Expected income 800, got %s", summaries[0].Income)
	}
	if !summaries[0].Expense.IsZero() {
		t.Errorf("Expected expense 0, got %s", summaries[0].Expense)
	}
	if summaries[1].Category != domain.UncategorizedName {
		t.Errorf("Expected 'Uncategorized' second, got %s", summaries[1].Category)
	}
}
