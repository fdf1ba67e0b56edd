package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService handles ledger business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, categoryRepo domain.CategoryRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
	}
}

// CreateTransactionInput contains the data to create a transaction
type CreateTransactionInput struct {
	Type        domain.TransactionType
	Amount      decimal.Decimal
	OccurredOn  time.Time
	CategoryID  *uuid.UUID
	Description *string
}

// CreateTransaction validates and persists a new transaction
func (s *TransactionService) CreateTransaction(userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	if !input.Type.IsValid() {
		return nil, domain.ErrInvalidType
	}
	if input.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(*input.CategoryID); err != nil {
			return nil, err
		}
	}

	transaction := &domain.Transaction{
		UserID:      userID,
		Type:        input.Type,
		Amount:      input.Amount,
		OccurredOn:  input.OccurredOn,
		CategoryID:  input.CategoryID,
		Description: input.Description,
	}
	return s.transactionRepo.Create(transaction)
}

// UpdateTransaction applies a whitelisted patch to an owned transaction
func (s *TransactionService) UpdateTransaction(userID, id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	if data.Type != nil {
		if !data.Type.IsValid() {
			return nil, domain.ErrInvalidType
		}
		transaction.Type = *data.Type
	}
	if data.Amount != nil {
		if data.Amount.IsNegative() {
			return nil, domain.ErrInvalidAmount
		}
		transaction.Amount = *data.Amount
	}
	if data.OccurredOn != nil {
		transaction.OccurredOn = *data.OccurredOn
	}
	if data.Description != nil {
		transaction.Description = data.Description
	}
	if data.ClearCategory {
		transaction.CategoryID = nil
	} else if data.CategoryID != nil {
		// A category change must match the (possibly also patched) type.
		category, err := s.categoryRepo.GetByID(*data.CategoryID)
		if err != nil {
			return nil, err
		}
		if string(category.AppliesTo) != string(transaction.Type) {
			return nil, fmt.Errorf("%w: category %q does not apply to %s",
				domain.ErrCategoryMismatch, category.Name, transaction.Type)
		}
		transaction.CategoryID = data.CategoryID
	}

	return s.transactionRepo.Update(transaction)
}

// DeleteTransaction removes an owned transaction permanently
func (s *TransactionService) DeleteTransaction(userID, id uuid.UUID) error {
	return s.transactionRepo.Delete(userID, id)
}

// QueryTransactions returns a filtered, paginated page of transactions
func (s *TransactionService) QueryTransactions(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if filters != nil && filters.Type != nil && !filters.Type.IsValid() {
		return nil, domain.ErrInvalidType
	}
	return s.transactionRepo.Query(userID, filters)
}

// CategorySummary is a per-category income/expense pair for one month
type CategorySummary struct {
	Category string          `json:"category"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
}

// SummaryByCategory aggregates income and expense per category for a
// calendar month
func (s *TransactionService) SummaryByCategory(userID uuid.UUID, month string) ([]*CategorySummary, error) {
	start, end, err := util.MonthRange(month)
	if err != nil {
		return nil, domain.ErrInvalidMonth
	}

	totals, err := s.transactionRepo.SumByCategoryAndType(userID, start, end)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string]*CategorySummary)
	for _, t := range totals {
		entry, ok := grouped[t.CategoryName]
		if !ok {
			entry = &CategorySummary{
				Category: t.CategoryName,
				Income:   decimal.Zero,
				Expense:  decimal.Zero,
			}
			grouped[t.CategoryName] = entry
		}
		switch t.Type {
		case domain.TransactionTypeIncome:
			entry.Income = t.Total
		case domain.TransactionTypeExpense:
			entry.Expense = t.Total
		}
	}

	summaries := make([]*CategorySummary, 0, len(grouped))
	for _, entry := range grouped {
		summaries = append(summaries, entry)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Category < summaries[j].Category
	})
	return summaries, nil
}
