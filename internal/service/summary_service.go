package service

import (
	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/util"
	"github.com/google/uuid"
)

// RecentTransactionsLimit caps the dashboard activity feed.
const RecentTransactionsLimit = 10

// SummaryService composes the dashboard read model. It only reads.
type SummaryService struct {
	transactionRepo domain.TransactionRepository
	goalRepo        domain.SavingsGoalRepository
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(transactionRepo domain.TransactionRepository, goalRepo domain.SavingsGoalRepository) *SummaryService {
	return &SummaryService{
		transactionRepo: transactionRepo,
		goalRepo:        goalRepo,
	}
}

// MonthlySummary builds the dashboard snapshot for one calendar month
func (s *SummaryService) MonthlySummary(userID uuid.UUID, month string) (*domain.MonthlySummary, error) {
	if month == "" {
		return nil, domain.ErrMissingMonth
	}
	start, end, err := util.MonthRange(month)
	if err != nil {
		return nil, domain.ErrInvalidMonth
	}

	monthlyIncome, err := s.transactionRepo.SumByTypeAndRange(userID, domain.TransactionTypeIncome, start, end)
	if err != nil {
		return nil, err
	}
	monthlyExpense, err := s.transactionRepo.SumByTypeAndRange(userID, domain.TransactionTypeExpense, start, end)
	if err != nil {
		return nil, err
	}

	totalIncome, err := s.transactionRepo.SumByType(userID, domain.TransactionTypeIncome)
	if err != nil {
		return nil, err
	}
	totalExpense, err := s.transactionRepo.SumByType(userID, domain.TransactionTypeExpense)
	if err != nil {
		return nil, err
	}

	totalSaved, err := s.goalRepo.SumCurrentAmounts(userID)
	if err != nil {
		return nil, err
	}

	expensesByCategory, err := s.transactionRepo.SumExpensesByCategory(userID, start, end)
	if err != nil {
		return nil, err
	}

	recent, err := s.transactionRepo.Recent(userID, RecentTransactionsLimit)
	if err != nil {
		return nil, err
	}

	return &domain.MonthlySummary{
		TotalBalance:       totalIncome.Sub(totalExpense),
		MonthlyIncome:      monthlyIncome,
		MonthlyExpense:     monthlyExpense,
		MonthlySavings:     monthlyIncome.Sub(monthlyExpense),
		TotalSaved:         totalSaved,
		ExpensesByCategory: expensesByCategory,
		RecentTransactions: recent,
	}, nil
}
