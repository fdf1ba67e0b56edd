package service

import (
	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetService handles budget business logic
type BudgetService struct {
	budgetRepo      domain.BudgetRepository
	categoryRepo    domain.CategoryRepository
	transactionRepo domain.TransactionRepository
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository, categoryRepo domain.CategoryRepository, transactionRepo domain.TransactionRepository) *BudgetService {
	return &BudgetService{
		budgetRepo:      budgetRepo,
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
	}
}

// CreateBudgetInput contains the data to create a budget
type CreateBudgetInput struct {
	CategoryID uuid.UUID
	Month      string
	Limit      decimal.Decimal
	Threshold  int32
}

// CreateBudget validates the cap and uniqueness invariants and persists
// a new active budget
func (s *BudgetService) CreateBudget(userID uuid.UUID, input CreateBudgetInput) (*domain.Budget, error) {
	if !util.IsMonthFormat(input.Month) {
		return nil, domain.ErrInvalidMonth
	}
	if input.Threshold < 0 || input.Threshold > 100 {
		return nil, domain.ErrInvalidThreshold
	}
	if !input.Limit.IsPositive() {
		return nil, domain.ErrInvalidLimit
	}
	if _, err := s.categoryRepo.GetByID(input.CategoryID); err != nil {
		return nil, err
	}

	count, err := s.budgetRepo.CountActive(userID)
	if err != nil {
		return nil, err
	}
	if count >= domain.MaxActiveBudgets {
		return nil, domain.ErrTooManyActiveBudgets
	}

	exists, err := s.budgetRepo.ExistsActive(userID, input.CategoryID, input.Month)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateBudget
	}

	budget := &domain.Budget{
		UserID:     userID,
		CategoryID: input.CategoryID,
		Month:      input.Month,
		Limit:      input.Limit,
		Threshold:  input.Threshold,
		IsActive:   true,
	}
	return s.budgetRepo.Create(budget)
}

// UpdateBudget applies a whitelisted patch to an owned, non-deleted budget
func (s *BudgetService) UpdateBudget(userID, id uuid.UUID, data *domain.UpdateBudgetData) (*domain.Budget, error) {
	budget, err := s.budgetRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	origCategoryID := budget.CategoryID
	origMonth := budget.Month

	if data.Month != nil {
		if !util.IsMonthFormat(*data.Month) {
			return nil, domain.ErrInvalidMonth
		}
		budget.Month = *data.Month
	}
	if data.Threshold != nil {
		if *data.Threshold < 0 || *data.Threshold > 100 {
			return nil, domain.ErrInvalidThreshold
		}
		budget.Threshold = *data.Threshold
	}
	if data.Limit != nil {
		if !data.Limit.IsPositive() {
			return nil, domain.ErrInvalidLimit
		}
		budget.Limit = *data.Limit
	}
	if data.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(*data.CategoryID); err != nil {
			return nil, err
		}
		budget.CategoryID = *data.CategoryID
	}

	// Moving an active budget onto an occupied (category, month) slot
	// violates uniqueness. Patches that repeat the current slot are not
	// moves and must not conflict with the budget's own row.
	if budget.IsActive && (budget.CategoryID != origCategoryID || budget.Month != origMonth) {
		exists, err := s.budgetRepo.ExistsActive(userID, budget.CategoryID, budget.Month)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateBudget
		}
	}

	return s.budgetRepo.Update(budget)
}

// ListWithSummary enriches every active budget with the month's spend
// figures derived from the ledger
func (s *BudgetService) ListWithSummary(userID uuid.UUID, month *string) ([]*domain.BudgetSummary, error) {
	if month != nil && !util.IsMonthFormat(*month) {
		return nil, domain.ErrInvalidMonth
	}

	budgets, err := s.budgetRepo.GetActive(userID, month)
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.BudgetSummary, 0, len(budgets))
	for _, b := range budgets {
		start, end, err := util.MonthRange(b.Month)
		if err != nil {
			return nil, err
		}

		spent, err := s.transactionRepo.SumExpensesForCategory(userID, b.CategoryID, start, end)
		if err != nil {
			return nil, err
		}

		summary := &domain.BudgetSummary{
			BudgetWithCategory: *b,
			Spent:              spent,
			Available:          b.Limit.Sub(spent),
			PercentUsed:        percentUsed(spent, b.Limit),
		}
		summary.Alert = b.IsActive && decimal.NewFromInt32(b.Threshold).LessThanOrEqual(summary.PercentUsed)
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// percentUsed returns spent/limit*100 rounded to one decimal, zero when
// the limit is zero.
func percentUsed(spent, limit decimal.Decimal) decimal.Decimal {
	if limit.IsZero() {
		return decimal.Zero
	}
	return spent.Div(limit).Mul(decimal.NewFromInt(100)).Round(1)
}

// ToggleBudget flips the active flag of an owned, non-deleted budget
func (s *BudgetService) ToggleBudget(userID, id uuid.UUID) (*domain.Budget, error) {
	budget, err := s.budgetRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	budget.IsActive = !budget.IsActive
	return s.budgetRepo.Update(budget)
}

// DeleteBudget soft-deletes a budget, keeping it for historical reports
func (s *BudgetService) DeleteBudget(userID, id uuid.UUID) error {
	return s.budgetRepo.SoftDelete(userID, id)
}
