package service

import (
	"strings"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// SavingsGoalService handles savings goal business logic
type SavingsGoalService struct {
	goalRepo domain.SavingsGoalRepository
	now      func() time.Time
}

// NewSavingsGoalService creates a new SavingsGoalService
func NewSavingsGoalService(goalRepo domain.SavingsGoalRepository) *SavingsGoalService {
	return &SavingsGoalService{goalRepo: goalRepo, now: time.Now}
}

// CreateGoalInput contains the data to create a savings goal
type CreateGoalInput struct {
	Name         string
	Description  string
	TargetAmount decimal.Decimal
	DueDate      time.Time
}

// CreateGoal validates name uniqueness and persists a new goal
func (s *SavingsGoalService) CreateGoal(userID uuid.UUID, input CreateGoalInput) (*domain.SavingsGoal, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if !input.TargetAmount.IsPositive() {
		return nil, domain.ErrInvalidTarget
	}
	if input.DueDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}

	exists, err := s.goalRepo.ExistsByName(userID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateGoalName
	}

	goal := &domain.SavingsGoal{
		UserID:        userID,
		Name:          name,
		Description:   input.Description,
		TargetAmount:  input.TargetAmount,
		CurrentAmount: decimal.Zero,
		DueDate:       input.DueDate,
	}
	return s.goalRepo.Create(goal)
}

// ListGoals returns every non-deleted goal enriched with progress,
// status and the monthly quota needed to reach the target in time
func (s *SavingsGoalService) ListGoals(userID uuid.UUID) ([]*domain.GoalProgress, error) {
	goals, err := s.goalRepo.GetAll(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	enriched := make([]*domain.GoalProgress, 0, len(goals))
	for _, g := range goals {
		progress := &domain.GoalProgress{
			SavingsGoal:     *g,
			ProgressPercent: progressPercent(g.CurrentAmount, g.TargetAmount),
			Status:          domain.GoalStatusActive,
			MonthlyQuota:    monthlyQuota(g.TargetAmount, g.CurrentAmount, now, g.DueDate),
		}
		if now.After(g.DueDate) {
			progress.Status = domain.GoalStatusOverdue
		}
		enriched = append(enriched, progress)
	}
	return enriched, nil
}

// progressPercent returns current/target*100 capped at 100, rounded to
// two decimals, zero when the target is zero.
func progressPercent(current, target decimal.Decimal) decimal.Decimal {
	if target.IsZero() {
		return decimal.Zero
	}
	percent := current.Div(target).Mul(oneHundred)
	if percent.GreaterThan(oneHundred) {
		percent = oneHundred
	}
	return percent.Round(2)
}

// monthlyQuota divides the remaining amount over the months left until
// the due date. The current partial month counts as a contribution
// period, hence months+1.
func monthlyQuota(target, current decimal.Decimal, now, due time.Time) decimal.Decimal {
	remaining := target.Sub(current)
	months := util.MonthsUntil(now, due)
	if months == 0 {
		return remaining.Round(2)
	}
	return remaining.Div(decimal.NewFromInt(int64(months + 1))).Round(2)
}

// UpdateGoal applies a whitelisted patch to an owned, non-deleted goal
func (s *SavingsGoalService) UpdateGoal(userID, id uuid.UUID, data *domain.UpdateGoalData) (*domain.SavingsGoal, error) {
	goal, err := s.goalRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	if data.Name != nil {
		name := strings.TrimSpace(*data.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		if name != goal.Name {
			exists, err := s.goalRepo.ExistsByName(userID, name)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, domain.ErrDuplicateGoalName
			}
		}
		goal.Name = name
	}
	if data.Description != nil {
		goal.Description = *data.Description
	}
	if data.TargetAmount != nil {
		if !data.TargetAmount.IsPositive() {
			return nil, domain.ErrInvalidTarget
		}
		if data.TargetAmount.LessThan(goal.CurrentAmount) {
			return nil, domain.ErrTargetBelowCurrent
		}
		goal.TargetAmount = *data.TargetAmount
	}
	if data.DueDate != nil {
		goal.DueDate = *data.DueDate
	}

	return s.goalRepo.Update(goal)
}

// DeleteGoal soft-deletes a goal
func (s *SavingsGoalService) DeleteGoal(userID, id uuid.UUID) error {
	return s.goalRepo.SoftDelete(userID, id)
}

// AddMoney accrues money into a goal, funded from the available ledger
// balance. The balance check, clamp and ledger debit run atomically in
// the repository.
func (s *SavingsGoalService) AddMoney(userID, goalID uuid.UUID, amount decimal.Decimal) (*domain.SavingsGoal, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	return s.goalRepo.AddMoney(userID, goalID, amount)
}
