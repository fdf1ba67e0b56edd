package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GoalStatus string

const (
	GoalStatusActive  GoalStatus = "active"
	GoalStatusOverdue GoalStatus = "overdue"
)

type SavingsGoal struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	DueDate       time.Time       `json:"dueDate"`
	IsDeleted     bool            `json:"isDeleted"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// GoalProgress is a goal enriched with the derived reporting fields.
type GoalProgress struct {
	SavingsGoal
	ProgressPercent decimal.Decimal `json:"progress"`     // two decimal places, capped at 100
	Status          GoalStatus      `json:"status"`       // overdue once past due_date
	MonthlyQuota    decimal.Decimal `json:"monthlyQuota"` // two decimal places
}

// UpdateGoalData is the whitelisted patch for goal updates.
// Nil fields are left unchanged.
type UpdateGoalData struct {
	Name         *string
	Description  *string
	TargetAmount *decimal.Decimal
	DueDate      *time.Time
}

type SavingsGoalRepository interface {
	Create(goal *SavingsGoal) (*SavingsGoal, error)
	// GetByID returns a non-deleted goal owned by the user.
	GetByID(userID, id uuid.UUID) (*SavingsGoal, error)
	GetAll(userID uuid.UUID) ([]*SavingsGoal, error)
	ExistsByName(userID uuid.UUID, name string) (bool, error)
	Update(goal *SavingsGoal) (*SavingsGoal, error)
	SoftDelete(userID, id uuid.UUID) error
	// AddMoney runs the accrual atomically: within one storage
	// transaction it checks the user's available balance, locks the
	// goal, clamps the new amount at the target and records the ledger
	// debit for the full requested amount.
	AddMoney(userID, goalID uuid.UUID, amount decimal.Decimal) (*SavingsGoal, error)
	// SumCurrentAmounts totals current_amount across non-deleted goals.
	SumCurrentAmounts(userID uuid.UUID) (decimal.Decimal, error)
}
