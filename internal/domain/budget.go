package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxActiveBudgets is the cap on simultaneously active, non-deleted
// budgets per user. Enforced in the service so the error is actionable;
// backed by nothing in storage because the count spans rows.
const MaxActiveBudgets = 5

type Budget struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"userId"`
	CategoryID uuid.UUID       `json:"categoryId"`
	Month      string          `json:"month"` // YYYY-MM
	Limit      decimal.Decimal `json:"limit"`
	Threshold  int32           `json:"threshold"` // percent, 0..100
	IsActive   bool            `json:"isActive"`
	IsDeleted  bool            `json:"isDeleted"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// BudgetWithCategory is a budget joined with its category name.
type BudgetWithCategory struct {
	Budget
	CategoryName string `json:"category"`
}

// BudgetSummary is a budget enriched with the month's spend figures.
type BudgetSummary struct {
	BudgetWithCategory
	Spent       decimal.Decimal `json:"spent"`
	Available   decimal.Decimal `json:"available"`
	PercentUsed decimal.Decimal `json:"percentUsed"` // one decimal place
	Alert       bool            `json:"alert"`
}

// UpdateBudgetData is the whitelisted patch for budget updates.
// Nil fields are left unchanged.
type UpdateBudgetData struct {
	CategoryID *uuid.UUID
	Month      *string
	Limit      *decimal.Decimal
	Threshold  *int32
}

type BudgetRepository interface {
	Create(budget *Budget) (*Budget, error)
	// GetByID returns a non-deleted budget owned by the user.
	GetByID(userID, id uuid.UUID) (*Budget, error)
	Update(budget *Budget) (*Budget, error)
	// GetActive lists active, non-deleted budgets with category names,
	// optionally filtered to one month.
	GetActive(userID uuid.UUID, month *string) ([]*BudgetWithCategory, error)
	CountActive(userID uuid.UUID) (int64, error)
	ExistsActive(userID, categoryID uuid.UUID, month string) (bool, error)
	// SoftDelete marks the budget deleted and inactive.
	SoftDelete(userID, id uuid.UUID) error
}
