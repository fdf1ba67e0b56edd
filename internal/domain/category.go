package domain

import (
	"time"

	"github.com/google/uuid"
)

// CategoryApplicability says which transaction type a category is for.
type CategoryApplicability string

const (
	AppliesToIncome  CategoryApplicability = "income"
	AppliesToExpense CategoryApplicability = "expense"
)

func (a CategoryApplicability) IsValid() bool {
	return a == AppliesToIncome || a == AppliesToExpense
}

// Category is shared reference data; names are globally unique.
type Category struct {
	ID        uuid.UUID             `json:"id"`
	Name      string                `json:"name"`
	AppliesTo CategoryApplicability `json:"appliesTo"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	GetByID(id uuid.UUID) (*Category, error)
	// GetAll lists categories sorted by name, optionally filtered by
	// applicability.
	GetAll(appliesTo *CategoryApplicability) ([]*Category, error)
}
