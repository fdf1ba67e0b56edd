package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid reports whether the type is one of the two known kinds.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// UncategorizedName is the category name reported for transactions
// without a category.
const UncategorizedName = "Uncategorized"

type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	OccurredOn  time.Time       `json:"occurredOn"`
	CategoryID  *uuid.UUID      `json:"categoryId,omitempty"`
	Description *string         `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// TransactionWithCategory is a transaction joined with its category name.
type TransactionWithCategory struct {
	Transaction
	CategoryName string `json:"categoryName"`
}

// UpdateTransactionData is the whitelisted patch applied by the
// transaction update operation. Nil fields are left unchanged.
type UpdateTransactionData struct {
	Type          *TransactionType
	Amount        *decimal.Decimal
	OccurredOn    *time.Time
	CategoryID    *uuid.UUID
	ClearCategory bool
	Description   *string
}

type TransactionFilters struct {
	Type         *TransactionType
	CategoryName *string // case-insensitive substring match
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int32
	PageSize     int32
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginatedTransactions struct {
	Data       []*TransactionWithCategory `json:"data"`
	Page       int32                      `json:"page"`
	PageSize   int32                      `json:"pageSize"`
	TotalItems int64                      `json:"totalItems"`
	TotalPages int32                      `json:"totalPages"`
}

// CategoryTotal is an aggregated spend (or income) bucket for one category.
type CategoryTotal struct {
	CategoryName string          `json:"category"`
	Total        decimal.Decimal `json:"total"`
	Count        int64           `json:"count"`
}

// CategoryTypeTotal is a per-category total split by transaction type.
type CategoryTypeTotal struct {
	CategoryName string          `json:"category"`
	Type         TransactionType `json:"type"`
	Total        decimal.Decimal `json:"total"`
}

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(userID, id uuid.UUID) (*Transaction, error)
	Update(transaction *Transaction) (*Transaction, error)
	Delete(userID, id uuid.UUID) error
	Query(userID uuid.UUID, filters *TransactionFilters) (*PaginatedTransactions, error)
	// SumByTypeAndRange sums amounts of the given type over the
	// half-open interval [start, end). Zero when nothing matches.
	SumByTypeAndRange(userID uuid.UUID, txType TransactionType, start, end time.Time) (decimal.Decimal, error)
	// SumByType sums amounts of the given type over the user's lifetime.
	SumByType(userID uuid.UUID, txType TransactionType) (decimal.Decimal, error)
	// SumExpensesForCategory sums expense amounts in one category over
	// the half-open interval [start, end).
	SumExpensesForCategory(userID, categoryID uuid.UUID, start, end time.Time) (decimal.Decimal, error)
	Recent(userID uuid.UUID, limit int32) ([]*TransactionWithCategory, error)
	SumExpensesByCategory(userID uuid.UUID, start, end time.Time) ([]*CategoryTotal, error)
	SumByCategoryAndType(userID uuid.UUID, start, end time.Time) ([]*CategoryTypeTotal, error)
}
