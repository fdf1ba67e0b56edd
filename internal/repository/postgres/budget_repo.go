package postgres

import (
	"context"
	"fmt"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = `id, user_id, category_id, month, limit_amount, threshold, is_active, is_deleted, created_at, updated_at`

// Create persists a new budget. The partial unique index backstops the
// duplicate check under concurrent creates.
func (r *BudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	ctx := context.Background()

	limit, err := decimalToPgNumeric(budget.Limit)
	if err != nil {
		return nil, fmt.Errorf("invalid limit: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO budgets (user_id, category_id, month, limit_amount, threshold, is_active, is_deleted)
		VALUES ($1, $2, $3, $4, $5, TRUE, FALSE)
		RETURNING `+budgetColumns,
		budget.UserID, budget.CategoryID, budget.Month, limit, budget.Threshold)

	created, err := scanBudget(row)
	if err != nil {
		if isUniqueViolation(err, "budgets_user_category_month_key") {
			return nil, domain.ErrDuplicateBudget
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a non-deleted budget owned by the user
func (r *BudgetRepository) GetByID(userID, id uuid.UUID) (*domain.Budget, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE user_id = $1 AND id = $2 AND NOT is_deleted`,
		userID, id)

	budget, err := scanBudget(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

// Update persists the full budget row
func (r *BudgetRepository) Update(budget *domain.Budget) (*domain.Budget, error) {
	ctx := context.Background()

	limit, err := decimalToPgNumeric(budget.Limit)
	if err != nil {
		return nil, fmt.Errorf("invalid limit: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE budgets
		SET category_id = $3, month = $4, limit_amount = $5, threshold = $6, is_active = $7, updated_at = now()
		WHERE user_id = $1 AND id = $2 AND NOT is_deleted
		RETURNING `+budgetColumns,
		budget.UserID, budget.ID, budget.CategoryID, budget.Month, limit, budget.Threshold, budget.IsActive)

	updated, err := scanBudget(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrBudgetNotFound
		}
		if isUniqueViolation(err, "budgets_user_category_month_key") {
			return nil, domain.ErrDuplicateBudget
		}
		return nil, err
	}
	return updated, nil
}

// GetActive lists active, non-deleted budgets with category names
func (r *BudgetRepository) GetActive(userID uuid.UUID, month *string) ([]*domain.BudgetWithCategory, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT b.id, b.user_id, b.category_id, b.month, b.limit_amount, b.threshold,
		       b.is_active, b.is_deleted, b.created_at, b.updated_at, c.name
		FROM budgets b
		JOIN categories c ON c.id = b.category_id
		WHERE b.user_id = $1 AND b.is_active AND NOT b.is_deleted
		  AND ($2::text IS NULL OR b.month = $2)
		ORDER BY b.month DESC, c.name`,
		userID, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []*domain.BudgetWithCategory
	for rows.Next() {
		var b domain.BudgetWithCategory
		var limit pgtype.Numeric
		err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Month, &limit, &b.Threshold,
			&b.IsActive, &b.IsDeleted, &b.CreatedAt, &b.UpdatedAt, &b.CategoryName)
		if err != nil {
			return nil, err
		}
		b.Limit = pgNumericToDecimal(limit)
		budgets = append(budgets, &b)
	}
	return budgets, rows.Err()
}

// CountActive counts active, non-deleted budgets for the user
func (r *BudgetRepository) CountActive(userID uuid.UUID) (int64, error) {
	ctx := context.Background()
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM budgets
		WHERE user_id = $1 AND is_active AND NOT is_deleted`,
		userID).Scan(&count)
	return count, err
}

// ExistsActive reports whether an active, non-deleted budget exists for
// the (category, month) pair
func (r *BudgetRepository) ExistsActive(userID, categoryID uuid.UUID, month string) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM budgets
			WHERE user_id = $1 AND category_id = $2 AND month = $3 AND is_active AND NOT is_deleted
		)`,
		userID, categoryID, month).Scan(&exists)
	return exists, err
}

// SoftDelete marks a budget deleted and inactive
func (r *BudgetRepository) SoftDelete(userID, id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		UPDATE budgets
		SET is_deleted = TRUE, is_active = FALSE, updated_at = now()
		WHERE user_id = $1 AND id = $2 AND NOT is_deleted`,
		userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var b domain.Budget
	var limit pgtype.Numeric
	err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Month, &limit, &b.Threshold,
		&b.IsActive, &b.IsDeleted, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Limit = pgNumericToDecimal(limit)
	return &b, nil
}
