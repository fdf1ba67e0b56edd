package postgres

import (
	"context"
	"fmt"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// SavingsGoalRepository implements domain.SavingsGoalRepository using PostgreSQL
type SavingsGoalRepository struct {
	pool *pgxpool.Pool
}

// NewSavingsGoalRepository creates a new SavingsGoalRepository
func NewSavingsGoalRepository(pool *pgxpool.Pool) *SavingsGoalRepository {
	return &SavingsGoalRepository{pool: pool}
}

const goalColumns = `id, user_id, name, description, target_amount, current_amount, due_date, is_deleted, created_at, updated_at`

// Create persists a new goal. The partial unique index backstops the
// duplicate-name check under concurrent creates.
func (r *SavingsGoalRepository) Create(goal *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	ctx := context.Background()

	target, err := decimalToPgNumeric(goal.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO savings_goals (user_id, name, description, target_amount, current_amount, due_date)
		VALUES ($1, $2, $3, $4, 0, $5)
		RETURNING `+goalColumns,
		goal.UserID, goal.Name, goal.Description, target, goal.DueDate)

	created, err := scanGoal(row)
	if err != nil {
		if isUniqueViolation(err, "savings_goals_user_name_key") {
			return nil, domain.ErrDuplicateGoalName
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a non-deleted goal owned by the user
func (r *SavingsGoalRepository) GetByID(userID, id uuid.UUID) (*domain.SavingsGoal, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+goalColumns+`
		FROM savings_goals
		WHERE user_id = $1 AND id = $2 AND NOT is_deleted`,
		userID, id)

	goal, err := scanGoal(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

// GetAll lists non-deleted goals for the user
func (r *SavingsGoalRepository) GetAll(userID uuid.UUID) ([]*domain.SavingsGoal, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+goalColumns+`
		FROM savings_goals
		WHERE user_id = $1 AND NOT is_deleted
		ORDER BY due_date, name`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*domain.SavingsGoal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// ExistsByName reports whether a non-deleted goal with the name exists
func (r *SavingsGoalRepository) ExistsByName(userID uuid.UUID, name string) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM savings_goals
			WHERE user_id = $1 AND name = $2 AND NOT is_deleted
		)`,
		userID, name).Scan(&exists)
	return exists, err
}

// Update persists the full goal row
func (r *SavingsGoalRepository) Update(goal *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	ctx := context.Background()

	target, err := decimalToPgNumeric(goal.TargetAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid target amount: %w", err)
	}
	current, err := decimalToPgNumeric(goal.CurrentAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid current amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE savings_goals
		SET name = $3, description = $4, target_amount = $5, current_amount = $6, due_date = $7, updated_at = now()
		WHERE user_id = $1 AND id = $2 AND NOT is_deleted
		RETURNING `+goalColumns,
		goal.UserID, goal.ID, goal.Name, goal.Description, target, current, goal.DueDate)

	updated, err := scanGoal(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrGoalNotFound
		}
		if isUniqueViolation(err, "savings_goals_user_name_key") {
			return nil, domain.ErrDuplicateGoalName
		}
		return nil, err
	}
	return updated, nil
}

// SoftDelete marks a goal deleted
func (r *SavingsGoalRepository) SoftDelete(userID, id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		UPDATE savings_goals
		SET is_deleted = TRUE, updated_at = now()
		WHERE user_id = $1 AND id = $2 AND NOT is_deleted`,
		userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

// AddMoney performs the accrual in a single database transaction: the
// balance check, the goal update and the ledger debit either all commit
// or none do. A per-user advisory lock is taken before the balance sum
// so concurrent accruals serialize on the whole check-then-debit, not
// just on the goal row; two calls racing the same funds cannot both
// pass the balance check. The balance is checked before the goal lookup
// to keep the error precedence of the API (insufficient balance wins
// over not found).
func (r *SavingsGoalRepository) AddMoney(userID, goalID uuid.UUID, amount decimal.Decimal) (*domain.SavingsGoal, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`,
		userID); err != nil {
		return nil, err
	}

	var income, expense pgtype.Numeric
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1`,
		userID).Scan(&income, &expense)
	if err != nil {
		return nil, err
	}

	balance := pgNumericToDecimal(income).Sub(pgNumericToDecimal(expense))
	if amount.GreaterThan(balance) {
		return nil, domain.ErrInsufficientBalance
	}

	row := tx.QueryRow(ctx, `
		SELECT `+goalColumns+`
		FROM savings_goals
		WHERE user_id = $1 AND id = $2 AND NOT is_deleted
		FOR UPDATE`,
		userID, goalID)

	goal, err := scanGoal(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}

	// Clamp at the target; excess beyond the target is discarded.
	newAmount := goal.CurrentAmount.Add(amount)
	if newAmount.GreaterThan(goal.TargetAmount) {
		newAmount = goal.TargetAmount
	}

	newCurrent, err := decimalToPgNumeric(newAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row = tx.QueryRow(ctx, `
		UPDATE savings_goals
		SET current_amount = $3, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING `+goalColumns,
		userID, goalID, newCurrent)

	updated, err := scanGoal(row)
	if err != nil {
		return nil, err
	}

	// The ledger debit records the full requested amount, not the
	// clamped delta, so the earmarked money leaves the balance.
	debit, err := decimalToPgNumeric(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	description := "Savings goal contribution: " + goal.Name
	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (user_id, type, amount, occurred_on, description)
		VALUES ($1, 'expense', $2, CURRENT_DATE, $3)`,
		userID, debit, description)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return updated, nil
}

// SumCurrentAmounts totals current_amount across non-deleted goals
func (r *SavingsGoalRepository) SumCurrentAmounts(userID uuid.UUID) (decimal.Decimal, error) {
	ctx := context.Background()
	var total pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(current_amount), 0)
		FROM savings_goals
		WHERE user_id = $1 AND NOT is_deleted`,
		userID).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

func scanGoal(row pgx.Row) (*domain.SavingsGoal, error) {
	var g domain.SavingsGoal
	var target, current pgtype.Numeric
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.Description, &target, &current,
		&g.DueDate, &g.IsDeleted, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	g.TargetAmount = pgNumericToDecimal(target)
	g.CurrentAmount = pgNumericToDecimal(current)
	return &g, nil
}
