package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, user_id, type, amount, occurred_on, category_id, description, created_at, updated_at`

// Create persists a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (user_id, type, amount, occurred_on, category_id, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+transactionColumns,
		transaction.UserID, string(transaction.Type), amount, transaction.OccurredOn,
		transaction.CategoryID, transaction.Description)

	return scanTransaction(row)
}

// GetByID retrieves a transaction owned by the user
func (r *TransactionRepository) GetByID(userID, id uuid.UUID) (*domain.Transaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = $1 AND id = $2`,
		userID, id)

	transaction, err := scanTransaction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// Update persists the full transaction row
func (r *TransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE transactions
		SET type = $3, amount = $4, occurred_on = $5, category_id = $6, description = $7, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING `+transactionColumns,
		transaction.UserID, transaction.ID, string(transaction.Type), amount,
		transaction.OccurredOn, transaction.CategoryID, transaction.Description)

	updated, err := scanTransaction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a transaction permanently
func (r *TransactionRepository) Delete(userID, id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// Query retrieves a page of transactions with category names, newest first
func (r *TransactionRepository) Query(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	ctx := context.Background()

	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)

	var txType, categoryName *string
	var startDate, endDate *time.Time

	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
			if pageSize > domain.MaxPageSize {
				pageSize = domain.MaxPageSize
			}
		}
		if filters.Type != nil {
			t := string(*filters.Type)
			txType = &t
		}
		categoryName = filters.CategoryName
		startDate = filters.StartDate
		endDate = filters.EndDate
	}

	offset := (page - 1) * pageSize

	const filterClause = `
		WHERE t.user_id = $1
		  AND ($2::text IS NULL OR t.type = $2)
		  AND ($3::text IS NULL OR c.name ILIKE '%' || $3 || '%')
		  AND ($4::date IS NULL OR t.occurred_on >= $4)
		  AND ($5::date IS NULL OR t.occurred_on <= $5)`

	var totalItems int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id`+filterClause,
		userID, txType, categoryName, startDate, endDate).Scan(&totalItems)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT t.id, t.user_id, t.type, t.amount, t.occurred_on, t.category_id, t.description,
		       t.created_at, t.updated_at, COALESCE(c.name, '`+domain.UncategorizedName+`')
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id`+filterClause+`
		ORDER BY t.occurred_on DESC, t.created_at DESC
		LIMIT $6 OFFSET $7`,
		userID, txType, categoryName, startDate, endDate, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result, err := collectTransactionsWithCategory(rows)
	if err != nil {
		return nil, err
	}

	totalPages := int32(totalItems / int64(pageSize))
	if totalItems%int64(pageSize) > 0 {
		totalPages++
	}

	return &domain.PaginatedTransactions{
		Data:       result,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// SumByTypeAndRange sums amounts of one type over [start, end)
func (r *TransactionRepository) SumByTypeAndRange(userID uuid.UUID, txType domain.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	ctx := context.Background()
	var total pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND type = $2 AND occurred_on >= $3 AND occurred_on < $4`,
		userID, string(txType), start, end).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

// SumByType sums amounts of one type over the user's lifetime
func (r *TransactionRepository) SumByType(userID uuid.UUID, txType domain.TransactionType) (decimal.Decimal, error) {
	ctx := context.Background()
	var total pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND type = $2`,
		userID, string(txType)).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

// SumExpensesForCategory sums expense amounts in one category over [start, end)
func (r *TransactionRepository) SumExpensesForCategory(userID, categoryID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	ctx := context.Background()
	var total pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND category_id = $2 AND type = 'expense'
		  AND occurred_on >= $3 AND occurred_on < $4`,
		userID, categoryID, start, end).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

// Recent returns the latest transactions by creation time with category names
func (r *TransactionRepository) Recent(userID uuid.UUID, limit int32) ([]*domain.TransactionWithCategory, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT t.id, t.user_id, t.type, t.amount, t.occurred_on, t.category_id, t.description,
		       t.created_at, t.updated_at, COALESCE(c.name, '`+domain.UncategorizedName+`')
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1
		ORDER BY t.created_at DESC
		LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactionsWithCategory(rows)
}

// SumExpensesByCategory aggregates expense totals per category over [start, end)
func (r *TransactionRepository) SumExpensesByCategory(userID uuid.UUID, start, end time.Time) ([]*domain.CategoryTotal, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT COALESCE(c.name, '`+domain.UncategorizedName+`') AS category_name,
		       COALESCE(SUM(t.amount), 0) AS total,
		       COUNT(*) AS count
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND t.type = 'expense' AND t.occurred_on >= $2 AND t.occurred_on < $3
		GROUP BY 1
		ORDER BY 2 DESC`,
		userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*domain.CategoryTotal
	for rows.Next() {
		var name string
		var total pgtype.Numeric
		var count int64
		if err := rows.Scan(&name, &total, &count); err != nil {
			return nil, err
		}
		totals = append(totals, &domain.CategoryTotal{
			CategoryName: name,
			Total:        pgNumericToDecimal(total),
			Count:        count,
		})
	}
	return totals, rows.Err()
}

// SumByCategoryAndType aggregates totals per category and type over [start, end)
func (r *TransactionRepository) SumByCategoryAndType(userID uuid.UUID, start, end time.Time) ([]*domain.CategoryTypeTotal, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT COALESCE(c.name, '`+domain.UncategorizedName+`') AS category_name,
		       t.type,
		       COALESCE(SUM(t.amount), 0) AS total
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND t.occurred_on >= $2 AND t.occurred_on < $3
		GROUP BY 1, 2
		ORDER BY 1, 2`,
		userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*domain.CategoryTypeTotal
	for rows.Next() {
		var name, txType string
		var total pgtype.Numeric
		if err := rows.Scan(&name, &txType, &total); err != nil {
			return nil, err
		}
		totals = append(totals, &domain.CategoryTypeTotal{
			CategoryName: name,
			Type:         domain.TransactionType(txType),
			Total:        pgNumericToDecimal(total),
		})
	}
	return totals, rows.Err()
}

// Helper functions

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	var txType string
	var amount pgtype.Numeric
	err := row.Scan(&t.ID, &t.UserID, &txType, &amount, &t.OccurredOn,
		&t.CategoryID, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Type = domain.TransactionType(txType)
	t.Amount = pgNumericToDecimal(amount)
	return &t, nil
}

func collectTransactionsWithCategory(rows pgx.Rows) ([]*domain.TransactionWithCategory, error) {
	var result []*domain.TransactionWithCategory
	for rows.Next() {
		var t domain.TransactionWithCategory
		var txType string
		var amount pgtype.Numeric
		err := rows.Scan(&t.ID, &t.UserID, &txType, &amount, &t.OccurredOn,
			&t.CategoryID, &t.Description, &t.CreatedAt, &t.UpdatedAt, &t.CategoryName)
		if err != nil {
			return nil, err
		}
		t.Type = domain.TransactionType(txType)
		t.Amount = pgNumericToDecimal(amount)
		result = append(result, &t)
	}
	return result, rows.Err()
}
