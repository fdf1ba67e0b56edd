package postgres

import (
	"context"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Create persists a new category
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (name, applies_to)
		VALUES ($1, $2)
		RETURNING id, name, applies_to, created_at, updated_at`,
		category.Name, string(category.AppliesTo))

	created, err := scanCategory(row)
	if err != nil {
		if isUniqueViolation(err, "categories_name_key") {
			return nil, domain.ErrDuplicateCategory
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(id uuid.UUID) (*domain.Category, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, applies_to, created_at, updated_at
		FROM categories
		WHERE id = $1`,
		id)

	category, err := scanCategory(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// GetAll lists categories sorted by name, optionally filtered by applicability
func (r *CategoryRepository) GetAll(appliesTo *domain.CategoryApplicability) ([]*domain.Category, error) {
	ctx := context.Background()

	var filter *string
	if appliesTo != nil {
		s := string(*appliesTo)
		filter = &s
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, applies_to, created_at, updated_at
		FROM categories
		WHERE ($1::text IS NULL OR applies_to = $1)
		ORDER BY name`,
		filter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	var appliesTo string
	err := row.Scan(&c.ID, &c.Name, &appliesTo, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.AppliesTo = domain.CategoryApplicability(appliesTo)
	return &c, nil
}
