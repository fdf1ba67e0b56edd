package postgres

import (
	"context"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, full_name, username, email, password_hash, phone_number, country, birthdate, bio,
	email_alerts, weekly_reports, monthly_reports, threshold_enabled,
	reset_token, reset_token_expiry, is_deleted, created_at, updated_at`

// Create persists a new user
func (r *UserRepository) Create(user *domain.User) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (full_name, username, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		user.FullName, user.Username, user.Email, user.PasswordHash)

	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return nil, domain.ErrEmailTaken
		}
		if isUniqueViolation(err, "users_username_key") {
			return nil, domain.ErrUsernameTaken
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail retrieves a user by email, including soft-deleted accounts
func (r *UserRepository) GetByEmail(email string) (*domain.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetByUsername retrieves a user by username, including soft-deleted accounts
func (r *UserRepository) GetByUsername(username string) (*domain.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// GetByResetToken retrieves the user holding an unexpired reset code
func (r *UserRepository) GetByResetToken(code string) (*domain.User, error) {
	return r.getOne(`
		SELECT `+userColumns+`
		FROM users
		WHERE reset_token = $1 AND reset_token_expiry > now() AND NOT is_deleted`,
		code)
}

func (r *UserRepository) getOne(query string, arg any) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, query, arg)
	user, err := scanUser(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Update persists the full user row
func (r *UserRepository) Update(user *domain.User) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET full_name = $2, username = $3, email = $4, password_hash = $5,
		    phone_number = $6, country = $7, birthdate = $8, bio = $9,
		    email_alerts = $10, weekly_reports = $11, monthly_reports = $12, threshold_enabled = $13,
		    reset_token = $14, reset_token_expiry = $15, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		user.ID, user.FullName, user.Username, user.Email, user.PasswordHash,
		user.PhoneNumber, user.Country, user.Birthdate, user.Bio,
		user.AlertSettings.EmailAlerts, user.AlertSettings.WeeklyReports,
		user.AlertSettings.MonthlyReports, user.ThresholdEnabled,
		user.ResetToken, user.ResetTokenExpiry)

	updated, err := scanUser(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		if isUniqueViolation(err, "users_email_key") {
			return nil, domain.ErrEmailTaken
		}
		if isUniqueViolation(err, "users_username_key") {
			return nil, domain.ErrUsernameTaken
		}
		return nil, err
	}
	return updated, nil
}

// AppendPasswordHistory records a superseded password hash
func (r *UserRepository) AppendPasswordHistory(userID uuid.UUID, passwordHash string) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_password_history (user_id, password_hash)
		VALUES ($1, $2)`,
		userID, passwordHash)
	return err
}

// GetPasswordHistory returns all previous password hashes, newest first
func (r *UserRepository) GetPasswordHistory(userID uuid.UUID) ([]string, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT password_hash
		FROM user_password_history
		WHERE user_id = $1
		ORDER BY changed_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, err
		}
		hashes = append(hashes, hash)
	}
	return hashes, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.FullName, &u.Username, &u.Email, &u.PasswordHash,
		&u.PhoneNumber, &u.Country, &u.Birthdate, &u.Bio,
		&u.AlertSettings.EmailAlerts, &u.AlertSettings.WeeklyReports,
		&u.AlertSettings.MonthlyReports, &u.ThresholdEnabled,
		&u.ResetToken, &u.ResetTokenExpiry, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
