package domain

import "errors"

// Domain errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInternalError = errors.New("internal error")

	ErrUserNotFound       = errors.New("user not found")
	ErrUserDeleted        = errors.New("user has been deleted")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUsernameTaken      = errors.New("username already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidResetCode   = errors.New("invalid or expired reset code")
	ErrPasswordReused     = errors.New("password was used before")

	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrCategoryMismatch  = errors.New("category does not apply to transaction type")

	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidType         = errors.New("type must be income or expense")
	ErrInvalidAmount       = errors.New("amount must be a positive number")

	ErrBudgetNotFound       = errors.New("budget not found")
	ErrDuplicateBudget      = errors.New("an active budget already exists for that category and month")
	ErrTooManyActiveBudgets = errors.New("active budget limit reached")
	ErrInvalidMonth         = errors.New("month must be in YYYY-MM format")
	ErrInvalidThreshold     = errors.New("threshold must be between 0 and 100")
	ErrInvalidLimit         = errors.New("limit must be greater than zero")

	ErrGoalNotFound        = errors.New("savings goal not found")
	ErrDuplicateGoalName   = errors.New("a goal with that name already exists")
	ErrInvalidTarget       = errors.New("target amount must be greater than zero")
	ErrTargetBelowCurrent  = errors.New("target amount cannot be below the saved amount")
	ErrInsufficientBalance = errors.New("insufficient available balance")

	ErrMissingMonth = errors.New("month is required")
)
