package domain

import (
	"time"

	"github.com/google/uuid"
)

// AlertSettings controls which budget notifications a user receives.
type AlertSettings struct {
	EmailAlerts    bool `json:"emailAlerts"`
	WeeklyReports  bool `json:"weeklyReports"`
	MonthlyReports bool `json:"monthlyReports"`
}

// DefaultAlertSettings mirrors the signup defaults.
func DefaultAlertSettings() AlertSettings {
	return AlertSettings{EmailAlerts: true, WeeklyReports: false, MonthlyReports: true}
}

type User struct {
	ID               uuid.UUID     `json:"id"`
	FullName         string        `json:"fullName"`
	Username         string        `json:"username"`
	Email            string        `json:"email"`
	PasswordHash     string        `json:"-"`
	PhoneNumber      *string       `json:"phoneNumber,omitempty"`
	Country          *string       `json:"country,omitempty"`
	Birthdate        *time.Time    `json:"birthdate,omitempty"`
	Bio              *string       `json:"bio,omitempty"`
	AlertSettings    AlertSettings `json:"alertSettings"`
	ThresholdEnabled bool          `json:"thresholdEnabled"`
	ResetToken       *string       `json:"-"`
	ResetTokenExpiry *time.Time    `json:"-"`
	IsDeleted        bool          `json:"-"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// UpdateProfileData is the whitelisted patch for profile updates.
// Nil fields are left unchanged.
type UpdateProfileData struct {
	FullName    *string
	Username    *string
	Email       *string
	PhoneNumber *string
	Country     *string
	Birthdate   *time.Time
	Bio         *string
}

type UserRepository interface {
	Create(user *User) (*User, error)
	GetByID(id uuid.UUID) (*User, error)
	// GetByEmail and GetByUsername return soft-deleted users too, so
	// callers can distinguish "taken" from "taken by a deleted account".
	GetByEmail(email string) (*User, error)
	GetByUsername(username string) (*User, error)
	// GetByResetToken returns the user holding an unexpired reset code.
	GetByResetToken(code string) (*User, error)
	Update(user *User) (*User, error)
	// AppendPasswordHistory records a superseded password hash.
	AppendPasswordHistory(userID uuid.UUID, passwordHash string) error
	GetPasswordHistory(userID uuid.UUID) ([]string, error)
}
