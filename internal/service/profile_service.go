package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ProfileService handles account settings for an authenticated user
type ProfileService struct {
	userRepo domain.UserRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo domain.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

// GetProfile returns the user's account
func (s *ProfileService) GetProfile(userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user.IsDeleted {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile applies a whitelisted patch to the user's account
func (s *ProfileService) UpdateProfile(userID uuid.UUID, data *domain.UpdateProfileData) (*domain.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if data.FullName != nil {
		name := strings.TrimSpace(*data.FullName)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		user.FullName = name
	}
	if data.Username != nil {
		username := strings.TrimSpace(*data.Username)
		if username == "" {
			return nil, domain.ErrInvalidInput
		}
		if username != user.Username {
			if existing, err := s.userRepo.GetByUsername(username); err == nil && existing.ID != user.ID {
				return nil, domain.ErrUsernameTaken
			} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				return nil, err
			}
			user.Username = username
		}
	}
	if data.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*data.Email))
		if email == "" {
			return nil, domain.ErrInvalidInput
		}
		if email != user.Email {
			if existing, err := s.userRepo.GetByEmail(email); err == nil && existing.ID != user.ID {
				return nil, domain.ErrEmailTaken
			} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	if data.PhoneNumber != nil {
		user.PhoneNumber = data.PhoneNumber
	}
	if data.Country != nil {
		user.Country = data.Country
	}
	if data.Birthdate != nil {
		user.Birthdate = data.Birthdate
	}
	if data.Bio != nil {
		user.Bio = data.Bio
	}

	return s.userRepo.Update(user)
}

// ChangePassword rotates the password after verifying the current one.
// Previously used passwords, including the current one, are rejected.
func (s *ProfileService) ChangePassword(userID uuid.UUID, currentPassword, newPassword string) error {
	if newPassword == "" {
		return domain.ErrInvalidInput
	}

	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(newPassword)) == nil {
		return domain.ErrPasswordReused
	}
	history, err := s.userRepo.GetPasswordHistory(userID)
	if err != nil {
		return err
	}
	for _, oldHash := range history {
		if bcrypt.CompareHashAndPassword([]byte(oldHash), []byte(newPassword)) == nil {
			return domain.ErrPasswordReused
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.AppendPasswordHistory(userID, user.PasswordHash); err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	_, err = s.userRepo.Update(user)
	return err
}

// AlertSettingsUpdate carries the alert configuration patch. Nil fields
// are left unchanged.
type AlertSettingsUpdate struct {
	EmailAlerts      *bool
	WeeklyReports    *bool
	MonthlyReports   *bool
	ThresholdEnabled *bool
}

// UpdateAlertSettings patches the user's notification preferences
func (s *ProfileService) UpdateAlertSettings(userID uuid.UUID, update *AlertSettingsUpdate) (*domain.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if update.EmailAlerts != nil {
		user.AlertSettings.EmailAlerts = *update.EmailAlerts
	}
	if update.WeeklyReports != nil {
		user.AlertSettings.WeeklyReports = *update.WeeklyReports
	}
	if update.MonthlyReports != nil {
		user.AlertSettings.MonthlyReports = *update.MonthlyReports
	}
	if update.ThresholdEnabled != nil {
		user.ThresholdEnabled = *update.ThresholdEnabled
	}

	return s.userRepo.Update(user)
}
