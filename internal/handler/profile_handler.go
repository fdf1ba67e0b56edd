package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/middleware"
	"github.com/centsible/centsible-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProfileHandler handles account settings HTTP requests
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ProfileResponse represents the full account in API responses
type ProfileResponse struct {
	UserResponse
	PhoneNumber      *string `json:"phoneNumber,omitempty"`
	Country          *string `json:"country,omitempty"`
	Birthdate        *string `json:"birthdate,omitempty"`
	Bio              *string `json:"bio,omitempty"`
	EmailAlerts      bool    `json:"emailAlerts"`
	WeeklyReports    bool    `json:"weeklyReports"`
	MonthlyReports   bool    `json:"monthlyReports"`
	ThresholdEnabled bool    `json:"thresholdEnabled"`
}

func toProfileResponse(u *domain.User) ProfileResponse {
	resp := ProfileResponse{
		UserResponse:     toUserResponse(u),
		PhoneNumber:      u.PhoneNumber,
		Country:          u.Country,
		Bio:              u.Bio,
		EmailAlerts:      u.AlertSettings.EmailAlerts,
		WeeklyReports:    u.AlertSettings.WeeklyReports,
		MonthlyReports:   u.AlertSettings.MonthlyReports,
		ThresholdEnabled: u.ThresholdEnabled,
	}
	if u.Birthdate != nil {
		birthdate := u.Birthdate.Format(dateLayout)
		resp.Birthdate = &birthdate
	}
	return resp
}

// GetProfile returns the authenticated user's account
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID := middleware.GetUserID(c)

	user, err := h.profileService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Msg("Failed to load profile")
		return NewInternalError(c, "Failed to load profile")
	}

	return c.JSON(http.StatusOK, toProfileResponse(user))
}

// UpdateProfileRequest represents the profile update request body.
// Omitted fields are left unchanged.
type UpdateProfileRequest struct {
	FullName    *string `json:"fullName,omitempty"`
	Username    *string `json:"username,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Country     *string `json:"country,omitempty"`
	Birthdate   *string `json:"birthdate,omitempty"`
	Bio         *string `json:"bio,omitempty"`
}

// UpdateProfile applies a partial update to the account
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	data := &domain.UpdateProfileData{
		FullName:    req.FullName,
		Username:    req.Username,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Country:     req.Country,
		Bio:         req.Bio,
	}
	if req.Birthdate != nil && *req.Birthdate != "" {
		birthdate, err := time.Parse(dateLayout, *req.Birthdate)
		if err != nil {
			return NewValidationError(c, "Invalid birthdate", []ValidationError{
				{Field: "birthdate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		data.Birthdate = &birthdate
	}

	user, err := h.profileService.UpdateProfile(userID, data)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return NewNotFoundError(c, "User not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, "Fields must not be empty", nil)
		case errors.Is(err, domain.ErrEmailTaken):
			return NewConflictError(c, "Email is already registered")
		case errors.Is(err, domain.ErrUsernameTaken):
			return NewConflictError(c, "Username is already taken")
		}
		log.Error().Err(err).Msg("Failed to update profile")
		return NewInternalError(c, "Failed to update profile")
	}

	return c.JSON(http.StatusOK, toProfileResponse(user))
}

// ChangePasswordRequest represents the password change request body
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword rotates the account password
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if err := h.profileService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return NewNotFoundError(c, "User not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "newPassword", Message: "New password is required"},
			})
		case errors.Is(err, domain.ErrInvalidCredentials):
			return NewUnauthorizedError(c, "Current password is incorrect")
		case errors.Is(err, domain.ErrPasswordReused):
			return NewConflictError(c, "New password must differ from previously used passwords")
		}
		log.Error().Err(err).Msg("Failed to change password")
		return NewInternalError(c, "Failed to change password")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Password has been changed",
	})
}

// UpdateAlertConfigRequest represents the alert configuration request
// body. Omitted fields are left unchanged.
type UpdateAlertConfigRequest struct {
	EmailAlerts      *bool `json:"emailAlerts,omitempty"`
	WeeklyReports    *bool `json:"weeklyReports,omitempty"`
	MonthlyReports   *bool `json:"monthlyReports,omitempty"`
	ThresholdEnabled *bool `json:"thresholdEnabled,omitempty"`
}

// UpdateAlertConfig patches the budget notification preferences
func (h *ProfileHandler) UpdateAlertConfig(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req UpdateAlertConfigRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	user, err := h.profileService.UpdateAlertSettings(userID, &service.AlertSettingsUpdate{
		EmailAlerts:      req.EmailAlerts,
		WeeklyReports:    req.WeeklyReports,
		MonthlyReports:   req.MonthlyReports,
		ThresholdEnabled: req.ThresholdEnabled,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Msg("Failed to update alert settings")
		return NewInternalError(c, "Failed to update alert settings")
	}

	return c.JSON(http.StatusOK, toProfileResponse(user))
}
