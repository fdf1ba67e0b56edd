package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/service"
	"github.com/centsible/centsible-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

func newProfileHandlerFixture() (*ProfileHandler, *testutil.MockUserRepository, *domain.User) {
	userRepo := testutil.NewMockUserRepository()
	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	user := &domain.User{
		FullName:      "Ada Lovelace",
		Username:      "ada",
		Email:         "ada@example.com",
		PasswordHash:  string(hash),
		AlertSettings: domain.DefaultAlertSettings(),
	}
	userRepo.AddUser(user)
	profileService := service.NewProfileService(userRepo)
	return NewProfileHandler(profileService), userRepo, user
}

func TestGetProfile_Handler_Success(t *testing.T) {
	e := echo.New()
	handler, _, user := newProfileHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setUserContext(c, user.ID)

	if err := handler.GetProfile(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response ProfileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Email != "ada@example.com" {
		t.Errorf("Expected email 'ada@example.com', got %s", response.Email)
	}
	if !response.EmailAlerts || !response.MonthlyReports {
		t.Error("Expected default alert settings")
	}
}

func TestGetProfile_Handler_UserNotFound(t *testing.T) {
	e := echo.New()
	handler, _, _ := newProfileHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setUserContext(c, uuid.New())

	if err := handler.GetProfile(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestUpdateProfile_Handler_Success(t *testing.T) {
	e := echo.New()
	handler, _, user := newProfileHandlerFixture()

	reqBody := `{"bio": "Mathematician", "country": "UK"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/profile", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setUserContext(c, user.ID)

	if err := handler.UpdateProfile(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response ProfileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Bio == nil || *response.Bio != "Mathematician" {
		t.Error("Expected bio to be set")
	}
	if response.FullName != "Ada Lovelace" {
		t.Errorf("Expected full name untouched, got %s", response.FullName)
	}
}

func TestChangePassword_Handler_WrongCurrent(t *testing.T) {
	e := echo.New()
	handler, _, user := newProfileHandlerFixture()

	reqBody := `{"currentPassword": "wrong", "newPassword": "n3w-pass"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/change-password", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setUserContext(c, user.ID)

	if err := handler.ChangePassword(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestChangePassword_Handler_ReuseConflict(t *testing.T) {
	e := echo.New()
	handler, _, user := newProfileHandlerFixture()

	reqBody := `{"currentPassword": "s3cret", "newPassword": "s3cret"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/change-password", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setUserContext(c, user.ID)

	if err := handler.ChangePassword(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestUpdateAlertConfig_Handler_PartialPatch(t *testing.T) {
	e := echo.New()
	handler, _, user := newProfileHandlerFixture()

	reqBody := `{"emailAlerts": false, "thresholdEnabled": true}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/budgets/alerts/config", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setUserContext(c, user.ID)

	if err := handler.UpdateAlertConfig(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response ProfileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.EmailAlerts {
		t.Error("Expected email alerts off")
	}
	if !response.ThresholdEnabled {
		t.Error("Expected threshold alerts on")
	}
	if !response.MonthlyReports {
		t.Error("Expected monthly reports untouched")
	}
}
