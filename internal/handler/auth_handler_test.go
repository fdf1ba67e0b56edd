package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/service"
	"github.com/centsible/centsible-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

func newAuthHandlerFixture() (*AuthHandler, *testutil.MockUserRepository, *testutil.MockMailer) {
	userRepo := testutil.NewMockUserRepository()
	mailer := &testutil.MockMailer{}
	authService := service.NewAuthService(userRepo, mailer, "test-secret", 24*time.Hour)
	return NewAuthHandler(authService), userRepo, mailer
}

func TestRegister_Handler_Success(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthHandlerFixture()

	reqBody := `{"fullName": "Ada Lovelace", "username": "ada", "email": "ada@example.com", "password": "s3cret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Username != "ada" {
		t.Errorf("Expected username 'ada', got %s", response.Username)
	}
	if strings.Contains(rec.Body.String(), "s3cret") {
		t.Error("Expected no password material in the response")
	}
}

func TestRegister_Handler_EmailConflict(t *testing.T) {
	e := echo.New()
	handler, userRepo, _ := newAuthHandlerFixture()
	userRepo.AddUser(&domain.User{Username: "ada", Email: "ada@example.com"})

	reqBody := `{"fullName": "Ada", "username": "ada2", "email": "ada@example.com", "password": "s3cret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestLogin_Handler_Success(t *testing.T) {
	e := echo.New()
	handler, userRepo, _ := newAuthHandlerFixture()

	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	userRepo.AddUser(&domain.User{
		Username:     "ada",
		Email:        "ada@example.com",
		PasswordHash: string(hash),
	})

	reqBody := `{"email": "ada@example.com", "password": "s3cret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Token == "" {
		t.Error("Expected a bearer token")
	}
}

func TestLogin_Handler_BadCredentials(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthHandlerFixture()

	reqBody := `{"email": "nobody@example.com", "password": "wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestForgotPassword_Handler_UnknownEmail(t *testing.T) {
	e := echo.New()
	handler, _, _ := newAuthHandlerFixture()

	reqBody := `{"email": "nobody@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/forgot-password", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.ForgotPassword(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestResetPassword_Handler_RoundTrip(t *testing.T) {
	e := echo.New()
	handler, userRepo, mailer := newAuthHandlerFixture()

	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	userRepo.AddUser(&domain.User{
		Username:     "ada",
		Email:        "ada@example.com",
		PasswordHash: string(hash),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/forgot-password", strings.NewReader(`{"email": "ada@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	if err := handler.ForgotPassword(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(mailer.Sent) != 1 {
		t.Fatalf("Expected 1 mail, got %d", len(mailer.Sent))
	}

	reqBody := `{"code": "` + mailer.Sent[0].Code + `", "newPassword": "n3w-pass"}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/reset-password", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	if err := handler.ResetPassword(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	user, _ := userRepo.GetByEmail("ada@example.com")
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("n3w-pass")) != nil {
		t.Error("Expected the new password to verify")
	}
}
