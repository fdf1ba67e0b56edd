package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/mail"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const resetCodeTTL = time.Hour

// AuthService handles registration, login and password recovery
type AuthService struct {
	userRepo  domain.UserRepository
	mailer    mail.Mailer
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, mailer mail.Mailer, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		mailer:    mailer,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// RegisterInput contains the signup data
type RegisterInput struct {
	FullName string
	Username string
	Email    string
	Password string
}

// Register creates a new account with hashed credentials and default
// alert settings
func (s *AuthService) Register(input RegisterInput) (*domain.User, error) {
	fullName := strings.TrimSpace(input.FullName)
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if fullName == "" || username == "" || email == "" || input.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	if existing, err := s.userRepo.GetByEmail(email); err == nil {
		if existing.IsDeleted {
			return nil, domain.ErrUserDeleted
		}
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	if existing, err := s.userRepo.GetByUsername(username); err == nil {
		if existing.IsDeleted {
			return nil, domain.ErrUserDeleted
		}
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		FullName:      fullName,
		Username:      username,
		Email:         email,
		PasswordHash:  string(hash),
		AlertSettings: domain.DefaultAlertSettings(),
	}
	return s.userRepo.Create(user)
}

// Login verifies credentials and issues a signed token
func (s *AuthService) Login(email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if user.IsDeleted {
		return nil, "", domain.ErrUserDeleted
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ForgotPassword stores a short-lived reset code and mails it to the
// account holder. Unknown emails return ErrUserNotFound so the handler
// can decide how much to reveal.
func (s *AuthService) ForgotPassword(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}
	if user.IsDeleted {
		return domain.ErrUserNotFound
	}

	code, err := generateResetCode()
	if err != nil {
		return err
	}
	expiry := time.Now().Add(resetCodeTTL)
	user.ResetToken = &code
	user.ResetTokenExpiry = &expiry

	if _, err := s.userRepo.Update(user); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordResetCode(user.Email, code); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("failed to send password reset email")
		return domain.ErrInternalError
	}
	return nil
}

// generateResetCode returns a random six-digit code.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate reset code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// ResetPassword exchanges a valid reset code for a new password and
// invalidates the code
func (s *AuthService) ResetPassword(code, newPassword string) error {
	if newPassword == "" {
		return domain.ErrInvalidInput
	}

	user, err := s.userRepo.GetByResetToken(code)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidResetCode
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.AppendPasswordHistory(user.ID, user.PasswordHash); err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.ResetToken = nil
	user.ResetTokenExpiry = nil
	_, err = s.userRepo.Update(user)
	return err
}
