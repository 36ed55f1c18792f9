package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/choosee/choosee-api/internal/auth"
	"github.com/choosee/choosee-api/internal/dto"
	"github.com/choosee/choosee-api/internal/entity"
	"github.com/choosee/choosee-api/internal/mail"
	"github.com/choosee/choosee-api/internal/repository"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrInvalidGoogleToken  = errors.New("invalid google id token")
	ErrInvalidResetCode    = errors.New("invalid or expired reset code")
)

const minPasswordLength = 8

// TokenValidator verifies a federated ID token and returns the holder's
// verified email and display name.
type TokenValidator interface {
	Validate(ctx context.Context, idToken string) (email, name string, err error)
}

// AuthService coordinates registration, credential validation, token issuance
// and the password reset flow.
type AuthService struct {
	users  repository.UsersRepository
	jwt    *auth.JWTManager
	google TokenValidator
	codes  auth.CodeStore
	mailer mail.Mailer
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UsersRepository, jwtManager *auth.JWTManager, google TokenValidator, codes auth.CodeStore, mailer mail.Mailer) *AuthService {
	return &AuthService{users: users, jwt: jwtManager, google: google, codes: codes, mailer: mailer}
}

// Register creates an account and signs the new user in.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*dto.TokenResponse, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email are required", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, username, email, string(hash))
	if err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

// Login validates credentials and returns a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// federated accounts carry no password hash
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

// Refresh exchanges a refresh token for a fresh token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwt.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject", ErrInvalidRefreshToken)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	return s.issueTokens(user)
}

// Me returns the account for an authenticated user id.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.users.FindByID(ctx, userID)
}

// GoogleLogin signs a user in with a Google ID token, creating the account on
// first sight.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (*dto.TokenResponse, error) {
	email, name, err := s.google.Validate(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGoogleToken, err)
	}
	email = normalizeEmail(email)

	user, err := s.users.GetOrCreateByEmail(ctx, email, usernameFor(email, name))
	if errors.Is(err, repository.ErrUsernameDuplicate) {
		suffixed := usernameFor(email, name) + "-" + uuid.NewString()[:8]
		user, err = s.users.GetOrCreateByEmail(ctx, email, suffixed)
	}
	if err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

// ForgotPassword stores a reset code and emails it. An unknown email is a
// silent no-op so the endpoint does not reveal which accounts exist.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Printf("password reset requested for unknown email=%s", email)
			return nil
		}
		return err
	}

	code, err := auth.GenerateResetCode()
	if err != nil {
		return err
	}
	if err := s.codes.Put(ctx, email, code); err != nil {
		return err
	}
	if err := s.mailer.SendPasswordReset(ctx, email, code); err != nil {
		return err
	}
	return nil
}

// VerifyCode checks a reset code without consuming it.
func (s *AuthService) VerifyCode(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	stored, err := s.codes.Get(ctx, email)
	if err != nil {
		if errors.Is(err, auth.ErrCodeNotFound) {
			return ErrInvalidResetCode
		}
		return err
	}
	if code == "" || stored != code {
		return ErrInvalidResetCode
	}
	return nil
}

// ResetPassword verifies the code, replaces the password and consumes the code.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)
	if err := s.VerifyCode(ctx, email, code); err != nil {
		return err
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePasswordByEmail(ctx, email, string(hash)); err != nil {
		return err
	}
	if err := s.codes.Delete(ctx, email); err != nil {
		log.Printf("failed to delete consumed reset code email=%s err=%v", email, err)
	}
	return nil
}

func (s *AuthService) issueTokens(user *entity.User) (*dto.TokenResponse, error) {
	access, err := s.jwt.GenerateAccessToken(user.ID.String(), user.Email, user.Username)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	return &dto.TokenResponse{
		Access:  access,
		Refresh: refresh,
		User: dto.UserResponse{
			ID:       user.ID.String(),
			Username: user.Username,
			Email:    user.Email,
		},
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// usernameFor derives a username for federated accounts: the display name when
// present, otherwise the email local part.
func usernameFor(email, name string) string {
	if trimmed := strings.Join(strings.Fields(name), " "); trimmed != "" {
		return trimmed
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
