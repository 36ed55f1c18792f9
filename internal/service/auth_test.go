package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/choosee/choosee-api/internal/auth"
	"github.com/choosee/choosee-api/internal/entity"
	"github.com/choosee/choosee-api/internal/repository"
)

type memUsers struct {
	byEmail map[string]*entity.User
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: make(map[string]*entity.User)}
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if u, ok := m.byEmail[email]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) Create(ctx context.Context, username, email, passwordHash string) (*entity.User, error) {
	if _, ok := m.byEmail[email]; ok {
		return nil, repository.ErrEmailDuplicate
	}
	for _, u := range m.byEmail {
		if u.Username == username {
			return nil, repository.ErrUsernameDuplicate
		}
	}
	u := &entity.User{
		ID: uuid.New(), Username: username, Email: email, PasswordHash: passwordHash,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	m.byEmail[email] = u
	copy := *u
	return &copy, nil
}

func (m *memUsers) GetOrCreateByEmail(ctx context.Context, email, username string) (*entity.User, error) {
	if u, ok := m.byEmail[email]; ok {
		copy := *u
		return &copy, nil
	}
	return m.Create(ctx, username, email, "")
}

func (m *memUsers) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	u, ok := m.byEmail[email]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type memCodes struct {
	codes map[string]string
}

func newMemCodes() *memCodes {
	return &memCodes{codes: make(map[string]string)}
}

func (m *memCodes) Put(ctx context.Context, email, code string) error {
	m.codes[email] = code
	return nil
}

func (m *memCodes) Get(ctx context.Context, email string) (string, error) {
	if code, ok := m.codes[email]; ok {
		return code, nil
	}
	return "", auth.ErrCodeNotFound
}

func (m *memCodes) Delete(ctx context.Context, email string) error {
	delete(m.codes, email)
	return nil
}

type memMailer struct {
	sent []string
}

func (m *memMailer) SendPasswordReset(ctx context.Context, to, code string) error {
	m.sent = append(m.sent, to+":"+code)
	return nil
}

type stubValidator struct {
	email string
	name  string
	err   error
}

func (s *stubValidator) Validate(ctx context.Context, idToken string) (string, string, error) {
	return s.email, s.name, s.err
}

func newAuthFixture() (*AuthService, *memUsers, *memCodes, *memMailer, *stubValidator) {
	users := newMemUsers()
	codes := newMemCodes()
	mailer := &memMailer{}
	validator := &stubValidator{}
	jwtManager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	svc := NewAuthService(users, jwtManager, validator, codes, mailer)
	return svc, users, codes, mailer, validator
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture()

	tokens, err := svc.Register(context.Background(), "diner", "Diner@Example.com", "supersecret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens.Access == "" || tokens.Refresh == "" {
		t.Fatalf("expected token pair, got %+v", tokens)
	}
	if tokens.User.Email != "diner@example.com" {
		t.Fatalf("expected normalized email, got %q", tokens.User.Email)
	}

	login, err := svc.Login(context.Background(), "diner@example.com", "supersecret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if login.User.Username != "diner" {
		t.Fatalf("unexpected user: %+v", login.User)
	}

	if _, err := svc.Login(context.Background(), "diner@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "ghost@example.com", "supersecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture()

	if _, err := svc.Register(context.Background(), "", "a@b.c", "supersecret"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank username, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "u", "a@b.c", "short"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}

	if _, err := svc.Register(context.Background(), "diner", "dup@example.com", "supersecret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Register(context.Background(), "other", "dup@example.com", "supersecret"); !errors.Is(err, repository.ErrEmailDuplicate) {
		t.Fatalf("expected ErrEmailDuplicate, got %v", err)
	}
}

func TestAuthService_Refresh(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture()

	tokens, err := svc.Register(context.Background(), "diner", "diner@example.com", "supersecret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), tokens.Refresh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refreshed.User.Email != "diner@example.com" {
		t.Fatalf("unexpected user: %+v", refreshed.User)
	}

	// an access token is not a refresh token
	if _, err := svc.Refresh(context.Background(), tokens.Access); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
	if _, err := svc.Refresh(context.Background(), "garbage"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestAuthService_GoogleLogin(t *testing.T) {
	svc, users, _, _, validator := newAuthFixture()
	validator.email = "sso@example.com"
	validator.name = "S. So"

	tokens, err := svc.GoogleLogin(context.Background(), "valid-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens.User.Email != "sso@example.com" || tokens.User.Username != "S. So" {
		t.Fatalf("unexpected user: %+v", tokens.User)
	}

	// federated accounts have no password login
	if _, err := svc.Login(context.Background(), "sso@example.com", "anything"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for passwordless account, got %v", err)
	}

	// second login reuses the account
	again, err := svc.GoogleLogin(context.Background(), "valid-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.User.ID != tokens.User.ID || len(users.byEmail) != 1 {
		t.Fatalf("expected one account, got %+v", users.byEmail)
	}

	validator.err = errors.New("bad signature")
	if _, err := svc.GoogleLogin(context.Background(), "forged"); !errors.Is(err, ErrInvalidGoogleToken) {
		t.Fatalf("expected ErrInvalidGoogleToken, got %v", err)
	}
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	svc, _, codes, mailer, _ := newAuthFixture()

	if _, err := svc.Register(context.Background(), "diner", "diner@example.com", "supersecret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.ForgotPassword(context.Background(), "diner@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one reset email, got %d", len(mailer.sent))
	}
	code := codes.codes["diner@example.com"]
	if len(code) != 6 {
		t.Fatalf("expected six digit code, got %q", code)
	}

	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}
	if err := svc.VerifyCode(context.Background(), "diner@example.com", wrong); !errors.Is(err, ErrInvalidResetCode) {
		t.Fatalf("expected ErrInvalidResetCode for wrong code, got %v", err)
	}
	if err := svc.VerifyCode(context.Background(), "diner@example.com", code); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.ResetPassword(context.Background(), "diner@example.com", code, "newpassword"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := codes.codes["diner@example.com"]; ok {
		t.Fatalf("expected consumed code to be deleted")
	}

	if _, err := svc.Login(context.Background(), "diner@example.com", "newpassword"); err != nil {
		t.Fatalf("expected login with new password: %v", err)
	}
	if _, err := svc.Login(context.Background(), "diner@example.com", "supersecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected old password rejected, got %v", err)
	}
}

func TestAuthService_ForgotPasswordUnknownEmail(t *testing.T) {
	svc, _, codes, mailer, _ := newAuthFixture()

	if err := svc.ForgotPassword(context.Background(), "ghost@example.com"); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if len(mailer.sent) != 0 || len(codes.codes) != 0 {
		t.Fatalf("expected no email or code for unknown account")
	}
}

func TestAuthService_ResetPasswordValidation(t *testing.T) {
	svc, _, codes, _, _ := newAuthFixture()

	if _, err := svc.Register(context.Background(), "diner", "diner@example.com", "supersecret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	codes.codes["diner@example.com"] = "123456"

	if err := svc.ResetPassword(context.Background(), "diner@example.com", "999999", "newpassword"); !errors.Is(err, ErrInvalidResetCode) {
		t.Fatalf("expected ErrInvalidResetCode, got %v", err)
	}
	if err := svc.ResetPassword(context.Background(), "diner@example.com", "123456", "tiny"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}

	// hash must stay usable with bcrypt after reset
	if err := svc.ResetPassword(context.Background(), "diner@example.com", "123456", "longenough"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	user, err := svc.users.FindByEmail(context.Background(), "diner@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("longenough")) != nil {
		t.Fatalf("expected stored hash to match new password")
	}
}
