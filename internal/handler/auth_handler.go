package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/choosee/choosee-api/internal/dto"
	"github.com/choosee/choosee-api/internal/entity"
	"github.com/choosee/choosee-api/internal/middleware"
	"github.com/choosee/choosee-api/internal/repository"
	"github.com/choosee/choosee-api/internal/service"
)

// AuthAPI is the slice of the auth service the handler uses.
type AuthAPI interface {
	Register(ctx context.Context, username, email, password string) (*dto.TokenResponse, error)
	Login(ctx context.Context, email, password string) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	GoogleLogin(ctx context.Context, idToken string) (*dto.TokenResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	ForgotPassword(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	authService AuthAPI
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService AuthAPI) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /auth/register requests.
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	tokens, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			return ErrorWithDetails(c, http.StatusBadRequest, "invalid registration", err.Error())
		case errors.Is(err, repository.ErrEmailDuplicate):
			return Error(c, http.StatusConflict, "email already exists")
		case errors.Is(err, repository.ErrUsernameDuplicate):
			return Error(c, http.StatusConflict, "username already exists")
		default:
			return Error(c, http.StatusInternalServerError, "unable to register user")
		}
	}
	return c.JSON(http.StatusCreated, tokens)
}

// Login handles POST /auth/login requests.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	tokens, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return Error(c, http.StatusUnauthorized, "invalid credentials")
		}
		return Error(c, http.StatusInternalServerError, "unable to authenticate")
	}
	return c.JSON(http.StatusOK, tokens)
}

// Refresh handles POST /auth/refresh requests.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req dto.RefreshRequest
	if err := c.Bind(&req); err != nil || req.Refresh == "" {
		return Error(c, http.StatusBadRequest, "refresh token is required")
	}

	tokens, err := h.authService.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			return Error(c, http.StatusUnauthorized, "invalid refresh token")
		}
		return Error(c, http.StatusInternalServerError, "unable to refresh token")
	}
	return c.JSON(http.StatusOK, tokens)
}

// GoogleLogin handles POST /auth/google requests.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var req dto.GoogleLoginRequest
	if err := c.Bind(&req); err != nil || req.IDToken == "" {
		return Error(c, http.StatusBadRequest, "id_token is required")
	}

	tokens, err := h.authService.GoogleLogin(c.Request().Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidGoogleToken) {
			return Error(c, http.StatusUnauthorized, "invalid google token")
		}
		return Error(c, http.StatusInternalServerError, "unable to sign in with google")
	}
	return c.JSON(http.StatusOK, tokens)
}

// Me handles GET /auth/me requests.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid token subject")
	}

	user, err := h.authService.Me(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return Error(c, http.StatusNotFound, "user not found")
		}
		return Error(c, http.StatusInternalServerError, "unable to load user")
	}
	return c.JSON(http.StatusOK, dto.UserResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	})
}

// ForgotPassword handles POST /auth/forgot-password requests. The response is
// the same whether or not the account exists.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req dto.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return ErrorWithDetails(c, http.StatusBadRequest, "invalid request", err.Error())
		}
		return Error(c, http.StatusInternalServerError, "unable to process reset request")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "if the account exists, a reset code has been sent"})
}

// VerifyCode handles POST /auth/verify-code requests.
func (h *AuthHandler) VerifyCode(c echo.Context) error {
	var req dto.VerifyCodeRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	if err := h.authService.VerifyCode(c.Request().Context(), req.Email, req.Code); err != nil {
		if errors.Is(err, service.ErrInvalidResetCode) {
			return Error(c, http.StatusBadRequest, "invalid or expired code")
		}
		return Error(c, http.StatusInternalServerError, "unable to verify code")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "code is valid"})
}

// ResetPassword handles POST /auth/reset-password requests.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req dto.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Email, req.Code, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResetCode):
			return Error(c, http.StatusBadRequest, "invalid or expired code")
		case errors.Is(err, service.ErrInvalidInput):
			return ErrorWithDetails(c, http.StatusBadRequest, "invalid password", err.Error())
		default:
			return Error(c, http.StatusInternalServerError, "unable to reset password")
		}
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
}

// authenticatedUserID resolves the user id the JWT middleware stashed in the
// request context.
func authenticatedUserID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(middleware.UserIDFromContext(c))
}
