package dto

// RegisterRequest captures self-service registration payloads.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest captures credential input.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries a refresh token to exchange for a new access token.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// GoogleLoginRequest carries a Google Sign-In ID token.
type GoogleLoginRequest struct {
	IDToken string `json:"id_token"`
}

// TokenResponse contains the issued token pair and the authenticated user.
type TokenResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    UserResponse `json:"user"`
}

// UserResponse represents user data returned to clients.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ForgotPasswordRequest starts the reset-code flow.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// VerifyCodeRequest checks a reset code without consuming it.
type VerifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// ResetPasswordRequest completes the reset flow.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}
