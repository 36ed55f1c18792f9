package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type markers stored in the claims so refresh tokens cannot be used as
// access tokens or vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrWrongTokenType is returned when a token of the other kind is presented.
var ErrWrongTokenType = errors.New("wrong token type")

// Claims defines the payload encoded for authenticated users.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email,omitempty"`
	Username  string `json:"username,omitempty"`
	TokenType string `json:"token_type"`
}

// JWTManager handles issuing and verifying HMAC signed tokens.
type JWTManager struct {
	secret     []byte
	ttl        time.Duration
	refreshTTL time.Duration
}

// NewJWTManager constructs a manager with the given secret and token lifetimes.
func NewJWTManager(secret string, ttl, refreshTTL time.Duration) *JWTManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &JWTManager{secret: []byte(secret), ttl: ttl, refreshTTL: refreshTTL}
}

// GenerateAccessToken creates a short-lived access token for the provided subject.
func (m *JWTManager) GenerateAccessToken(subject, email, username string) (string, error) {
	return m.generate(subject, email, username, TokenTypeAccess, m.ttl)
}

// GenerateRefreshToken creates a longer-lived refresh token. It carries no
// profile claims, only the subject.
func (m *JWTManager) GenerateRefreshToken(subject string) (string, error) {
	return m.generate(subject, "", "", TokenTypeRefresh, m.refreshTTL)
}

func (m *JWTManager) generate(subject, email, username, tokenType string, ttl time.Duration) (string, error) {
	if len(m.secret) == 0 {
		return "", errors.New("jwt secret must not be empty")
	}

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Email:     email,
		Username:  username,
		TokenType: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", err
	}

	return signed, nil
}

// ParseAccessToken verifies an access token's signature and payload integrity.
func (m *JWTManager) ParseAccessToken(token string) (*Claims, error) {
	return m.parse(token, TokenTypeAccess)
}

// ParseRefreshToken verifies a refresh token.
func (m *JWTManager) ParseRefreshToken(token string) (*Claims, error) {
	return m.parse(token, TokenTypeRefresh)
}

func (m *JWTManager) parse(token, wantType string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.TokenType != wantType {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}
