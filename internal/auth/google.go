package auth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

// GoogleValidator verifies Google Sign-In ID tokens against our OAuth client.
type GoogleValidator struct {
	clientID string
}

func NewGoogleValidator(clientID string) *GoogleValidator {
	return &GoogleValidator{clientID: clientID}
}

// Validate checks the token signature and audience and returns the verified
// email and display name.
func (v *GoogleValidator) Validate(ctx context.Context, token string) (email, name string, err error) {
	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return "", "", fmt.Errorf("validate id token: %w", err)
	}

	email, _ = payload.Claims["email"].(string)
	if email == "" {
		return "", "", errors.New("id token missing email claim")
	}
	name, _ = payload.Claims["name"].(string)
	return email, name, nil
}
