package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResetCodeTTL is how long a password reset code stays valid.
const ResetCodeTTL = 10 * time.Minute

// ErrCodeNotFound is returned when no code is stored for the email, or it
// has expired.
var ErrCodeNotFound = errors.New("reset code not found")

// CodeStore holds short-lived password reset codes keyed by email.
type CodeStore interface {
	Put(ctx context.Context, email, code string) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

// RedisCodeStore implements CodeStore on Redis with per-key expiry.
type RedisCodeStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCodeStore(client *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{client: client, ttl: ResetCodeTTL}
}

func resetKey(email string) string {
	return "password_reset_" + email
}

func (s *RedisCodeStore) Put(ctx context.Context, email, code string) error {
	if err := s.client.Set(ctx, resetKey(email), code, s.ttl).Err(); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}
	return nil
}

func (s *RedisCodeStore) Get(ctx context.Context, email string) (string, error) {
	code, err := s.client.Get(ctx, resetKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCodeNotFound
		}
		return "", fmt.Errorf("load reset code: %w", err)
	}
	return code, nil
}

func (s *RedisCodeStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, resetKey(email)).Err(); err != nil {
		return fmt.Errorf("delete reset code: %w", err)
	}
	return nil
}

var _ CodeStore = (*RedisCodeStore)(nil)

// GenerateResetCode returns a random six digit code, zero padded.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate reset code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
