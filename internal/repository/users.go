package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/choosee/choosee-api/internal/entity"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailDuplicate    = errors.New("email already exists")
	ErrUsernameDuplicate = errors.New("username already exists")
)

// UsersRepository declares persistence operations for accounts.
type UsersRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	Create(ctx context.Context, username, email, passwordHash string) (*entity.User, error)
	GetOrCreateByEmail(ctx context.Context, email, username string) (*entity.User, error)
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error
}

const userColumns = `id, username, email, password_hash, created_at, updated_at`

// PGXUsersRepository implements UsersRepository with pgx.
type PGXUsersRepository struct {
	pool pgxPool
}

// NewPGXUsersRepository instantiates a users repository.
func NewPGXUsersRepository(pool *pgxpool.Pool) *PGXUsersRepository {
	return &PGXUsersRepository{pool: pool}
}

// FindByEmail fetches a user by email if present.
func (r *PGXUsersRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row, "query user by email")
}

// FindByID retrieves a user by identifier.
func (r *PGXUsersRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row, "query user by id")
}

// Create inserts a new user row.
func (r *PGXUsersRepository) Create(ctx context.Context, username, email, passwordHash string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO users (username, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING `+userColumns+`
    `, username, email, passwordHash)

	var user entity.User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "username") {
				return nil, fmt.Errorf("%w: %v", ErrUsernameDuplicate, pgErr)
			}
			return nil, fmt.Errorf("%w: %v", ErrEmailDuplicate, pgErr)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &user, nil
}

// GetOrCreateByEmail returns the user with the given email, creating a
// passwordless account when none exists. Used for federated sign-in.
func (r *PGXUsersRepository) GetOrCreateByEmail(ctx context.Context, email, username string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
        WITH ins AS (
            INSERT INTO users (username, email, password_hash)
            VALUES ($1, $2, '')
            ON CONFLICT (email) DO NOTHING
            RETURNING `+userColumns+`
        )
        SELECT `+userColumns+` FROM ins
        UNION ALL
        SELECT `+userColumns+` FROM users WHERE email = $2
        LIMIT 1
    `, username, email)

	var user entity.User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "username") {
			return nil, fmt.Errorf("%w: %v", ErrUsernameDuplicate, pgErr)
		}
		return nil, fmt.Errorf("get or create user: %w", err)
	}
	return &user, nil
}

// UpdatePasswordByEmail replaces the stored password hash.
func (r *PGXUsersRepository) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE email = $2`, passwordHash, email)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row, op string) (*entity.User, error) {
	var user entity.User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}
