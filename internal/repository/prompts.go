package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/choosee/choosee-api/internal/entity"
)

// ErrPromptNotFound is returned when no prompt matches the identifier.
var ErrPromptNotFound = errors.New("prompt not found")

// PromptsRepository persists normalized preference tuples.
type PromptsRepository interface {
	GetOrCreate(ctx context.Context, prompt entity.Prompt) (*entity.Prompt, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Prompt, error)
}

const promptColumns = `id, price, food_preference, dietary_preference, latitude, longitude`

// PGXPromptsRepository implements PromptsRepository with pgx.
type PGXPromptsRepository struct {
	pool pgxPool
}

func NewPGXPromptsRepository(pool *pgxpool.Pool) *PGXPromptsRepository {
	return &PGXPromptsRepository{pool: pool}
}

// GetOrCreate returns the row matching the tuple, inserting it when absent.
// A single statement so concurrent identical requests converge on one row.
func (r *PGXPromptsRepository) GetOrCreate(ctx context.Context, prompt entity.Prompt) (*entity.Prompt, error) {
	row := r.pool.QueryRow(ctx, `
        WITH ins AS (
            INSERT INTO prompts (price, food_preference, dietary_preference, latitude, longitude)
            VALUES ($1, $2, $3, $4, $5)
            ON CONFLICT (price, food_preference, dietary_preference, latitude, longitude) DO NOTHING
            RETURNING `+promptColumns+`
        )
        SELECT `+promptColumns+` FROM ins
        UNION ALL
        SELECT `+promptColumns+` FROM prompts
        WHERE price = $1 AND food_preference = $2 AND dietary_preference = $3
          AND latitude = $4 AND longitude = $5
        LIMIT 1
    `, prompt.Price, prompt.FoodPreference, prompt.DietaryPreference, prompt.Lat, prompt.Lng)

	var out entity.Prompt
	if err := row.Scan(&out.ID, &out.Price, &out.FoodPreference, &out.DietaryPreference, &out.Lat, &out.Lng); err != nil {
		return nil, fmt.Errorf("get or create prompt: %w", err)
	}
	return &out, nil
}

// FindByID retrieves a prompt by identifier.
func (r *PGXPromptsRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Prompt, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+promptColumns+` FROM prompts WHERE id = $1`, id)

	var out entity.Prompt
	if err := row.Scan(&out.ID, &out.Price, &out.FoodPreference, &out.DietaryPreference, &out.Lat, &out.Lng); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPromptNotFound
		}
		return nil, fmt.Errorf("query prompt by id: %w", err)
	}
	return &out, nil
}
