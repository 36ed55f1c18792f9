package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/choosee/choosee-api/internal/entity"
)

// ErrDuplicateSuggestion is returned when the same user already saved the same
// prompt with the same location set.
var ErrDuplicateSuggestion = errors.New("suggestion already exists")

// SuggestionsRepository persists saved recommendation sets.
type SuggestionsRepository interface {
	Create(ctx context.Context, userID, promptID uuid.UUID, locationIDs []uuid.UUID) (*entity.Suggestion, error)
	Exists(ctx context.Context, userID, promptID uuid.UUID, locationIDs []uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Suggestion, error)
}

// PGXSuggestionsRepository implements SuggestionsRepository with pgx.
// Location id arrays are stored sorted, so set equality reduces to array
// equality.
type PGXSuggestionsRepository struct {
	pool pgxPool
}

func NewPGXSuggestionsRepository(pool *pgxpool.Pool) *PGXSuggestionsRepository {
	return &PGXSuggestionsRepository{pool: pool}
}

// Create inserts a suggestion row after checking the set is not already saved.
func (r *PGXSuggestionsRepository) Create(ctx context.Context, userID, promptID uuid.UUID, locationIDs []uuid.UUID) (*entity.Suggestion, error) {
	sorted := sortedIDs(locationIDs)

	exists, err := r.Exists(ctx, userID, promptID, sorted)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateSuggestion
	}

	row := r.pool.QueryRow(ctx, `
        INSERT INTO suggestions (user_id, prompt_id, location_ids)
        VALUES ($1, $2, $3)
        RETURNING id, user_id, prompt_id, location_ids, date_created, date_updated
    `, userID, promptID, sorted)

	var s entity.Suggestion
	if err := row.Scan(&s.ID, &s.UserID, &s.PromptID, &s.LocationIDs, &s.DateCreated, &s.DateUpdated); err != nil {
		return nil, fmt.Errorf("insert suggestion: %w", err)
	}
	return &s, nil
}

// Exists reports whether the user already saved this exact prompt and
// location set.
func (r *PGXSuggestionsRepository) Exists(ctx context.Context, userID, promptID uuid.UUID, locationIDs []uuid.UUID) (bool, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM suggestions
            WHERE user_id = $1 AND prompt_id = $2 AND location_ids = $3
        )
    `, userID, promptID, sortedIDs(locationIDs))

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("check suggestion exists: %w", err)
	}
	return exists, nil
}

// ListByUser returns the user's suggestions, most recent first, with the
// prompt joined in. Locations are left to the caller to hydrate.
func (r *PGXSuggestionsRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Suggestion, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT s.id, s.user_id, s.prompt_id, s.location_ids, s.date_created, s.date_updated,
               p.id, p.price, p.food_preference, p.dietary_preference, p.latitude, p.longitude
        FROM suggestions s
        JOIN prompts p ON p.id = s.prompt_id
        WHERE s.user_id = $1
        ORDER BY s.date_created DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	var out []entity.Suggestion
	for rows.Next() {
		var s entity.Suggestion
		var p entity.Prompt
		if err := rows.Scan(&s.ID, &s.UserID, &s.PromptID, &s.LocationIDs, &s.DateCreated, &s.DateUpdated,
			&p.ID, &p.Price, &p.FoodPreference, &p.DietaryPreference, &p.Lat, &p.Lng); err != nil {
			return nil, fmt.Errorf("scan suggestion row: %w", err)
		}
		s.Prompt = &p
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suggestions: %w", err)
	}
	return out, nil
}

func sortedIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}
