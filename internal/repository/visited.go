package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/choosee/choosee-api/internal/entity"
)

// ErrVisitNotFound is returned when no visited row matches the identity.
var ErrVisitNotFound = errors.New("visited location not found")

// VisitedRepository persists per-user visited markers, unique per
// (user, name, address).
type VisitedRepository interface {
	Create(ctx context.Context, v entity.VisitedLocation) (*entity.VisitedLocation, error)
	DeleteByIdentity(ctx context.Context, userID uuid.UUID, name, address string) (bool, error)
	FindByIdentity(ctx context.Context, userID uuid.UUID, name, address string) (*entity.VisitedLocation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.VisitedLocation, error)
	ListRecent(ctx context.Context, userID uuid.UUID, since time.Time) ([]entity.VisitedLocation, error)
}

const visitedColumns = `id, user_id, name, address, latitude, longitude, rating, user_ratings_total,
        price_level, types, description, recommendation_reason, photo_url, notes, date_visited`

// PGXVisitedRepository implements VisitedRepository with pgx.
type PGXVisitedRepository struct {
	pool pgxPool
}

func NewPGXVisitedRepository(pool *pgxpool.Pool) *PGXVisitedRepository {
	return &PGXVisitedRepository{pool: pool}
}

// Create inserts the visited marker. A concurrent duplicate insert falls
// through to selecting the surviving row.
func (r *PGXVisitedRepository) Create(ctx context.Context, v entity.VisitedLocation) (*entity.VisitedLocation, error) {
	row := r.pool.QueryRow(ctx, `
        WITH ins AS (
            INSERT INTO visited_locations (user_id, name, address, latitude, longitude, rating,
                                           user_ratings_total, price_level, types, description,
                                           recommendation_reason, photo_url, notes)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
            ON CONFLICT (user_id, name, address) DO NOTHING
            RETURNING `+visitedColumns+`
        )
        SELECT `+visitedColumns+` FROM ins
        UNION ALL
        SELECT `+visitedColumns+` FROM visited_locations
        WHERE user_id = $1 AND name = $2 AND address = $3
        LIMIT 1
    `, v.UserID, v.Name, v.Address, v.Lat, v.Lng, v.Rating, v.UserRatingsTotal,
		v.PriceLevel, v.Types, v.Description, v.RecommendationReason, v.PhotoURL, v.Notes)

	var out entity.VisitedLocation
	if err := scanVisited(row.Scan, &out); err != nil {
		return nil, fmt.Errorf("insert visited location: %w", err)
	}
	return &out, nil
}

// DeleteByIdentity removes the marker and reports whether a row was deleted.
func (r *PGXVisitedRepository) DeleteByIdentity(ctx context.Context, userID uuid.UUID, name, address string) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `
        DELETE FROM visited_locations WHERE user_id = $1 AND name = $2 AND address = $3
    `, userID, name, address)
	if err != nil {
		return false, fmt.Errorf("delete visited location: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// FindByIdentity fetches the marker for one place.
func (r *PGXVisitedRepository) FindByIdentity(ctx context.Context, userID uuid.UUID, name, address string) (*entity.VisitedLocation, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT `+visitedColumns+` FROM visited_locations
        WHERE user_id = $1 AND name = $2 AND address = $3
    `, userID, name, address)

	var out entity.VisitedLocation
	if err := scanVisited(row.Scan, &out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVisitNotFound
		}
		return nil, fmt.Errorf("query visited location: %w", err)
	}
	return &out, nil
}

// ListByUser returns every visited marker, most recent first.
func (r *PGXVisitedRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.VisitedLocation, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT `+visitedColumns+` FROM visited_locations
        WHERE user_id = $1
        ORDER BY date_visited DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("list visited locations: %w", err)
	}
	return collectVisited(rows)
}

// ListRecent returns markers created at or after the cutoff, most recent first.
func (r *PGXVisitedRepository) ListRecent(ctx context.Context, userID uuid.UUID, since time.Time) ([]entity.VisitedLocation, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT `+visitedColumns+` FROM visited_locations
        WHERE user_id = $1 AND date_visited >= $2
        ORDER BY date_visited DESC
    `, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list recent visits: %w", err)
	}
	return collectVisited(rows)
}

func collectVisited(rows pgx.Rows) ([]entity.VisitedLocation, error) {
	defer rows.Close()

	var out []entity.VisitedLocation
	for rows.Next() {
		var v entity.VisitedLocation
		if err := scanVisited(rows.Scan, &v); err != nil {
			return nil, fmt.Errorf("scan visited row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visited rows: %w", err)
	}
	return out, nil
}

func scanVisited(scan func(dest ...any) error, v *entity.VisitedLocation) error {
	return scan(&v.ID, &v.UserID, &v.Name, &v.Address, &v.Lat, &v.Lng, &v.Rating,
		&v.UserRatingsTotal, &v.PriceLevel, &v.Types, &v.Description,
		&v.RecommendationReason, &v.PhotoURL, &v.Notes, &v.DateVisited)
}
