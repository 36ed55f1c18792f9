package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/choosee/choosee-api/internal/entity"
)

// LocationsRepository persists restaurant snapshots. Rows are immutable once
// created; repeated sightings of the same place reuse the first snapshot.
type LocationsRepository interface {
	GetOrCreate(ctx context.Context, loc entity.Location) (*entity.Location, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Location, error)
}

const locationColumns = `id, name, address, latitude, longitude, rating, user_ratings_total,
        price_level, types, description, recommendation_reason, photo_url, created_at`

// PGXLocationsRepository implements LocationsRepository with pgx.
type PGXLocationsRepository struct {
	pool pgxPool
}

func NewPGXLocationsRepository(pool *pgxpool.Pool) *PGXLocationsRepository {
	return &PGXLocationsRepository{pool: pool}
}

// GetOrCreate inserts the snapshot unless the identity tuple already exists,
// and returns the surviving row either way.
func (r *PGXLocationsRepository) GetOrCreate(ctx context.Context, loc entity.Location) (*entity.Location, error) {
	row := r.pool.QueryRow(ctx, `
        WITH ins AS (
            INSERT INTO locations (name, address, latitude, longitude, rating, user_ratings_total,
                                   price_level, types, description, recommendation_reason, photo_url)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
            ON CONFLICT (name, address, latitude, longitude) DO NOTHING
            RETURNING `+locationColumns+`
        )
        SELECT `+locationColumns+` FROM ins
        UNION ALL
        SELECT `+locationColumns+` FROM locations
        WHERE name = $1 AND address = $2 AND latitude = $3 AND longitude = $4
        LIMIT 1
    `, loc.Name, loc.Address, loc.Lat, loc.Lng, loc.Rating, loc.UserRatingsTotal,
		loc.PriceLevel, loc.Types, loc.Description, loc.RecommendationReason, loc.PhotoURL)

	var out entity.Location
	if err := scanLocation(row.Scan, &out); err != nil {
		return nil, fmt.Errorf("get or create location: %w", err)
	}
	return &out, nil
}

// ListByIDs returns locations in the order of the given id list.
func (r *PGXLocationsRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Location, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
        SELECT `+locationColumns+` FROM locations
        WHERE id = ANY($1)
        ORDER BY array_position($1, id)
    `, ids)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var out []entity.Location
	for rows.Next() {
		var loc entity.Location
		if err := scanLocation(rows.Scan, &loc); err != nil {
			return nil, fmt.Errorf("scan location row: %w", err)
		}
		out = append(out, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locations: %w", err)
	}
	return out, nil
}

func scanLocation(scan func(dest ...any) error, loc *entity.Location) error {
	return scan(&loc.ID, &loc.Name, &loc.Address, &loc.Lat, &loc.Lng, &loc.Rating,
		&loc.UserRatingsTotal, &loc.PriceLevel, &loc.Types, &loc.Description,
		&loc.RecommendationReason, &loc.PhotoURL, &loc.CreatedAt)
}
