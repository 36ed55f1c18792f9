package entity

import (
	"time"

	"github.com/google/uuid"
)

// Location is a persisted restaurant snapshot, keyed by (name, address, lat, lng).
// Rows are created on first sighting and never refreshed, so rating and photo
// data reflect the first time the place was seen.
type Location struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	Address              string    `json:"address"`
	Lat                  float64   `json:"lat"`
	Lng                  float64   `json:"lng"`
	Rating               *float64  `json:"rating"`
	UserRatingsTotal     *int      `json:"user_ratings_total"`
	PriceLevel           *int      `json:"price_level"`
	Types                []string  `json:"types"`
	Description          *string   `json:"description"`
	RecommendationReason *string   `json:"recommendation_reason"`
	PhotoURL             *string   `json:"photo_url"`
	CreatedAt            time.Time `json:"created_at"`
}
