package entity

import (
	"time"

	"github.com/google/uuid"
)

// VisitedLocation records that a user marked a place as visited. Unique per
// (user, name, address); toggling visited off deletes the row.
type VisitedLocation struct {
	ID                   uuid.UUID `json:"id"`
	UserID               uuid.UUID `json:"-"`
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
	Notes                *string   `json:"notes"`
	DateVisited          time.Time `json:"date_visited"`
}
