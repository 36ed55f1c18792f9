package entity

import "github.com/google/uuid"

// Prompt is the normalized preference tuple a suggestion was generated from.
// The tuple is unique in storage, so identical requests share one row.
type Prompt struct {
	ID                uuid.UUID `json:"id"`
	Price             int       `json:"price"`
	FoodPreference    string    `json:"food_preference"`
	DietaryPreference string    `json:"dietary_preference"`
	Lat               float64   `json:"lat"`
	Lng               float64   `json:"lng"`
}
