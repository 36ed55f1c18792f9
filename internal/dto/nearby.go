package dto

import (
	"github.com/google/uuid"

	"github.com/choosee/choosee-api/internal/entity"
)

// NearbyRequest is the payload for POST /nearby. Coordinates are typed as any
// because clients send them both as JSON numbers and as numeric strings; the
// handler converts and rejects anything non-numeric.
type NearbyRequest struct {
	Lat         any                `json:"lat"`
	Lng         any                `json:"lng"`
	Preferences PreferencesPayload `json:"preferences"`
}

// PreferencesPayload captures dining preferences. FoodPreference/CuisineType
// and Price/MaxPrice are accepted as aliases for older clients. Price is any:
// a non-numeric value is treated as the most expensive level downstream, never
// rejected.
type PreferencesPayload struct {
	FoodPreference    string `json:"food_preference"`
	CuisineType       string `json:"cuisine_type"`
	DietaryPreference string `json:"dietary_preference"`
	Price             any    `json:"price"`
	MaxPrice          any    `json:"max_price"`
}

// NearbyResponse echoes the resolved prompt and the ranked restaurant list.
type NearbyResponse struct {
	PromptID    uuid.UUID           `json:"prompt_id"`
	Prompt      entity.Prompt       `json:"prompt"`
	Restaurants []entity.Restaurant `json:"restaurants"`
	Count       int                 `json:"count"`
}
