package dto

// PromptPayload is the client-side shape of a preference tuple.
type PromptPayload struct {
	Price             int     `json:"price"`
	FoodPreference    string  `json:"food_preference"`
	DietaryPreference string  `json:"dietary_preference"`
	Lat               float64 `json:"lat"`
	Lng               float64 `json:"lng"`
}

// LocationPayload is the client-side shape of a restaurant snapshot.
type LocationPayload struct {
	Name                 string   `json:"name"`
	Address              string   `json:"address"`
	Lat                  float64  `json:"lat"`
	Lng                  float64  `json:"lng"`
	Rating               *float64 `json:"rating"`
	UserRatingsTotal     *int     `json:"user_ratings_total"`
	PriceLevel           *int     `json:"price_level"`
	Types                []string `json:"types"`
	Description          *string  `json:"description"`
	RecommendationReason *string  `json:"recommendation_reason"`
	PhotoURL             *string  `json:"photo_url"`
}

// SaveSuggestionsRequest persists a finished, already-ranked location list.
type SaveSuggestionsRequest struct {
	Prompt    PromptPayload     `json:"prompt"`
	Locations []LocationPayload `json:"locations"`
}
