package entity

// Restaurant is a candidate returned by the places provider. Nullable provider
// fields stay pointers so the serialized form always carries the key, with null
// when the provider omitted it. Description, RecommendationReason and Rank are
// filled in by the rerank step.
type Restaurant struct {
	Name                 string   `json:"name"`
	Address              string   `json:"address"`
	Lat                  float64  `json:"lat"`
	Lng                  float64  `json:"lng"`
	Rating               *float64 `json:"rating"`
	UserRatingsTotal     *int     `json:"user_ratings_total"`
	PriceLevel           *int     `json:"price_level"`
	Types                []string `json:"types"`
	Phone                *string  `json:"phone"`
	PhotoRef             *string  `json:"photo_reference"`
	PhotoURL             *string  `json:"photo_url,omitempty"`
	Description          string   `json:"description,omitempty"`
	RecommendationReason string   `json:"recommendation_reason,omitempty"`
	Rank                 int      `json:"rank,omitempty"`
}

// DedupKey identifies a listing for deduplication. Exact string match only:
// near-duplicate listings with differently formatted addresses stay distinct.
func (r Restaurant) DedupKey() string {
	return r.Name + "_" + r.Address
}
