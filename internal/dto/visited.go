package dto

// ToggleVisitedRequest flips a location's visited state for the caller.
type ToggleVisitedRequest struct {
	Location *LocationPayload `json:"location"`
	Notes    string           `json:"notes"`
}

// CheckVisitedRequest asks whether a location is on the caller's visited list.
type CheckVisitedRequest struct {
	Location *LocationPayload `json:"location"`
}
