package entity

import (
	"time"

	"github.com/google/uuid"
)

// MaxSuggestionLocations caps how many locations a suggestion may reference.
const MaxSuggestionLocations = 10

// Suggestion ties a prompt and up to ten locations to the user who saved them.
type Suggestion struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"user_id"`
	PromptID    uuid.UUID   `json:"prompt_id"`
	Prompt      *Prompt     `json:"prompt,omitempty"`
	LocationIDs []uuid.UUID `json:"location_ids,omitempty"`
	Locations   []Location  `json:"locations"`
	DateCreated time.Time   `json:"date_created"`
	DateUpdated time.Time   `json:"date_updated"`
}
