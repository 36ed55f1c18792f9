package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/choosee/choosee-api/internal/dto"
	"github.com/choosee/choosee-api/internal/entity"
	"github.com/choosee/choosee-api/internal/repository"
)

var (
	// ErrSearchFailed means the places provider failed before anything was
	// gathered.
	ErrSearchFailed = errors.New("restaurant search failed")
	// ErrNoResults means every query variant came back empty.
	ErrNoResults = errors.New("no restaurants found")
	// ErrTooManyLocations rejects suggestion payloads over the cap.
	ErrTooManyLocations = fmt.Errorf("a suggestion may hold at most %d locations", entity.MaxSuggestionLocations)
	// ErrNoLocations rejects suggestion payloads with nothing to save.
	ErrNoLocations = errors.New("a suggestion needs at least one location")
)

// CandidateCollector gathers unique restaurant candidates around a point.
type CandidateCollector interface {
	Collect(ctx context.Context, lat, lng float64, prefs Preferences) ([]entity.Restaurant, error)
}

// RestaurantRanker narrows candidates to the final annotated shortlist.
type RestaurantRanker interface {
	Rerank(ctx context.Context, candidates []entity.Restaurant, prefs Preferences) []entity.Restaurant
}

// PhotoResolver turns a provider photo reference into a fetchable URL.
type PhotoResolver interface {
	PhotoURL(ref string) string
}

// SuggestionsService runs the recommendation pipeline and manages saved
// suggestion sets.
type SuggestionsService struct {
	collector   CandidateCollector
	ranker      RestaurantRanker
	photos      PhotoResolver
	prompts     repository.PromptsRepository
	locations   repository.LocationsRepository
	suggestions repository.SuggestionsRepository
}

// NewSuggestionsService constructs a new SuggestionsService.
func NewSuggestionsService(
	collector CandidateCollector,
	ranker RestaurantRanker,
	photos PhotoResolver,
	prompts repository.PromptsRepository,
	locations repository.LocationsRepository,
	suggestions repository.SuggestionsRepository,
) *SuggestionsService {
	return &SuggestionsService{
		collector:   collector,
		ranker:      ranker,
		photos:      photos,
		prompts:     prompts,
		locations:   locations,
		suggestions: suggestions,
	}
}

// Nearby runs search plus rerank, persists the prompt and location snapshots,
// and returns the ranked shortlist. Saving the set as a suggestion is a
// separate, explicit call.
func (s *SuggestionsService) Nearby(ctx context.Context, lat, lng float64, prefs Preferences) (*dto.NearbyResponse, error) {
	candidates, err := s.collector.Collect(ctx, lat, lng, prefs)
	if err != nil && len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	if err != nil {
		log.Printf("search degraded, continuing with %d candidates: %v", len(candidates), err)
	}
	if len(candidates) == 0 {
		return nil, ErrNoResults
	}

	ranked := s.ranker.Rerank(ctx, candidates, prefs)
	for i := range ranked {
		if ranked[i].PhotoRef != nil {
			if url := s.photos.PhotoURL(*ranked[i].PhotoRef); url != "" {
				ranked[i].PhotoURL = &url
			}
		}
	}

	prompt, err := s.prompts.GetOrCreate(ctx, entity.Prompt{
		Price:             prefs.PromptPrice(),
		FoodPreference:    prefs.FoodPreference,
		DietaryPreference: prefs.DietaryPreference,
		Lat:               lat,
		Lng:               lng,
	})
	if err != nil {
		return nil, err
	}

	for _, r := range ranked {
		if _, err := s.locations.GetOrCreate(ctx, locationFromRestaurant(r)); err != nil {
			return nil, err
		}
	}

	return &dto.NearbyResponse{
		PromptID:    prompt.ID,
		Prompt:      *prompt,
		Restaurants: ranked,
		Count:       len(ranked),
	}, nil
}

// SaveSuggestions persists a prompt plus location set for the user. The same
// set saved twice for the same prompt is rejected with ErrDuplicateSuggestion.
func (s *SuggestionsService) SaveSuggestions(ctx context.Context, userID uuid.UUID, req dto.SaveSuggestionsRequest) (*entity.Suggestion, error) {
	if len(req.Locations) == 0 {
		return nil, ErrNoLocations
	}
	if len(req.Locations) > entity.MaxSuggestionLocations {
		return nil, ErrTooManyLocations
	}

	prompt, err := s.prompts.GetOrCreate(ctx, entity.Prompt{
		Price:             req.Prompt.Price,
		FoodPreference:    req.Prompt.FoodPreference,
		DietaryPreference: req.Prompt.DietaryPreference,
		Lat:               req.Prompt.Lat,
		Lng:               req.Prompt.Lng,
	})
	if err != nil {
		return nil, err
	}

	locationIDs := make([]uuid.UUID, 0, len(req.Locations))
	stored := make([]entity.Location, 0, len(req.Locations))
	for _, payload := range req.Locations {
		loc, err := s.locations.GetOrCreate(ctx, locationFromPayload(payload))
		if err != nil {
			return nil, err
		}
		locationIDs = append(locationIDs, loc.ID)
		stored = append(stored, *loc)
	}

	suggestion, err := s.suggestions.Create(ctx, userID, prompt.ID, locationIDs)
	if err != nil {
		return nil, err
	}
	suggestion.Prompt = prompt
	suggestion.Locations = stored
	return suggestion, nil
}

// ListUserSuggestions returns the user's saved suggestions, most recent first,
// with locations hydrated.
func (s *SuggestionsService) ListUserSuggestions(ctx context.Context, userID uuid.UUID) ([]entity.Suggestion, error) {
	list, err := s.suggestions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range list {
		locs, err := s.locations.ListByIDs(ctx, list[i].LocationIDs)
		if err != nil {
			return nil, err
		}
		list[i].Locations = locs
	}
	return list, nil
}

func locationFromRestaurant(r entity.Restaurant) entity.Location {
	loc := entity.Location{
		Name:             r.Name,
		Address:          r.Address,
		Lat:              r.Lat,
		Lng:              r.Lng,
		Rating:           r.Rating,
		UserRatingsTotal: r.UserRatingsTotal,
		PriceLevel:       r.PriceLevel,
		Types:            r.Types,
		PhotoURL:         r.PhotoURL,
	}
	if r.Description != "" {
		loc.Description = &r.Description
	}
	if r.RecommendationReason != "" {
		loc.RecommendationReason = &r.RecommendationReason
	}
	return loc
}

func locationFromPayload(p dto.LocationPayload) entity.Location {
	return entity.Location{
		Name:                 p.Name,
		Address:              p.Address,
		Lat:                  p.Lat,
		Lng:                  p.Lng,
		Rating:               p.Rating,
		UserRatingsTotal:     p.UserRatingsTotal,
		PriceLevel:           p.PriceLevel,
		Types:                p.Types,
		Description:          p.Description,
		RecommendationReason: p.RecommendationReason,
		PhotoURL:             p.PhotoURL,
	}
}
