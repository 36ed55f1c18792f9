package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/choosee/choosee-api/internal/dto"
	"github.com/choosee/choosee-api/internal/entity"
	"github.com/choosee/choosee-api/internal/repository"
)

// ErrMissingLocation rejects visited requests without a location payload.
var ErrMissingLocation = errors.New("a location with name and address is required")

// DefaultRecentVisitsDays bounds the recent visits listing when the caller
// does not ask for a specific window.
const DefaultRecentVisitsDays = 30

// VisitedService manages per-user visited markers.
type VisitedService struct {
	visited repository.VisitedRepository
	now     func() time.Time
}

// NewVisitedService constructs a new VisitedService.
func NewVisitedService(visited repository.VisitedRepository) *VisitedService {
	return &VisitedService{visited: visited, now: time.Now}
}

// Toggle flips the visited state for a place. It returns the new state and,
// when the place is now visited, the stored row.
func (s *VisitedService) Toggle(ctx context.Context, userID uuid.UUID, req dto.ToggleVisitedRequest) (bool, *entity.VisitedLocation, error) {
	loc, err := visitedIdentity(req.Location)
	if err != nil {
		return false, nil, err
	}

	deleted, err := s.visited.DeleteByIdentity(ctx, userID, loc.Name, loc.Address)
	if err != nil {
		return false, nil, err
	}
	if deleted {
		return false, nil, nil
	}

	v := visitedFromPayload(userID, *req.Location)
	if req.Notes != "" {
		v.Notes = &req.Notes
	}
	created, err := s.visited.Create(ctx, v)
	if err != nil {
		return false, nil, err
	}
	return true, created, nil
}

// Check reports whether the place is on the user's visited list.
func (s *VisitedService) Check(ctx context.Context, userID uuid.UUID, req dto.CheckVisitedRequest) (bool, *entity.VisitedLocation, error) {
	loc, err := visitedIdentity(req.Location)
	if err != nil {
		return false, nil, err
	}

	found, err := s.visited.FindByIdentity(ctx, userID, loc.Name, loc.Address)
	if err != nil {
		if errors.Is(err, repository.ErrVisitNotFound) {
			return false, nil, nil
		}
		return false, nil, err
	}
	return true, found, nil
}

// List returns every visited marker for the user, most recent first.
func (s *VisitedService) List(ctx context.Context, userID uuid.UUID) ([]entity.VisitedLocation, error) {
	return s.visited.ListByUser(ctx, userID)
}

// RecentVisits returns markers from the last days days. A non-positive value
// falls back to the thirty day default.
func (s *VisitedService) RecentVisits(ctx context.Context, userID uuid.UUID, days int) ([]entity.VisitedLocation, error) {
	if days <= 0 {
		days = DefaultRecentVisitsDays
	}
	since := s.now().Add(-time.Duration(days) * 24 * time.Hour)
	return s.visited.ListRecent(ctx, userID, since)
}

func visitedIdentity(p *dto.LocationPayload) (*dto.LocationPayload, error) {
	if p == nil || p.Name == "" || p.Address == "" {
		return nil, ErrMissingLocation
	}
	return p, nil
}

func visitedFromPayload(userID uuid.UUID, p dto.LocationPayload) entity.VisitedLocation {
	return entity.VisitedLocation{
		UserID:               userID,
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
