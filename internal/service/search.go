package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/choosee/choosee-api/internal/config"
	"github.com/choosee/choosee-api/internal/entity"
	"github.com/choosee/choosee-api/internal/places"
)

// Query ladder states, tried in order whenever a search runs dry.
const (
	querySpecific = iota // cuisine + dietary
	queryCuisineOnly
	queryGeneric
	ladderSize
)

// metersPerDegreeLat is the equirectangular approximation used to convert
// fan-out offsets from meters to degrees.
const metersPerDegreeLat = 111320.0

// SearchOrchestrator drives the places client across query refinements,
// pagination and optional geographic fan-out until the result quota is met or
// every source is exhausted.
type SearchOrchestrator struct {
	searcher places.Searcher
	cfg      config.SearchConfig
}

// NewSearchOrchestrator wires an orchestrator, applying defaults for any
// zero-valued tuning knobs.
func NewSearchOrchestrator(searcher places.Searcher, cfg config.SearchConfig) *SearchOrchestrator {
	if cfg.Quota <= 0 {
		cfg.Quota = 50
	}
	if cfg.Floor <= 0 {
		cfg.Floor = 10
	}
	if cfg.RadiusMeters <= 0 {
		cfg.RadiusMeters = 2000
	}
	if cfg.Region == "" {
		cfg.Region = "PH"
	}
	if cfg.OffsetMeters <= 0 {
		cfg.OffsetMeters = 1500
	}
	return &SearchOrchestrator{searcher: searcher, cfg: cfg}
}

type searchPoint struct {
	lat float64
	lng float64
}

// Collect accumulates unique candidates around the given center. On a
// transport failure it aborts immediately and returns whatever was gathered
// alongside the error; callers treat partial data as success when non-empty.
// The returned set never exceeds the configured quota and is sorted by rating
// descending, with missing ratings sorting last.
func (o *SearchOrchestrator) Collect(ctx context.Context, lat, lng float64, prefs Preferences) ([]entity.Restaurant, error) {
	seen := make(map[string]struct{})
	results := make([]entity.Restaurant, 0, o.cfg.Quota)
	var abortErr error

	for _, point := range o.searchPoints(lat, lng) {
		if len(results) >= o.cfg.Quota {
			break
		}
		if err := o.collectAt(ctx, point, prefs, seen, &results); err != nil {
			log.Printf("places search aborted: %v", err)
			abortErr = err
			break
		}
	}

	sortByRating(results)
	return results, abortErr
}

// collectAt walks the query ladder at one geographic point, paginating each
// rung until the quota is met, the pages run out, or the provider fails.
func (o *SearchOrchestrator) collectAt(ctx context.Context, point searchPoint, prefs Preferences, seen map[string]struct{}, results *[]entity.Restaurant) error {
	attempt := querySpecific
	token := ""

	for {
		page, err := o.searcher.Search(ctx, places.SearchRequest{
			TextQuery:    o.ladderQuery(attempt, prefs),
			Lat:          point.lat,
			Lng:          point.lng,
			RadiusMeters: o.cfg.RadiusMeters,
			PageToken:    token,
		})
		if err != nil {
			return fmt.Errorf("search %q: %w", o.ladderQuery(attempt, prefs), err)
		}

		for _, r := range page.Restaurants {
			if len(*results) >= o.cfg.Quota {
				return nil
			}
			key := r.DedupKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			*results = append(*results, r)
		}

		if len(*results) >= o.cfg.Quota {
			return nil
		}

		token = page.NextPageToken
		if token != "" {
			continue
		}

		// Pages exhausted. Too few results means the query was too narrow;
		// advance the ladder and restart pagination from scratch.
		if len(*results) < o.cfg.Floor && attempt < ladderSize-1 {
			attempt++
			continue
		}
		return nil
	}
}

// ladderQuery builds the text query for a ladder state. Empty preference
// fields collapse each state toward the generic search.
func (o *SearchOrchestrator) ladderQuery(attempt int, prefs Preferences) string {
	var terms []string
	switch attempt {
	case querySpecific:
		terms = []string{prefs.FoodPreference, prefs.DietaryPreference}
	case queryCuisineOnly:
		terms = []string{prefs.FoodPreference}
	}
	terms = append(terms, "restaurant", o.cfg.Region)
	return strings.Join(strings.Fields(strings.Join(terms, " ")), " ")
}

// searchPoints returns the center plus, when fan-out is enabled, four
// cardinal offsets at the configured distance.
func (o *SearchOrchestrator) searchPoints(lat, lng float64) []searchPoint {
	center := searchPoint{lat: lat, lng: lng}
	if !o.cfg.Fanout {
		return []searchPoint{center}
	}

	dLat := o.cfg.OffsetMeters / metersPerDegreeLat
	dLng := o.cfg.OffsetMeters / (metersPerDegreeLat * math.Cos(lat*math.Pi/180))
	return []searchPoint{
		center,
		{lat: lat + dLat, lng: lng},
		{lat: lat - dLat, lng: lng},
		{lat: lat, lng: lng + dLng},
		{lat: lat, lng: lng - dLng},
	}
}

func sortByRating(list []entity.Restaurant) {
	sort.SliceStable(list, func(i, j int) bool {
		return ratingOrZero(list[i]) > ratingOrZero(list[j])
	})
}

func ratingOrZero(r entity.Restaurant) float64 {
	if r.Rating == nil {
		return 0
	}
	return *r.Rating
}
