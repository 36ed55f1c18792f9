// Package places talks to the Google Places text-search API and normalizes
// its results into the candidate restaurant shape the rest of the pipeline
// consumes.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"

	"github.com/choosee/choosee-api/internal/entity"
	"github.com/choosee/choosee-api/internal/service/pricing"
)

const (
	searchPath = "/v1/places:searchText"

	// The provider invalidates next-page tokens that are reused too quickly,
	// so every continuation request waits this long first.
	defaultTokenPause = 2 * time.Second

	fieldMask = "places.displayName,places.formattedAddress,places.location," +
		"places.rating,places.userRatingCount,places.priceLevel,places.types," +
		"places.photos,places.nationalPhoneNumber"

	photoMaxWidth  = 400
	photoMaxHeight = 400
)

// SearchRequest describes one text-search call. A non-empty PageToken makes
// this a continuation request; all other fields are ignored by the provider
// in that case.
type SearchRequest struct {
	TextQuery    string
	Lat          float64
	Lng          float64
	RadiusMeters float64
	PageToken    string
}

// Page holds one page of normalized results.
type Page struct {
	Restaurants   []entity.Restaurant
	NextPageToken string
}

// Searcher issues a single text-search request.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) (Page, error)
}

// Client implements Searcher against the Places API.
type Client struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	phoneRegion string
	tokenPause  time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

// Option configures optional client behaviour.
type Option func(*Client)

// WithTokenPause overrides the pause before continuation requests.
func WithTokenPause(d time.Duration) Option {
	return func(c *Client) { c.tokenPause = d }
}

// NewClient builds a places client. A nil http.Client gets a sane default.
func NewClient(client *http.Client, baseURL, apiKey, phoneRegion string, opts ...Option) *Client {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	c := &Client{
		client:      client,
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		phoneRegion: strings.ToUpper(strings.TrimSpace(phoneRegion)),
		tokenPause:  defaultTokenPause,
		sleep:       sleepCtx,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchBody struct {
	TextQuery    string        `json:"textQuery,omitempty"`
	IncludedType string        `json:"includedType,omitempty"`
	LocationBias *locationBias `json:"locationBias,omitempty"`
	PageToken    string        `json:"pageToken,omitempty"`
}

type locationBias struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type searchResponse struct {
	Places        []rawPlace `json:"places"`
	NextPageToken string     `json:"nextPageToken"`
}

type rawPlace struct {
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string `json:"formattedAddress"`
	Location         struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Rating              *float64 `json:"rating"`
	UserRatingCount     *int     `json:"userRatingCount"`
	PriceLevel          string   `json:"priceLevel"`
	Types               []string `json:"types"`
	NationalPhoneNumber string   `json:"nationalPhoneNumber"`
	Photos              []struct {
		Name string `json:"name"`
	} `json:"photos"`
}

// Search performs one text-search call and normalizes the resulting page.
// A non-2xx response is returned as an error so the caller can abort the
// current search branch; the page is empty in that case.
func (c *Client) Search(ctx context.Context, req SearchRequest) (Page, error) {
	var body searchBody
	if req.PageToken != "" {
		if err := c.sleep(ctx, c.tokenPause); err != nil {
			return Page{}, err
		}
		body = searchBody{PageToken: req.PageToken}
	} else {
		body = searchBody{
			TextQuery:    req.TextQuery,
			IncludedType: "restaurant",
			LocationBias: &locationBias{
				Circle: circle{
					Center: latLng{Latitude: req.Lat, Longitude: req.Lng},
					Radius: req.RadiusMeters,
				},
			},
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Page{}, fmt.Errorf("marshal search body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchPath, bytes.NewReader(payload))
	if err != nil {
		return Page{}, fmt.Errorf("create search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Page{}, fmt.Errorf("places search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Page{}, fmt.Errorf("places search returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Page{}, fmt.Errorf("decode search response: %w", err)
	}

	page := Page{NextPageToken: parsed.NextPageToken}
	for _, place := range parsed.Places {
		page.Restaurants = append(page.Restaurants, c.normalize(place))
	}
	return page, nil
}

func (c *Client) normalize(place rawPlace) entity.Restaurant {
	r := entity.Restaurant{
		Name:             place.DisplayName.Text,
		Address:          place.FormattedAddress,
		Lat:              place.Location.Latitude,
		Lng:              place.Location.Longitude,
		Rating:           place.Rating,
		UserRatingsTotal: place.UserRatingCount,
		PriceLevel:       pricing.LevelFromLabel(place.PriceLevel),
		Types:            place.Types,
	}
	if len(place.Photos) > 0 && place.Photos[0].Name != "" {
		name := place.Photos[0].Name
		r.PhotoRef = &name
	}
	if phone := c.normalizePhone(place.NationalPhoneNumber); phone != "" {
		r.Phone = &phone
	}
	return r
}

// normalizePhone formats the provider's national number as E.164 when it
// parses; otherwise the trimmed raw value is kept as-is.
func (c *Client) normalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parsed, err := phonenumbers.Parse(raw, c.phoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return raw
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}

// PhotoURL formats a photo reference into the provider's media endpoint URL.
// Returns empty for an empty reference.
func (c *Client) PhotoURL(photoRef string) string {
	if photoRef == "" {
		return ""
	}
	return fmt.Sprintf("%s/v1/%s/media?key=%s&maxWidthPx=%d&maxHeightPx=%d",
		c.baseURL, photoRef, c.apiKey, photoMaxWidth, photoMaxHeight)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
