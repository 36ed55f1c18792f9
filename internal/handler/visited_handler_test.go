package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/choosee/choosee-api/internal/dto"
	"github.com/choosee/choosee-api/internal/entity"
	"github.com/choosee/choosee-api/internal/service"
)

type fakeVisitedAPI struct {
	visited  bool
	row      *entity.VisitedLocation
	list     []entity.VisitedLocation
	err      error
	lastDays int
}

func (f *fakeVisitedAPI) Toggle(ctx context.Context, userID uuid.UUID, req dto.ToggleVisitedRequest) (bool, *entity.VisitedLocation, error) {
	return f.visited, f.row, f.err
}

func (f *fakeVisitedAPI) Check(ctx context.Context, userID uuid.UUID, req dto.CheckVisitedRequest) (bool, *entity.VisitedLocation, error) {
	return f.visited, f.row, f.err
}

func (f *fakeVisitedAPI) List(ctx context.Context, userID uuid.UUID) ([]entity.VisitedLocation, error) {
	return f.list, f.err
}

func (f *fakeVisitedAPI) RecentVisits(ctx context.Context, userID uuid.UUID, days int) ([]entity.VisitedLocation, error) {
	f.lastDays = days
	return f.list, f.err
}

func TestVisitedHandler_ToggleVisited(t *testing.T) {
	e := echo.New()
	body := `{"location":{"name":"Ramen Ichi","address":"1 Main St"},"notes":"great broth"}`

	t.Run("marked visited", func(t *testing.T) {
		h := NewVisitedHandler(&fakeVisitedAPI{visited: true, row: &entity.VisitedLocation{Name: "Ramen Ichi"}})
		c, rec := authedContext(e, http.MethodPost, "/visited/toggle_visited", body, uuid.New())

		if err := h.ToggleVisited(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var payload struct {
			Message   string                  `json:"message"`
			IsVisited bool                    `json:"is_visited"`
			Data      *entity.VisitedLocation `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !payload.IsVisited || payload.Data == nil || payload.Data.Name != "Ramen Ichi" {
			t.Fatalf("unexpected payload: %+v", payload)
		}
	})

	t.Run("removed", func(t *testing.T) {
		h := NewVisitedHandler(&fakeVisitedAPI{visited: false})
		c, rec := authedContext(e, http.MethodPost, "/visited/toggle_visited", body, uuid.New())

		if err := h.ToggleVisited(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var payload struct {
			IsVisited bool `json:"is_visited"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if payload.IsVisited {
			t.Fatalf("expected is_visited false, got %s", rec.Body.String())
		}
	})

	t.Run("missing location", func(t *testing.T) {
		h := NewVisitedHandler(&fakeVisitedAPI{err: service.ErrMissingLocation})
		c, rec := authedContext(e, http.MethodPost, "/visited/toggle_visited", `{}`, uuid.New())

		if err := h.ToggleVisited(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestVisitedHandler_CheckVisited(t *testing.T) {
	e := echo.New()
	h := NewVisitedHandler(&fakeVisitedAPI{visited: true, row: &entity.VisitedLocation{Name: "Ramen Ichi"}})

	c, rec := authedContext(e, http.MethodPost, "/visited/check_visited",
		`{"location":{"name":"Ramen Ichi","address":"1 Main St"}}`, uuid.New())

	if err := h.CheckVisited(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload struct {
		IsVisited bool `json:"is_visited"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !payload.IsVisited {
		t.Fatalf("expected is_visited true")
	}
}

func TestVisitedHandler_Lists(t *testing.T) {
	e := echo.New()
	h := NewVisitedHandler(&fakeVisitedAPI{list: []entity.VisitedLocation{{Name: "A"}, {Name: "B"}}})

	c, rec := authedContext(e, http.MethodGet, "/visited", "", uuid.New())
	if err := h.ListVisited(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var listPayload struct {
		VisitedLocations []entity.VisitedLocation `json:"visited_locations"`
		Count            int                      `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listPayload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if listPayload.Count != 2 {
		t.Fatalf("unexpected payload: %+v", listPayload)
	}

	c, rec = authedContext(e, http.MethodGet, "/visited/recent_visits", "", uuid.New())
	if err := h.RecentVisits(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var recentPayload struct {
		RecentVisits []entity.VisitedLocation `json:"recent_visits"`
		Count        int                      `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &recentPayload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if recentPayload.Count != 2 {
		t.Fatalf("unexpected payload: %+v", recentPayload)
	}
}

func TestVisitedHandler_RecentVisitsDaysParam(t *testing.T) {
	e := echo.New()
	api := &fakeVisitedAPI{}
	h := NewVisitedHandler(api)

	c, rec := authedContext(e, http.MethodGet, "/visited/recent_visits?days=7", "", uuid.New())
	if err := h.RecentVisits(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if api.lastDays != 7 {
		t.Fatalf("expected days forwarded, got %d", api.lastDays)
	}

	c, rec = authedContext(e, http.MethodGet, "/visited/recent_visits?days=soon", "", uuid.New())
	if err := h.RecentVisits(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric days, got %d", rec.Code)
	}
}

func TestVisitedHandler_Unauthenticated(t *testing.T) {
	e := echo.New()
	h := NewVisitedHandler(&fakeVisitedAPI{})

	c, rec := newJSONContext(e, http.MethodGet, "/visited", "")
	if err := h.ListVisited(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
