package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/choosee/choosee-api/internal/dto"
	"github.com/choosee/choosee-api/internal/entity"
	"github.com/choosee/choosee-api/internal/service"
)

// VisitedAPI is the slice of the visited service the handler uses.
type VisitedAPI interface {
	Toggle(ctx context.Context, userID uuid.UUID, req dto.ToggleVisitedRequest) (bool, *entity.VisitedLocation, error)
	Check(ctx context.Context, userID uuid.UUID, req dto.CheckVisitedRequest) (bool, *entity.VisitedLocation, error)
	List(ctx context.Context, userID uuid.UUID) ([]entity.VisitedLocation, error)
	RecentVisits(ctx context.Context, userID uuid.UUID, days int) ([]entity.VisitedLocation, error)
}

// VisitedHandler exposes visited location endpoints.
type VisitedHandler struct {
	svc VisitedAPI
}

// NewVisitedHandler constructs a VisitedHandler.
func NewVisitedHandler(svc VisitedAPI) *VisitedHandler {
	return &VisitedHandler{svc: svc}
}

// ToggleVisited handles POST /visited/toggle_visited requests.
func (h *VisitedHandler) ToggleVisited(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid token subject")
	}

	var req dto.ToggleVisitedRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	visited, row, err := h.svc.Toggle(c.Request().Context(), userID, req)
	if err != nil {
		if errors.Is(err, service.ErrMissingLocation) {
			return ErrorWithDetails(c, http.StatusBadRequest, "invalid location", err.Error())
		}
		return Error(c, http.StatusInternalServerError, "unable to toggle visited state")
	}

	message := "location removed from visited list"
	if visited {
		message = "location marked as visited"
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message":    message,
		"is_visited": visited,
		"data":       row,
	})
}

// CheckVisited handles POST /visited/check_visited requests.
func (h *VisitedHandler) CheckVisited(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid token subject")
	}

	var req dto.CheckVisitedRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	visited, row, err := h.svc.Check(c.Request().Context(), userID, req)
	if err != nil {
		if errors.Is(err, service.ErrMissingLocation) {
			return ErrorWithDetails(c, http.StatusBadRequest, "invalid location", err.Error())
		}
		return Error(c, http.StatusInternalServerError, "unable to check visited state")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"is_visited": visited,
		"data":       row,
	})
}

// ListVisited handles GET /visited requests.
func (h *VisitedHandler) ListVisited(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid token subject")
	}

	list, err := h.svc.List(c.Request().Context(), userID)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "unable to load visited locations")
	}
	if list == nil {
		list = []entity.VisitedLocation{}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"visited_locations": list,
		"count":             len(list),
	})
}

// RecentVisits handles GET /visited/recent_visits requests.
func (h *VisitedHandler) RecentVisits(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid token subject")
	}

	days := 0
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return ErrorWithDetails(c, http.StatusBadRequest, "invalid days parameter", "days must be a positive integer")
		}
		days = parsed
	}

	list, err := h.svc.RecentVisits(c.Request().Context(), userID, days)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "unable to load recent visits")
	}
	if list == nil {
		list = []entity.VisitedLocation{}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"recent_visits": list,
		"count":         len(list),
	})
}
