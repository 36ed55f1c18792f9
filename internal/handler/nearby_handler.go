package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/choosee/choosee-api/internal/dto"
	"github.com/choosee/choosee-api/internal/service"
)

// NearbyAPI is the slice of the suggestions service the handler uses.
type NearbyAPI interface {
	Nearby(ctx context.Context, lat, lng float64, prefs service.Preferences) (*dto.NearbyResponse, error)
}

// NearbyHandler exposes the recommendation pipeline.
type NearbyHandler struct {
	svc NearbyAPI
}

// NewNearbyHandler constructs a NearbyHandler.
func NewNearbyHandler(svc NearbyAPI) *NearbyHandler {
	return &NearbyHandler{svc: svc}
}

// Nearby handles POST /nearby requests.
func (h *NearbyHandler) Nearby(c echo.Context) error {
	var req dto.NearbyRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	lat, err := coordinate(req.Lat)
	if err != nil {
		return ErrorWithDetails(c, http.StatusBadRequest, "invalid coordinates", "lat must be numeric")
	}
	lng, err := coordinate(req.Lng)
	if err != nil {
		return ErrorWithDetails(c, http.StatusBadRequest, "invalid coordinates", "lng must be numeric")
	}

	prefs := service.PreferencesFromPayload(req.Preferences)
	resp, err := h.svc.Nearby(c.Request().Context(), lat, lng, prefs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoResults):
			return Error(c, http.StatusNotFound, "no restaurants found near this location")
		case errors.Is(err, service.ErrSearchFailed):
			return ErrorWithDetails(c, http.StatusInternalServerError, "restaurant search failed", err.Error())
		default:
			return Error(c, http.StatusInternalServerError, "unable to fetch recommendations")
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// coordinate accepts JSON numbers and numeric strings. Anything else is a
// client error.
func coordinate(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case json.Number:
		return t.Float64()
	case string:
		return strconv.ParseFloat(t, 64)
	default:
		return 0, fmt.Errorf("coordinate is not numeric: %v", v)
	}
}
