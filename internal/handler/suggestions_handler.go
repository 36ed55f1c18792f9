package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/choosee/choosee-api/internal/dto"
	"github.com/choosee/choosee-api/internal/entity"
	"github.com/choosee/choosee-api/internal/repository"
	"github.com/choosee/choosee-api/internal/service"
)

// SuggestionsAPI is the slice of the suggestions service the handler uses.
type SuggestionsAPI interface {
	SaveSuggestions(ctx context.Context, userID uuid.UUID, req dto.SaveSuggestionsRequest) (*entity.Suggestion, error)
	ListUserSuggestions(ctx context.Context, userID uuid.UUID) ([]entity.Suggestion, error)
}

// SuggestionsHandler exposes saved suggestion endpoints.
type SuggestionsHandler struct {
	svc SuggestionsAPI
}

// NewSuggestionsHandler constructs a SuggestionsHandler.
func NewSuggestionsHandler(svc SuggestionsAPI) *SuggestionsHandler {
	return &SuggestionsHandler{svc: svc}
}

// SaveSuggestions handles POST /save_suggestions requests.
func (h *SuggestionsHandler) SaveSuggestions(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid token subject")
	}

	var req dto.SaveSuggestionsRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	saved, err := h.svc.SaveSuggestions(c.Request().Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoLocations), errors.Is(err, service.ErrTooManyLocations):
			return ErrorWithDetails(c, http.StatusBadRequest, "invalid suggestion", err.Error())
		case errors.Is(err, repository.ErrDuplicateSuggestion):
			return ErrorWithCode(c, http.StatusConflict, "suggestion already saved", "DUPLICATE_SUGGESTION")
		default:
			return Error(c, http.StatusInternalServerError, "unable to save suggestion")
		}
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message":    "suggestion saved",
		"suggestion": saved,
	})
}

// ListUserSuggestions handles GET /user_suggestions requests.
func (h *SuggestionsHandler) ListUserSuggestions(c echo.Context) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return Error(c, http.StatusUnauthorized, "invalid token subject")
	}

	list, err := h.svc.ListUserSuggestions(c.Request().Context(), userID)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "unable to load suggestions")
	}
	if list == nil {
		list = []entity.Suggestion{}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"suggestions": list,
		"count":       len(list),
	})
}
