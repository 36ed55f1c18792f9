package service

import (
	"encoding/json"
	"strings"

	"github.com/choosee/choosee-api/internal/dto"
)

// Preferences is the request-scoped, normalized form of a client's dining
// preferences. MaxPrice is nil when the client sent nothing numeric; the
// pricing rules treat that as the most expensive level.
type Preferences struct {
	FoodPreference    string
	DietaryPreference string
	MaxPrice          *float64
}

// PreferencesFromPayload normalizes the wire payload, resolving the
// food_preference/cuisine_type and price/max_price aliases.
func PreferencesFromPayload(p dto.PreferencesPayload) Preferences {
	prefs := Preferences{
		FoodPreference:    strings.TrimSpace(firstNonEmpty(p.FoodPreference, p.CuisineType)),
		DietaryPreference: strings.TrimSpace(p.DietaryPreference),
	}
	if v := numericValue(p.Price); v != nil {
		prefs.MaxPrice = v
	} else {
		prefs.MaxPrice = numericValue(p.MaxPrice)
	}
	return prefs
}

// PromptPrice is the integer price stored on the Prompt row. Non-numeric or
// missing budgets are stored as zero, matching the prompt tuple defaults.
func (p Preferences) PromptPrice() int {
	if p.MaxPrice == nil {
		return 0
	}
	return int(*p.MaxPrice)
}

// numericValue accepts only JSON numbers. Numeric strings are deliberately
// not coerced here; a non-numeric budget widens the price filter instead of
// failing the request.
func numericValue(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case int:
		f := float64(t)
		return &f
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return &f
		}
		return nil
	default:
		return nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
