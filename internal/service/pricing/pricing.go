// Package pricing maps free-form price inputs onto the provider's discrete
// 0-4 price level scale.
package pricing

// Breakpoints are in currency units (PHP). Policy constants, not derived.
const (
	levelOneMax   = 150
	levelTwoMax   = 300
	levelThreeMax = 600
)

// MaxLevel is the most expensive price level.
const MaxLevel = 4

var labelLevels = map[string]int{
	"PRICE_LEVEL_FREE":           0,
	"PRICE_LEVEL_INEXPENSIVE":    1,
	"PRICE_LEVEL_MODERATE":       2,
	"PRICE_LEVEL_EXPENSIVE":      3,
	"PRICE_LEVEL_VERY_EXPENSIVE": 4,
}

// LevelFromAmount converts a currency amount into a price level 0-4.
func LevelFromAmount(amount float64) int {
	switch {
	case amount <= 0:
		return 0
	case amount <= levelOneMax:
		return 1
	case amount <= levelTwoMax:
		return 2
	case amount <= levelThreeMax:
		return 3
	default:
		return MaxLevel
	}
}

// LevelFromLabel converts the provider's categorical price label into a level.
// Unknown labels return nil rather than an error so callers can keep the field
// nullable.
func LevelFromLabel(label string) *int {
	level, ok := labelLevels[label]
	if !ok {
		return nil
	}
	return &level
}

// LevelFromMaxPrice converts a user budget into a level. A missing budget is
// treated as the most expensive level, so non-numeric input widens the search
// instead of failing it.
func LevelFromMaxPrice(maxPrice *float64) int {
	if maxPrice == nil {
		return MaxLevel
	}
	return LevelFromAmount(*maxPrice)
}
