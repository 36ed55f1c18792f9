package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/choosee/choosee-api/internal/entity"
	"github.com/choosee/choosee-api/internal/llm"
	"github.com/choosee/choosee-api/internal/service/pricing"
)

// MaxFinalResults is the number of recommendations returned to the client.
const MaxFinalResults = 10

const rankingPromptTemplate = `You are a restaurant recommendation expert. From the candidate restaurants below, select the %d that best match the user's preferences and rank them from best to worst.

User preferences:
- Food preference: %s
- Dietary preference: %s
- Maximum price level (0 cheapest to 4 most expensive): %d

When ranking, prioritize in this order:
1. Price fit within the user's budget
2. Cuisine match with the food preference
3. Dietary compatibility
4. Rating and number of reviews
5. Overall quality

Respond with ONLY a JSON array of exactly %d objects. Each object must keep every field of the matching candidate unchanged and add:
- "description": one short sentence describing the restaurant
- "recommendation_reason": one short sentence explaining why it fits the preferences
- "rank": an integer from 1 (best) to %d

Do not wrap the array in markdown and do not add any text outside the JSON array.

Candidate restaurants:
%s`

// trailingCommaExpr matches the trailing commas models tend to leave before a
// closing bracket.
var trailingCommaExpr = regexp.MustCompile(`,\s*([\]}])`)

// RerankEngine turns a candidate pool into the final ranked shortlist using a
// language model, falling back to a deterministic selection whenever the model
// is unavailable or returns garbage. Rerank never fails.
type RerankEngine struct {
	generator llm.Generator
}

func NewRerankEngine(generator llm.Generator) *RerankEngine {
	return &RerankEngine{generator: generator}
}

// Rerank returns at most MaxFinalResults restaurants, each annotated with a
// description, a recommendation reason and a 1-based rank.
func (e *RerankEngine) Rerank(ctx context.Context, candidates []entity.Restaurant, prefs Preferences) []entity.Restaurant {
	if len(candidates) <= MaxFinalResults {
		return annotate(candidates, prefs)
	}

	prompt, err := buildRankingPrompt(candidates, prefs)
	if err != nil {
		log.Printf("rerank prompt build failed, using rating order: %v", err)
		return annotate(candidates[:MaxFinalResults], prefs)
	}

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		log.Printf("rerank generation failed, using rating order: %v", err)
		return annotate(candidates[:MaxFinalResults], prefs)
	}

	ranked, err := parseRankedResponse(raw)
	if err != nil {
		log.Printf("rerank parse failed, using rating order: %v", err)
		return annotate(candidates[:MaxFinalResults], prefs)
	}

	if len(ranked) > MaxFinalResults {
		ranked = ranked[:MaxFinalResults]
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return rankOrLast(ranked[i]) < rankOrLast(ranked[j])
	})
	return ranked
}

func buildRankingPrompt(candidates []entity.Restaurant, prefs Preferences) (string, error) {
	serialized, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize candidates: %w", err)
	}

	food := prefs.FoodPreference
	if food == "" {
		food = "any cuisine"
	}
	dietary := prefs.DietaryPreference
	if dietary == "" {
		dietary = "no restrictions"
	}
	level := pricing.LevelFromMaxPrice(prefs.MaxPrice)

	return fmt.Sprintf(rankingPromptTemplate,
		MaxFinalResults, food, dietary, level,
		MaxFinalResults, MaxFinalResults,
		string(serialized)), nil
}

// parseRankedResponse extracts a JSON array from a model reply that may be
// wrapped in code fences or prose, and tolerates trailing commas.
func parseRankedResponse(raw string) ([]entity.Restaurant, error) {
	content := strings.TrimSpace(raw)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("response contains no JSON array")
	}
	content = trailingCommaExpr.ReplaceAllString(content[start:end+1], "$1")

	var ranked []entity.Restaurant
	if err := json.Unmarshal([]byte(content), &ranked); err != nil {
		return nil, fmt.Errorf("decode ranked array: %w", err)
	}
	if len(ranked) == 0 {
		return nil, fmt.Errorf("ranked array is empty")
	}
	return ranked, nil
}

// annotate fills in the model-authored fields deterministically, keeping the
// incoming order as the ranking.
func annotate(list []entity.Restaurant, prefs Preferences) []entity.Restaurant {
	out := make([]entity.Restaurant, len(list))
	copy(out, list)
	for i := range out {
		out[i].Description = synthDescription(out[i])
		out[i].RecommendationReason = synthReason(prefs)
		out[i].Rank = i + 1
	}
	return out
}

func synthDescription(r entity.Restaurant) string {
	kind := "restaurant"
	if len(r.Types) > 0 && r.Types[0] != "" {
		kind = strings.ReplaceAll(r.Types[0], "_", " ")
	}
	area := r.Address
	if area == "" {
		area = "the area"
	}
	return fmt.Sprintf("A %s in %s.", titleCase(kind), area)
}

func synthReason(prefs Preferences) string {
	food := prefs.FoodPreference
	if food == "" {
		food = "any cuisine"
	}
	dietary := prefs.DietaryPreference
	if dietary == "" {
		dietary = "any dietary preference"
	}
	return fmt.Sprintf("Selected based on your preferences for %s and %s.", food, dietary)
}

func rankOrLast(r entity.Restaurant) int {
	if r.Rank <= 0 {
		return MaxFinalResults
	}
	return r.Rank
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
