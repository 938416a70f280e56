package recognition

// UnidentifiedFoodName is the canonical name used when a provider cannot
// identify the food on an image or in a description.
const UnidentifiedFoodName = "Unidentified Food Item"

// FoodAnalysisResult is the canonical nutrition record produced by
// normalizing a provider response. Macro values are always >= 0 and finite.
type FoodAnalysisResult struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// SearchResultItem is a single hit from a food text search.
type SearchResultItem struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	SourceID string  `json:"source_id,omitempty"`
}

// QuotaState is the persisted daily quota counter.
type QuotaState struct {
	Date string `json:"date"` // calendar day, YYYY-MM-DD
	Used int    `json:"used"`
}

// responseShape classifies a raw provider payload. Detection order is
// fixed; the first matching shape wins.
type responseShape int

const (
	shapeUnknown responseShape = iota
	shapeCategory
	shapeTextContent
	shapeDirectNutrition
)

// detectShape classifies a decoded provider payload.
func detectShape(raw map[string]any) responseShape {
	if category, ok := raw["category"].(map[string]any); ok {
		if _, ok := category["name"].(string); ok {
			return shapeCategory
		}
	}
	if content, ok := raw["content"].(string); ok && content != "" {
		return shapeTextContent
	}
	if _, ok := raw["nutrition"].(map[string]any); ok {
		if _, ok := raw["name"].(string); ok {
			return shapeDirectNutrition
		}
	}
	return shapeUnknown
}
