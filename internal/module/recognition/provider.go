package recognition

import "context"

// Provider is a food recognition/nutrition backend. The raw payload it
// returns is loosely typed; normalization happens at the orchestrator
// boundary so both providers can differ in response shape.
type Provider interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// AnalyzeImage identifies the food on a photo and returns the raw
	// provider payload.
	AnalyzeImage(ctx context.Context, image []byte, mealTypeHint string) (map[string]any, error)

	// LookupFood returns nutrition facts for a named food.
	LookupFood(ctx context.Context, name string) (map[string]any, error)

	// SearchFoods returns candidate foods matching a query.
	SearchFoods(ctx context.Context, query string) (map[string]any, error)
}

// System instructions sent with every provider request. The response
// format they ask for is what the normalizer's field capture expects.
const (
	analyzeImageInstruction = "You are a nutrition assistant. Identify the single main food item " +
		"in the image and reply in exactly this format:\n" +
		"Food Name: <name>\nCalories: <number> cal\nProtein: <number> g\n" +
		"Carbs: <number> g\nFat: <number> g\n" +
		"If you cannot identify a food item, use \"Unidentified Food Item\" as the name with zeros."

	lookupInstruction = "You are a nutrition assistant. For the food the user names, reply in " +
		"exactly this format:\n" +
		"Food Name: <name>\nCalories: <number> cal\nProtein: <number> g\n" +
		"Carbs: <number> g\nFat: <number> g\n" +
		"Use typical single-serving values."

	searchInstruction = "You are a nutrition assistant. List up to 5 foods matching the user's " +
		"query as a JSON array of objects with keys name, calories, protein, carbs, fat."
)
