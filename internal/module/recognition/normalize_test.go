package recognition

import (
	"testing"

	apperrors "github.com/nutrilog/server/internal/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeResult_CategoryShape(t *testing.T) {
	t.Run("name taken verbatim, macros extracted", func(t *testing.T) {
		raw := map[string]any{
			"category": map[string]any{"name": "Margherita Pizza"},
			"calories": 270.0,
			"protein":  "11 g",
			"carbs":    map[string]any{"value": 33.0},
		}

		result, err := normalizeResult(raw)
		require.NoError(t, err)

		assert.Equal(t, "Margherita Pizza", result.Name)
		assert.Equal(t, 270.0, result.Calories)
		assert.Equal(t, 11.0, result.Protein)
		assert.Equal(t, 33.0, result.Carbs)
		assert.Equal(t, 0.0, result.Fat) // absent defaults to zero
	})

	t.Run("all macros default to zero when absent", func(t *testing.T) {
		raw := map[string]any{
			"category": map[string]any{"name": "Black Coffee"},
		}

		result, err := normalizeResult(raw)
		require.NoError(t, err)

		assert.Equal(t, "Black Coffee", result.Name)
		assert.Zero(t, result.Calories)
		assert.Zero(t, result.Protein)
		assert.Zero(t, result.Carbs)
		assert.Zero(t, result.Fat)
	})
}

func TestNormalizeResult_TextContentShape(t *testing.T) {
	t.Run("well-formed model output", func(t *testing.T) {
		raw := map[string]any{
			"content": "Food Name: Chicken Salad\nCalories: 350 cal\nProtein: 30 g\nCarbs: 10 g\nFat: 15 g",
		}

		result, err := normalizeResult(raw)
		require.NoError(t, err)

		assert.Equal(t, "Chicken Salad", result.Name)
		assert.Equal(t, 350.0, result.Calories)
		assert.Equal(t, 30.0, result.Protein)
		assert.Equal(t, 10.0, result.Carbs)
		assert.Equal(t, 15.0, result.Fat)
	})

	t.Run("name stops at the first period", func(t *testing.T) {
		raw := map[string]any{
			"content": "Name: Greek Yogurt. A fermented dairy product.\nCalories: 59",
		}

		result, err := normalizeResult(raw)
		require.NoError(t, err)

		assert.Equal(t, "Greek Yogurt", result.Name)
		assert.Equal(t, 59.0, result.Calories)
	})

	t.Run("accepts Carbohydrates label", func(t *testing.T) {
		raw := map[string]any{
			"content": "Food Name: Banana\nCalories: 105\nProtein: 1.3\nCarbohydrates: 27\nFat: 0.4",
		}

		result, err := normalizeResult(raw)
		require.NoError(t, err)
		assert.Equal(t, 27.0, result.Carbs)
	})

	t.Run("missing fields default", func(t *testing.T) {
		raw := map[string]any{"content": "I see a plate of something."}

		result, err := normalizeResult(raw)
		require.NoError(t, err)

		assert.Equal(t, UnidentifiedFoodName, result.Name)
		assert.Zero(t, result.Calories)
		assert.Zero(t, result.Protein)
		assert.Zero(t, result.Carbs)
		assert.Zero(t, result.Fat)
	})

	t.Run("unidentifiable names forced to sentinel", func(t *testing.T) {
		inputs := []string{
			"Food Name: UNIDENTIFIED object\nCalories: 100",
			"Food Name: Unknown dish\nCalories: 100",
			"Food Name: This is not food\nCalories: 100",
			"Name: unknown\nCalories: 100",
		}

		for _, content := range inputs {
			result, err := normalizeResult(map[string]any{"content": content})
			require.NoError(t, err)
			assert.Equal(t, UnidentifiedFoodName, result.Name, "input: %q", content)
			// Other captured fields survive
			assert.Equal(t, 100.0, result.Calories)
		}
	})
}

func TestNormalizeResult_DirectNutritionShape(t *testing.T) {
	raw := map[string]any{
		"name": "Oatmeal",
		"nutrition": map[string]any{
			"calories": 150.0,
			"protein":  5.0,
			"nutrients": []any{
				map[string]any{"name": "Carbs", "amount": 27.0},
			},
		},
	}

	result, err := normalizeResult(raw)
	require.NoError(t, err)

	assert.Equal(t, "Oatmeal", result.Name)
	assert.Equal(t, 150.0, result.Calories)
	assert.Equal(t, 5.0, result.Protein)
	assert.Equal(t, 27.0, result.Carbs)
	assert.Zero(t, result.Fat)
}

func TestNormalizeResult_UnsupportedShape(t *testing.T) {
	inputs := []map[string]any{
		{},
		{"unexpected": "payload"},
		{"category": "not a map"},
		{"nutrition": map[string]any{}}, // nutrition without name
	}

	for _, raw := range inputs {
		_, err := normalizeResult(raw)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrUnsupportedResponse)
	}
}

func TestNormalizeResult_ShapeOrder(t *testing.T) {
	// category wins over content when both are present
	raw := map[string]any{
		"category": map[string]any{"name": "Apple"},
		"content":  "Food Name: Pear\nCalories: 101",
		"calories": 95.0,
	}

	result, err := normalizeResult(raw)
	require.NoError(t, err)
	assert.Equal(t, "Apple", result.Name)
	assert.Equal(t, 95.0, result.Calories)
}

func TestNormalizeSearchResults(t *testing.T) {
	t.Run("json array embedded in text", func(t *testing.T) {
		raw := map[string]any{
			"content": `Here are some matches:
[{"name": "Brown Rice", "calories": 216, "protein": 5, "carbs": 45, "fat": 1.8},
 {"name": "White Rice", "calories": 205, "protein": 4.3, "carbs": 45, "fat": 0.4}]
Let me know if you need more.`,
		}

		items := normalizeSearchResults(raw)
		require.Len(t, items, 2)
		assert.Equal(t, "Brown Rice", items[0].Name)
		assert.Equal(t, 216.0, items[0].Calories)
		assert.Equal(t, "White Rice", items[1].Name)
		assert.Equal(t, 0.4, items[1].Fat)
	})

	t.Run("line-oriented blocks fallback", func(t *testing.T) {
		raw := map[string]any{
			"content": "Food: Caesar Salad\nCalories: 190\nProtein: 8\nCarbs: 10\nFat: 14\n" +
				"Food: Garden Salad\nCalories: 70\nProtein: 2\nCarbs: 9\nFat: 3",
		}

		items := normalizeSearchResults(raw)
		require.Len(t, items, 2)
		assert.Equal(t, "Caesar Salad", items[0].Name)
		assert.Equal(t, 190.0, items[0].Calories)
		assert.Equal(t, 14.0, items[0].Fat)
		assert.Equal(t, "Garden Salad", items[1].Name)
		assert.Equal(t, 3.0, items[1].Fat)
	})

	t.Run("structured items list", func(t *testing.T) {
		raw := map[string]any{
			"items": []any{
				map[string]any{"name": "Tofu", "calories": 76.0, "id": "f-123"},
			},
		}

		items := normalizeSearchResults(raw)
		require.Len(t, items, 1)
		assert.Equal(t, "Tofu", items[0].Name)
		assert.Equal(t, "f-123", items[0].SourceID)
	})

	t.Run("no recognizable list yields empty result, not error", func(t *testing.T) {
		items := normalizeSearchResults(map[string]any{"content": "I found nothing useful."})
		assert.NotNil(t, items)
		assert.Empty(t, items)

		items = normalizeSearchResults(map[string]any{})
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain array",
			input:    `[{"a": 1}]`,
			expected: `[{"a": 1}]`,
		},
		{
			name:     "array surrounded by prose",
			input:    `sure: [{"a": 1}, {"b": 2}] hope that helps`,
			expected: `[{"a": 1}, {"b": 2}]`,
		},
		{
			name:     "nested arrays",
			input:    `[{"a": [1, 2]}]`,
			expected: `[{"a": [1, 2]}]`,
		},
		{
			name:     "brackets inside strings ignored",
			input:    `[{"a": "weird ] value"}]`,
			expected: `[{"a": "weird ] value"}]`,
		},
		{
			name:     "array without objects rejected",
			input:    `[1, 2, 3]`,
			expected: "",
		},
		{
			name:     "unbalanced array rejected",
			input:    `[{"a": 1}`,
			expected: "",
		},
		{
			name:     "no array at all",
			input:    "nothing here",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJSONArray(tt.input))
		})
	}
}
