package recognition

import (
	"encoding/json"
	"regexp"
	"strings"

	apperrors "github.com/nutrilog/server/internal/shared/errors"
)

// Field capture over free-form model output. These are best-effort,
// lossy heuristics over text the provider is prompted (but not
// guaranteed) to produce; anything they miss defaults to 0 or the
// unidentified sentinel.
var (
	nameRe     = regexp.MustCompile(`(?im)^\s*(?:food\s*name|name)\s*:\s*(?P<name>[^.\n\r]+)`)
	caloriesRe = regexp.MustCompile(`(?i)calories\s*:\s*(?P<value>\d+(?:\.\d+)?)`)
	proteinRe  = regexp.MustCompile(`(?i)protein\s*:\s*(?P<value>\d+(?:\.\d+)?)`)
	carbsRe    = regexp.MustCompile(`(?i)carb(?:ohydrate)?s?\s*:\s*(?P<value>\d+(?:\.\d+)?)`)
	fatRe      = regexp.MustCompile(`(?i)fat\s*:\s*(?P<value>\d+(?:\.\d+)?)`)
	foodLineRe = regexp.MustCompile(`(?im)^\s*food\s*:\s*(?P<name>[^.\n\r]+)`)
)

var unidentifiedMarkers = []string{"unidentified", "unknown", "not food"}

// normalizeResult converts a raw provider payload into the canonical
// nutrition record. Shapes are tried in a fixed order; the first match
// wins. An unrecognized payload is an error the caller surfaces as a
// recognition failure.
func normalizeResult(raw map[string]any) (*FoodAnalysisResult, error) {
	switch detectShape(raw) {
	case shapeCategory:
		category := raw["category"].(map[string]any)
		name, _ := category["name"].(string)
		return resultFromPayload(name, raw), nil

	case shapeTextContent:
		content := raw["content"].(string)
		return normalizeText(content), nil

	case shapeDirectNutrition:
		name, _ := raw["name"].(string)
		return resultFromPayload(name, raw), nil

	default:
		return nil, apperrors.UnsupportedResponse("")
	}
}

// resultFromPayload builds a result from a structured payload, defaulting
// each absent macro to 0.
func resultFromPayload(name string, raw map[string]any) *FoodAnalysisResult {
	return &FoodAnalysisResult{
		Name:     canonicalName(name),
		Calories: nutrientOrZero(raw, "calories"),
		Protein:  nutrientOrZero(raw, "protein"),
		Carbs:    nutrientOrZero(raw, "carbs"),
		Fat:      nutrientOrZero(raw, "fat"),
	}
}

func nutrientOrZero(raw map[string]any, key string) float64 {
	v, ok := extractNutrient(raw, key)
	if !ok {
		return 0
	}
	return v
}

// normalizeText extracts a result from free-form model text using the
// field regexes. Missing fields default rather than fail.
func normalizeText(content string) *FoodAnalysisResult {
	name := UnidentifiedFoodName
	if m := nameRe.FindStringSubmatch(content); m != nil {
		name = canonicalName(strings.TrimSpace(m[1]))
	}

	return &FoodAnalysisResult{
		Name:     name,
		Calories: captureFloat(caloriesRe, content),
		Protein:  captureFloat(proteinRe, content),
		Carbs:    captureFloat(carbsRe, content),
		Fat:      captureFloat(fatRe, content),
	}
}

// canonicalName forces names the model flags as unidentifiable onto the
// single sentinel value the rest of the app keys on.
func canonicalName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return UnidentifiedFoodName
	}
	lower := strings.ToLower(name)
	for _, marker := range unidentifiedMarkers {
		if strings.Contains(lower, marker) {
			return UnidentifiedFoodName
		}
	}
	return name
}

func captureFloat(re *regexp.Regexp, content string) float64 {
	m := re.FindStringSubmatch(content)
	if m == nil {
		return 0
	}
	f, ok := parseLooseFloat(m[1])
	if !ok {
		return 0
	}
	return f
}

// normalizeSearchResults converts a raw search payload into a result
// list. A JSON array embedded in free text is preferred; a line-oriented
// scan of repeated Food:/macro blocks is the fallback. Zero results is a
// valid outcome, not an error.
func normalizeSearchResults(raw map[string]any) []SearchResultItem {
	// Structured list straight from the provider
	if items, ok := raw["items"].([]any); ok {
		return itemsFromList(items)
	}

	content, ok := raw["content"].(string)
	if !ok || content == "" {
		return []SearchResultItem{}
	}

	if arr := extractJSONArray(content); arr != "" {
		var items []any
		if err := json.Unmarshal([]byte(arr), &items); err == nil {
			return itemsFromList(items)
		}
	}

	return itemsFromLines(content)
}

// itemsFromList maps decoded JSON objects through the macro extraction
// rules.
func itemsFromList(items []any) []SearchResultItem {
	results := make([]SearchResultItem, 0, len(items))
	for _, entry := range items {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["name"].(string)
		if name == "" {
			name, _ = m["food"].(string)
		}
		if name == "" {
			continue
		}
		item := SearchResultItem{
			Name:     canonicalName(name),
			Calories: nutrientOrZero(m, "calories"),
			Protein:  nutrientOrZero(m, "protein"),
			Carbs:    nutrientOrZero(m, "carbs"),
			Fat:      nutrientOrZero(m, "fat"),
		}
		if id, ok := m["id"].(string); ok {
			item.SourceID = id
		}
		results = append(results, item)
	}
	return results
}

// itemsFromLines scans free text for repeated Food:/Calories:/Protein:/
// Carbs:/Fat: blocks. Each Food: line starts a new item; macro lines fill
// the current one.
func itemsFromLines(content string) []SearchResultItem {
	results := []SearchResultItem{}
	var current *SearchResultItem

	for _, line := range strings.Split(content, "\n") {
		if m := foodLineRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				results = append(results, *current)
			}
			current = &SearchResultItem{Name: canonicalName(strings.TrimSpace(m[1]))}
			continue
		}
		if current == nil {
			continue
		}
		switch {
		case caloriesRe.MatchString(line):
			current.Calories = captureFloat(caloriesRe, line)
		case proteinRe.MatchString(line):
			current.Protein = captureFloat(proteinRe, line)
		case carbsRe.MatchString(line):
			current.Carbs = captureFloat(carbsRe, line)
		case fatRe.MatchString(line):
			current.Fat = captureFloat(fatRe, line)
		}
	}
	if current != nil {
		results = append(results, *current)
	}
	return results
}

// extractJSONArray returns the first balanced [...] substring that
// contains at least one object, or "" when none exists. Brackets inside
// JSON strings are accounted for.
func extractJSONArray(content string) string {
	start := strings.IndexByte(content, '[')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	hasObject := false

	for i := start; i < len(content); i++ {
		ch := content[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			hasObject = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				if !hasObject {
					return ""
				}
				return content[start : i+1]
			}
		}
	}

	return ""
}
