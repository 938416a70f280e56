package recognition

import (
	"math"
	"strconv"
	"strings"
)

// extractNutrient looks up a macro value in a loosely typed provider
// payload. It tries, in order: the key directly on data, the key inside a
// "nutrition" sub-map, and a "nutrients" list inside "nutrition" whose
// entries carry name/amount pairs. It returns false when no strategy
// matches; callers decide the default. It never panics on surprising
// structure.
func extractNutrient(data map[string]any, key string) (float64, bool) {
	if data == nil {
		return 0, false
	}

	if v, ok := data[key]; ok {
		if f, ok := coerceNumeric(v); ok {
			return f, true
		}
	}

	nutrition, ok := data["nutrition"].(map[string]any)
	if !ok {
		return 0, false
	}

	if v, ok := nutrition[key]; ok {
		if f, ok := coerceNumeric(v); ok {
			return f, true
		}
	}

	nutrients, ok := nutrition["nutrients"].([]any)
	if !ok {
		return 0, false
	}
	for _, entry := range nutrients {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name, ok := m["name"].(string)
		if !ok || !strings.EqualFold(name, key) {
			continue
		}
		if f, ok := coerceNumeric(m["amount"]); ok {
			return f, true
		}
	}

	return 0, false
}

// coerceNumeric converts a payload value to a float. Strings are parsed
// after discarding non-numeric characters; maps are unwrapped through
// their "value" field.
func coerceNumeric(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return sanitize(t)
	case float32:
		return sanitize(float64(t))
	case int:
		return sanitize(float64(t))
	case int64:
		return sanitize(float64(t))
	case string:
		return parseLooseFloat(t)
	case map[string]any:
		inner, ok := t["value"]
		if !ok {
			return 0, false
		}
		return coerceNumeric(inner)
	default:
		return 0, false
	}
}

// parseLooseFloat parses a number out of free text, keeping only digits
// and the first decimal point ("350 cal" -> 350).
func parseLooseFloat(s string) (float64, bool) {
	var b strings.Builder
	seenDot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenDot && b.Len() > 0:
			seenDot = true
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(b.String(), "."), 64)
	if err != nil {
		return 0, false
	}
	return sanitize(f)
}

// sanitize rejects values a macro field must never hold.
func sanitize(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}
