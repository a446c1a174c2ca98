// Package validation holds field-level validation rules for meal listings.
package validation

import "strings"

// Box options a giver can pick when offering a meal.
const (
	BoxOptionNeed     = "need"
	BoxOptionDontNeed = "dont_need"
)

var allowedBoxOptions = map[string]struct{}{
	BoxOptionNeed:     {},
	BoxOptionDontNeed: {},
}

// NormalizeBoxOption lowercases and trims a box option value.
func NormalizeBoxOption(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// ValidBoxOption reports whether v is an accepted box option. The empty
// string is accepted since the field is optional.
func ValidBoxOption(v string) bool {
	v = NormalizeBoxOption(v)
	if v == "" {
		return true
	}
	_, ok := allowedBoxOptions[v]
	return ok
}

// NormalizeFoodTypes trims each comma-separated food type and drops empties.
func NormalizeFoodTypes(v string) string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return strings.Join(out, ",")
}
