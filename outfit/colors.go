package outfit

import "strings"

// Color compatibility ruleset. Groups overlap on purpose (navy is neutral
// and cool, brown is neutral and warm). Versioned data, tune here without
// touching the scorer.
var colorGroups = map[string][]string{
	"neutral": {"black", "white", "gray", "beige", "tan", "brown", "navy"},
	"warm":    {"red", "orange", "yellow", "pink", "brown", "tan"},
	"cool":    {"blue", "green", "purple", "navy", "teal"},
	"vibrant": {"red", "orange", "yellow", "pink", "purple", "green"},
}

var complementaryPairs = [][2]string{
	{"blue", "orange"},
	{"red", "green"},
	{"purple", "yellow"},
}

func NormalizeColor(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

// AreColorsCompatible reports whether two garment colors work together.
// Unknown or missing colors never penalize: empty strings match everything,
// and neutrals match everything.
func AreColorsCompatible(a, b string) bool {
	c1 := NormalizeColor(a)
	c2 := NormalizeColor(b)
	if c1 == "" || c2 == "" {
		return true
	}
	if containsColor(colorGroups["neutral"], c1) || containsColor(colorGroups["neutral"], c2) {
		return true
	}
	for _, colors := range colorGroups {
		if containsColor(colors, c1) && containsColor(colors, c2) {
			return true
		}
	}
	for _, pair := range complementaryPairs {
		if (c1 == pair[0] && c2 == pair[1]) || (c1 == pair[1] && c2 == pair[0]) {
			return true
		}
	}
	return false
}

func containsColor(colors []string, c string) bool {
	for _, v := range colors {
		if v == c {
			return true
		}
	}
	return false
}
