package outfit

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// OccasionSpec describes preferred garment types for one occasion tag.
type OccasionSpec struct {
	Tops        []string
	Bottoms     []string
	Shoes       []string
	Name        string
	Description string
}

// WeatherSpec describes preferred garment types for one weather tag.
type WeatherSpec struct {
	Name    string
	Icon    string
	Tops    []string
	Bottoms []string
	Shoes   []string
}

const DefaultOccasion = "casual"
const DefaultWeather = "sunny"

var occasions = map[string]OccasionSpec{
	"casual": {
		Tops:        []string{"tshirt", "shirt", "polo"},
		Bottoms:     []string{"jeans", "shorts", "pants", "casual"},
		Shoes:       []string{"sneakers", "casual", "sandals"},
		Name:        "Casual Comfort",
		Description: "A relaxed and comfortable outfit perfect for everyday activities.",
	},
	"formal": {
		Tops:        []string{"dress shirt", "formal shirt", "blazer"},
		Bottoms:     []string{"dress pants", "trousers"},
		Shoes:       []string{"dress shoes", "oxfords", "loafers"},
		Name:        "Formal Elegance",
		Description: "A sophisticated outfit suitable for formal events and professional settings.",
	},
	"business": {
		Tops:        []string{"dress shirt", "button-down", "blazer"},
		Bottoms:     []string{"dress pants", "slacks", "chinos"},
		Shoes:       []string{"dress shoes", "oxfords", "loafers"},
		Name:        "Business Professional",
		Description: "A polished outfit perfect for the office or business meetings.",
	},
	"party": {
		Tops:        []string{"stylish shirt", "fashion top", "blazer"},
		Bottoms:     []string{"designer jeans", "chinos", "stylish pants"},
		Shoes:       []string{"fashionable shoes", "stylish sneakers", "boots"},
		Name:        "Party Ready",
		Description: "A trendy outfit that will make you stand out at any social gathering.",
	},
	"date": {
		Tops:        []string{"stylish shirt", "fashion top", "casual blazer"},
		Bottoms:     []string{"dark jeans", "chinos", "stylish pants"},
		Shoes:       []string{"fashionable shoes", "stylish sneakers", "boots"},
		Name:        "Date Night Charm",
		Description: "A stylish and romantic outfit perfect for a special evening out.",
	},
	"wedding": {
		Tops:        []string{"dress shirt", "formal shirt", "blazer"},
		Bottoms:     []string{"dress pants", "trousers"},
		Shoes:       []string{"dress shoes", "oxfords"},
		Name:        "Wedding Guest",
		Description: "An elegant outfit appropriate for celebrating special moments.",
	},
	"outdoor": {
		Tops:        []string{"casual shirt", "tshirt", "outdoor jacket"},
		Bottoms:     []string{"casual pants", "jeans", "shorts"},
		Shoes:       []string{"casual shoes", "sneakers", "outdoor shoes"},
		Name:        "Outdoor Adventure",
		Description: "A practical and comfortable outfit for outdoor activities.",
	},
	"sport": {
		Tops:        []string{"athletic shirt", "sport tshirt", "jersey"},
		Bottoms:     []string{"athletic pants", "shorts", "track pants"},
		Shoes:       []string{"athletic shoes", "sneakers", "running shoes"},
		Name:        "Sport Active",
		Description: "A functional outfit designed for physical activities and sports.",
	},
}

var weatherConditions = map[string]WeatherSpec{
	"sunny": {
		Name:    "Sunny",
		Icon:    "sun",
		Tops:    []string{"tshirt", "shirt", "polo", "lightweight"},
		Bottoms: []string{"shorts", "light pants", "linen"},
		Shoes:   []string{"sandals", "sneakers", "loafers"},
	},
	"cloudy": {
		Name:    "Cloudy",
		Icon:    "cloud",
		Tops:    []string{"shirt", "light sweater", "polo"},
		Bottoms: []string{"jeans", "chinos", "casual pants"},
		Shoes:   []string{"sneakers", "casual shoes"},
	},
	"rainy": {
		Name:    "Rainy",
		Icon:    "cloud-rain",
		Tops:    []string{"shirt", "sweater", "jacket"},
		Bottoms: []string{"jeans", "pants", "waterproof"},
		Shoes:   []string{"boots", "waterproof shoes", "sneakers"},
	},
}

func OccasionFor(tag string) (OccasionSpec, bool) {
	spec, ok := occasions[strings.ToLower(strings.TrimSpace(tag))]
	return spec, ok
}

func WeatherFor(tag string) (WeatherSpec, bool) {
	spec, ok := weatherConditions[strings.ToLower(strings.TrimSpace(tag))]
	return spec, ok
}

func OccasionTags() []string {
	tags := make([]string, 0, len(occasions))
	for tag := range occasions {
		tags = append(tags, tag)
	}
	return tags
}

var titleCaser = cases.Title(language.English)

// OccasionDisplayName returns the catalog display name, falling back to a
// title-cased tag for occasions the catalog does not know.
func OccasionDisplayName(tag string) string {
	if spec, ok := OccasionFor(tag); ok {
		return spec.Name
	}
	return titleCaser.String(strings.TrimSpace(tag))
}

func WeatherDisplayName(tag string) string {
	if spec, ok := WeatherFor(tag); ok {
		return spec.Name
	}
	return titleCaser.String(strings.TrimSpace(tag))
}

// matchesOccasionKeyword matches the first token of each keyword as a
// case-insensitive substring of the garment type, so "dress shirt" matches
// any shirt and "stylish sneakers" any sneakers.
func matchesOccasionKeyword(itemType string, keywords []string) bool {
	t := strings.ToLower(itemType)
	if t == "" {
		return false
	}
	for _, kw := range keywords {
		token, _, _ := strings.Cut(kw, " ")
		if token != "" && strings.Contains(t, token) {
			return true
		}
	}
	return false
}

// matchesWeatherKeyword matches the whole keyword as a substring, so multi
// word entries like "waterproof shoes" only hit fully qualified types.
func matchesWeatherKeyword(itemType string, keywords []string) bool {
	t := strings.ToLower(itemType)
	if t == "" {
		return false
	}
	for _, kw := range keywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}
