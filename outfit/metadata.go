package outfit

import (
	"strings"
	"time"
)

// Metadata is the derived context frozen alongside a saved outfit.
type Metadata struct {
	Palette   []string `json:"palette"`
	Season    string   `json:"season"`
	StyleTags []string `json:"styleTags"`
	LocalTime string   `json:"localTime"`
}

// BuildMetadata derives palette, season and style tags for a saved outfit.
// Palette keeps first-seen slot order, deduplicated after normalization.
func BuildMetadata(top, bottom Item, shoes *Item, now time.Time) Metadata {
	slots := []*Item{&top, &bottom, shoes}

	var palette []string
	for _, item := range slots {
		if item == nil {
			continue
		}
		c := NormalizeColor(item.Color)
		if c == "" || containsColor(palette, c) {
			continue
		}
		palette = append(palette, c)
	}

	var styleTags []string
	addTag := func(tag string) {
		for _, v := range styleTags {
			if v == tag {
				return
			}
		}
		styleTags = append(styleTags, tag)
	}
	for _, item := range slots {
		if item == nil {
			continue
		}
		t := strings.ToLower(item.Type)
		if strings.Contains(t, "jean") || strings.Contains(t, "denim") {
			addTag("casual")
		}
		if strings.Contains(t, "dress") || strings.Contains(t, "formal") || strings.Contains(t, "blazer") {
			addTag("formal")
		}
		if strings.Contains(t, "sport") || strings.Contains(t, "athletic") {
			addTag("sport")
		}
		if strings.Contains(t, "sneaker") {
			addTag("street")
		}
	}

	return Metadata{
		Palette:   palette,
		Season:    seasonOf(now),
		StyleTags: styleTags,
		LocalTime: now.Format(time.RFC3339),
	}
}

func seasonOf(t time.Time) string {
	switch t.Month() {
	case time.December, time.January, time.February:
		return "Winter"
	case time.March, time.April, time.May:
		return "Spring"
	case time.June, time.July, time.August:
		return "Summer"
	case time.September, time.October, time.November:
		return "Autumn"
	}
	return "Unknown"
}
