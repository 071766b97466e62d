package outfit

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// Item is the engine's view of a wardrobe garment. Callers map their
// storage rows into this and keep the engine free of persistence concerns.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Color    string `json:"color"`
	Size     string `json:"size"`
	Fit      string `json:"fit"`
	Type     string `json:"type"`
	Material string `json:"material"`
	ImageURL string `json:"imageUrl"`
}

// SlotDescriptions carries the per-garment styling blurbs of a candidate.
type SlotDescriptions struct {
	Top    string `json:"top"`
	Bottom string `json:"bottom"`
	Shoes  string `json:"shoes"`
}

// ShoppingSuggestion points at a garment category worth adding to the
// wardrobe to round out a candidate.
type ShoppingSuggestion struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
	Color  string `json:"color"`
}

// Candidate is one generated outfit, ranked against its siblings.
type Candidate struct {
	Name                string               `json:"name"`
	Description         string               `json:"description"`
	Occasion            string               `json:"occasion"`
	Destination         string               `json:"destination"`
	Weather             string               `json:"weather"`
	Top                 Item                 `json:"top"`
	Bottom              Item                 `json:"bottom"`
	Shoes               *Item                `json:"shoes"`
	Score               int                  `json:"score"`
	Popularity          int                  `json:"popularity"`
	AIDescriptions      SlotDescriptions     `json:"aiDescriptions"`
	ShoppingSuggestions []ShoppingSuggestion `json:"shoppingSuggestions"`
}

// Signature identifies the candidate by its constituent item ids,
// independent of slot order.
func (c *Candidate) Signature() string {
	ids := []string{c.Top.ID, c.Bottom.ID}
	if c.Shoes != nil {
		ids = append(ids, c.Shoes.ID)
	}
	return Signature(ids)
}

// Options steer a generation run. Popularity is injected so callers decide
// between real randomness and a deterministic stub.
type Options struct {
	Occasion    string
	Destination string
	Weather     string
	Popularity  func() int
}

var (
	ErrNotEnoughItems   = errors.New("add at least two items to generate outfits")
	ErrNeedTopAndBottom = errors.New("you need at least one top and one bottom item to generate outfits")
)

var topTypes = map[string]bool{"shirt": true, "tshirt": true, "blazer": true, "top": true}
var bottomTypes = map[string]bool{"pants": true, "jeans": true, "shorts": true, "trousers": true}

const shoesType = "shoes"

// Slot canonicalizes a free form garment type into the wardrobe slot it
// occupies: "top", "bottom", "shoes" or "accessory".
func Slot(itemType string) string {
	t := strings.ToLower(strings.TrimSpace(itemType))
	switch {
	case topTypes[t]:
		return "top"
	case bottomTypes[t]:
		return "bottom"
	case t == shoesType:
		return "shoes"
	default:
		return "accessory"
	}
}

// Generate builds every top x bottom combination from the wardrobe, picks
// the best scoring shoe for each pair (first encountered wins on ties) and
// returns the candidates sorted by score, highest first. The sort is stable
// so equal scores keep cross product order. Each call produces a complete
// replacement list.
func Generate(items []Item, opts Options) ([]Candidate, error) {
	if len(items) < 2 {
		return nil, ErrNotEnoughItems
	}

	var tops, bottoms, shoes []Item
	for _, item := range items {
		t := strings.ToLower(strings.TrimSpace(item.Type))
		switch {
		case topTypes[t]:
			tops = append(tops, item)
		case bottomTypes[t]:
			bottoms = append(bottoms, item)
		case t == shoesType:
			shoes = append(shoes, item)
		}
	}
	if len(tops) == 0 || len(bottoms) == 0 {
		return nil, ErrNeedTopAndBottom
	}

	occasionTag := strings.ToLower(strings.TrimSpace(opts.Occasion))
	if occasionTag == "" {
		occasionTag = DefaultOccasion
	}
	weatherTag := strings.ToLower(strings.TrimSpace(opts.Weather))
	if weatherTag == "" {
		weatherTag = DefaultWeather
	}
	popularity := opts.Popularity
	if popularity == nil {
		popularity = func() int { return rand.Intn(100) }
	}

	type combo struct {
		top    Item
		bottom Item
		shoes  *Item
		score  int
	}
	var combos []combo
	for _, t := range tops {
		for _, b := range bottoms {
			var bestShoe *Item
			bestShoeScore := -1
			for i := range shoes {
				s := &shoes[i]
				sc := Score(&t, &b, s, occasionTag, weatherTag)
				if sc > bestShoeScore {
					bestShoeScore = sc
					bestShoe = s
				}
			}
			total := Score(&t, &b, bestShoe, occasionTag, weatherTag)
			combos = append(combos, combo{top: t, bottom: b, shoes: bestShoe, score: total})
		}
	}

	sort.SliceStable(combos, func(i, j int) bool {
		return combos[i].score > combos[j].score
	})

	spec, ok := OccasionFor(occasionTag)
	if !ok {
		spec, _ = OccasionFor(DefaultOccasion)
	}

	candidates := make([]Candidate, 0, len(combos))
	for idx, c := range combos {
		var shoesCopy *Item
		if c.shoes != nil {
			s := *c.shoes
			shoesCopy = &s
		}
		candidates = append(candidates, Candidate{
			Name:                fmt.Sprintf("%s %d", spec.Name, idx+1),
			Description:         spec.Description,
			Occasion:            occasionTag,
			Destination:         opts.Destination,
			Weather:             weatherTag,
			Top:                 c.top,
			Bottom:              c.bottom,
			Shoes:               shoesCopy,
			Score:               c.score,
			Popularity:          popularity(),
			AIDescriptions:      slotDescriptions(c.top, c.bottom, shoesCopy),
			ShoppingSuggestions: ShoppingSuggestions(c.top, c.bottom, shoesCopy),
		})
	}
	return candidates, nil
}

func slotDescriptions(top, bottom Item, shoes *Item) SlotDescriptions {
	d := SlotDescriptions{
		Top:    fmt.Sprintf("This %s %s pairs with %s.", firstNonEmpty(top.Color, top.Name), top.Type, firstNonEmpty(bottom.Color, bottom.Name)),
		Bottom: fmt.Sprintf("These %s %s go well with the top.", bottom.Color, bottom.Type),
	}
	if shoes != nil {
		d.Shoes = fmt.Sprintf("Complete the look with these %s %s.", shoes.Color, shoes.Type)
	}
	return d
}

// ShoppingSuggestions flags wardrobe gaps for a candidate: missing shoes,
// bare casual looks, and shirts that could take a layer.
func ShoppingSuggestions(top, bottom Item, shoes *Item) []ShoppingSuggestion {
	var suggestions []ShoppingSuggestion
	topType := strings.ToLower(top.Type)
	bottomType := strings.ToLower(bottom.Type)

	if shoes == nil {
		suggestions = append(suggestions, ShoppingSuggestion{
			Type:   "shoes",
			Reason: "Complete your outfit with matching shoes",
			Color:  firstNonEmpty(top.Color, bottom.Color, "neutral"),
		})
	}
	if strings.Contains(topType, "tshirt") && !strings.Contains(bottomType, "shorts") {
		suggestions = append(suggestions, ShoppingSuggestion{
			Type:   "accessories",
			Reason: "Add a watch or bracelet to elevate this casual look",
			Color:  "neutral",
		})
	}
	if strings.Contains(topType, "shirt") && !strings.Contains(topType, "dress") {
		suggestions = append(suggestions, ShoppingSuggestion{
			Type:   "outerwear",
			Reason: "Consider a jacket or blazer for a more polished look",
			Color:  "neutral",
		})
	}
	return suggestions
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
