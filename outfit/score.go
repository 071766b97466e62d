package outfit

// Scoring weights. Color harmony and occasion fit carry the score, weather
// is a small bonus on top. The sum can exceed 100 on a perfect match, hence
// the clamp.
const (
	colorMatchPoints    = 25
	occasionTopPoints   = 20
	occasionBottomPoint = 20
	occasionShoesPoints = 10
	weatherSlotPoints   = 5
	maxScore            = 100
)

// Score rates a top/bottom/shoes triple for an occasion and weather tag.
// Shoes are optional. An unrecognized occasion awards a flat 20 so outfits
// without a scorable occasion are not penalized; an unrecognized weather tag
// simply skips the bonus.
func Score(top, bottom, shoes *Item, occasionTag, weatherTag string) int {
	score := 0
	if AreColorsCompatible(itemColor(top), itemColor(bottom)) {
		score += colorMatchPoints
	}
	if shoes != nil && AreColorsCompatible(itemColor(bottom), itemColor(shoes)) {
		score += colorMatchPoints
	}

	if spec, ok := OccasionFor(occasionTag); ok {
		if matchesOccasionKeyword(itemType(top), spec.Tops) {
			score += occasionTopPoints
		}
		if matchesOccasionKeyword(itemType(bottom), spec.Bottoms) {
			score += occasionBottomPoint
		}
		if shoes != nil && matchesOccasionKeyword(itemType(shoes), spec.Shoes) {
			score += occasionShoesPoints
		}
	} else {
		score += occasionTopPoints
	}

	if spec, ok := WeatherFor(weatherTag); ok {
		if matchesWeatherKeyword(itemType(top), spec.Tops) {
			score += weatherSlotPoints
		}
		if matchesWeatherKeyword(itemType(bottom), spec.Bottoms) {
			score += weatherSlotPoints
		}
		if shoes != nil && matchesWeatherKeyword(itemType(shoes), spec.Shoes) {
			score += weatherSlotPoints
		}
	}

	if score > maxScore {
		return maxScore
	}
	return score
}

func itemColor(i *Item) string {
	if i == nil {
		return ""
	}
	return i.Color
}

func itemType(i *Item) string {
	if i == nil {
		return ""
	}
	return i.Type
}
