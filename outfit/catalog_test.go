package outfit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOccasionCatalog(t *testing.T) {
	spec, ok := OccasionFor("casual")
	assert.True(t, ok)
	assert.Equal(t, "Casual Comfort", spec.Name)

	_, ok = OccasionFor("gala")
	assert.False(t, ok)

	spec, ok = OccasionFor("  Formal ")
	assert.True(t, ok)
	assert.Equal(t, "Formal Elegance", spec.Name)
}

func TestWeatherCatalog(t *testing.T) {
	spec, ok := WeatherFor("rainy")
	assert.True(t, ok)
	assert.Equal(t, "Rainy", spec.Name)

	_, ok = WeatherFor("hailstorm")
	assert.False(t, ok)
}

func TestDisplayNameFallbacks(t *testing.T) {
	assert.Equal(t, "Casual Comfort", OccasionDisplayName("casual"))
	assert.Equal(t, "Beach Party", OccasionDisplayName("beach party"))
	assert.Equal(t, "Sunny", WeatherDisplayName("sunny"))
	assert.Equal(t, "Hailstorm", WeatherDisplayName("hailstorm"))
}

func TestOccasionKeywordMatchUsesFirstToken(t *testing.T) {
	// "dress shoes" matches any type containing "dress", not plain shoes
	assert.True(t, matchesOccasionKeyword("dress shoes", []string{"dress shoes"}))
	assert.True(t, matchesOccasionKeyword("Dress Boots", []string{"dress shoes"}))
	assert.False(t, matchesOccasionKeyword("shoes", []string{"dress shoes"}))
	assert.True(t, matchesOccasionKeyword("tshirt", []string{"shirt"}))
	assert.False(t, matchesOccasionKeyword("", []string{"shirt"}))
}

func TestWeatherKeywordMatchUsesWholeKeyword(t *testing.T) {
	assert.True(t, matchesWeatherKeyword("waterproof shoes", []string{"waterproof shoes"}))
	assert.False(t, matchesWeatherKeyword("shoes", []string{"waterproof shoes"}))
	assert.True(t, matchesWeatherKeyword("tshirt", []string{"shirt"}))
}
