package outfit

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedPopularity(v int) func() int {
	return func() int { return v }
}

func TestGenerateNeedsTwoItems(t *testing.T) {
	_, err := Generate([]Item{item("t1", "shirt", "white")}, Options{})
	assert.ErrorIs(t, err, ErrNotEnoughItems)

	_, err = Generate(nil, Options{})
	assert.ErrorIs(t, err, ErrNotEnoughItems)
}

func TestGenerateNeedsTopAndBottom(t *testing.T) {
	onlyTops := []Item{item("t1", "shirt", "white"), item("t2", "tshirt", "black")}
	_, err := Generate(onlyTops, Options{})
	assert.ErrorIs(t, err, ErrNeedTopAndBottom)

	onlyBottoms := []Item{item("b1", "jeans", "blue"), item("b2", "pants", "black")}
	_, err = Generate(onlyBottoms, Options{})
	assert.ErrorIs(t, err, ErrNeedTopAndBottom)
}

func TestGenerateUnclassifiedTypesAreIgnored(t *testing.T) {
	items := []Item{
		item("t1", "shirt", "white"),
		item("b1", "pants", "black"),
		item("x1", "hat", "red"),
		item("x2", "scarf", "green"),
	}
	candidates, err := Generate(items, Options{Popularity: fixedPopularity(0)})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "t1", candidates[0].Top.ID)
	assert.Equal(t, "b1", candidates[0].Bottom.ID)
	assert.Nil(t, candidates[0].Shoes)
}

func TestGenerateSingleCombination(t *testing.T) {
	items := []Item{
		item("t1", "shirt", "white"),
		item("b1", "pants", "black"),
	}
	candidates, err := Generate(items, Options{Occasion: "casual", Weather: "sunny", Popularity: fixedPopularity(42)})
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Nil(t, c.Shoes)
	assert.Equal(t, 70, c.Score)
	assert.Equal(t, "Casual Comfort 1", c.Name)
	assert.Equal(t, "casual", c.Occasion)
	assert.Equal(t, "sunny", c.Weather)
	assert.Equal(t, 42, c.Popularity)
}

func TestGenerateCrossProductSharesSingleShoe(t *testing.T) {
	items := []Item{
		item("t1", "shirt", "white"),
		item("t2", "tshirt", "black"),
		item("b1", "jeans", "blue"),
		item("b2", "pants", "black"),
		item("s1", "shoes", "white"),
	}
	candidates, err := Generate(items, Options{Occasion: "casual", Popularity: fixedPopularity(0)})
	require.NoError(t, err)
	require.Len(t, candidates, 4)
	for _, c := range candidates {
		require.NotNil(t, c.Shoes)
		assert.Equal(t, "s1", c.Shoes.ID)
	}
}

func TestGenerateSortedByScoreDescending(t *testing.T) {
	items := []Item{
		item("t1", "shirt", "pink"),
		item("t2", "shirt", "white"),
		item("b1", "jeans", "blue"),
		item("b2", "pants", "black"),
	}
	candidates, err := Generate(items, Options{Occasion: "casual", Weather: "cloudy", Popularity: fixedPopularity(0)})
	require.NoError(t, err)
	require.Len(t, candidates, 4)
	assert.True(t, sort.SliceIsSorted(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	}))
}

func TestGenerateStableOrderOnEqualScores(t *testing.T) {
	// identical colors and types everywhere, every pair scores the same
	items := []Item{
		item("t1", "shirt", "white"),
		item("t2", "shirt", "white"),
		item("b1", "pants", "black"),
		item("b2", "pants", "black"),
	}
	candidates, err := Generate(items, Options{Occasion: "casual", Popularity: fixedPopularity(0)})
	require.NoError(t, err)
	require.Len(t, candidates, 4)

	var order [][2]string
	for _, c := range candidates {
		order = append(order, [2]string{c.Top.ID, c.Bottom.ID})
	}
	assert.Equal(t, [][2]string{
		{"t1", "b1"}, {"t1", "b2"}, {"t2", "b1"}, {"t2", "b2"},
	}, order)
}

func TestGenerateBestShoeFirstWinsOnTie(t *testing.T) {
	items := []Item{
		item("t1", "shirt", "white"),
		item("b1", "pants", "black"),
		item("s1", "shoes", "white"),
		item("s2", "shoes", "white"),
	}
	candidates, err := Generate(items, Options{Occasion: "casual", Popularity: fixedPopularity(0)})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.NotNil(t, candidates[0].Shoes)
	assert.Equal(t, "s1", candidates[0].Shoes.ID)
}

func TestGenerateNamesFollowRank(t *testing.T) {
	items := []Item{
		item("t1", "shirt", "white"),
		item("b1", "pants", "black"),
		item("b2", "jeans", "blue"),
	}
	candidates, err := Generate(items, Options{Occasion: "formal", Popularity: fixedPopularity(0)})
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "Formal Elegance 1", candidates[0].Name)
	assert.Equal(t, "Formal Elegance 2", candidates[1].Name)
}

func TestGenerateUnknownOccasionFallsBackToCasual(t *testing.T) {
	items := []Item{
		item("t1", "shirt", "white"),
		item("b1", "pants", "black"),
	}
	candidates, err := Generate(items, Options{Occasion: "gala", Popularity: fixedPopularity(0)})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Casual Comfort 1", candidates[0].Name)
	assert.Equal(t, "gala", candidates[0].Occasion)
}

func TestGenerateDefaultsOccasionAndWeather(t *testing.T) {
	items := []Item{
		item("t1", "shirt", "white"),
		item("b1", "pants", "black"),
	}
	candidates, err := Generate(items, Options{Popularity: fixedPopularity(0)})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "casual", candidates[0].Occasion)
	assert.Equal(t, "sunny", candidates[0].Weather)
}

func TestGenerateDestinationCarriedThrough(t *testing.T) {
	items := []Item{
		item("t1", "shirt", "white"),
		item("b1", "pants", "black"),
	}
	candidates, err := Generate(items, Options{Destination: "Lisbon", Popularity: fixedPopularity(0)})
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", candidates[0].Destination)
}

func TestShoppingSuggestionsMissingShoes(t *testing.T) {
	suggestions := ShoppingSuggestions(item("t1", "tshirt", "red"), item("b1", "jeans", "blue"), nil)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "shoes", suggestions[0].Type)
	assert.Equal(t, "red", suggestions[0].Color)
}

func TestShoppingSuggestionsShoeColorFallsBack(t *testing.T) {
	suggestions := ShoppingSuggestions(item("t1", "blazer", ""), item("b1", "jeans", "blue"), nil)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "blue", suggestions[0].Color)

	suggestions = ShoppingSuggestions(item("t1", "blazer", ""), item("b1", "jeans", ""), nil)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "neutral", suggestions[0].Color)
}

func TestShoppingSuggestionsTshirtAccessories(t *testing.T) {
	shoes := item("s1", "shoes", "white")

	// "tshirt" also hits the shirt outerwear rule, like the app always did
	withJeans := ShoppingSuggestions(item("t1", "tshirt", "red"), item("b1", "jeans", "blue"), &shoes)
	require.Len(t, withJeans, 2)
	assert.Equal(t, "accessories", withJeans[0].Type)
	assert.Equal(t, "outerwear", withJeans[1].Type)

	withShorts := ShoppingSuggestions(item("t1", "tshirt", "red"), item("b1", "shorts", "blue"), &shoes)
	require.Len(t, withShorts, 1)
	assert.Equal(t, "outerwear", withShorts[0].Type)
}

func TestShoppingSuggestionsShirtOuterwear(t *testing.T) {
	shoes := item("s1", "shoes", "white")
	suggestions := ShoppingSuggestions(item("t1", "shirt", "white"), item("b1", "pants", "black"), &shoes)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "outerwear", suggestions[0].Type)
}

func TestSlotDescriptions(t *testing.T) {
	shoes := item("s1", "shoes", "white")
	d := slotDescriptions(item("t1", "shirt", "white"), item("b1", "pants", "black"), &shoes)
	assert.Equal(t, "This white shirt pairs with black.", d.Top)
	assert.Equal(t, "These black pants go well with the top.", d.Bottom)
	assert.Equal(t, "Complete the look with these white shoes.", d.Shoes)

	noShoes := slotDescriptions(Item{ID: "t1", Name: "Oxford", Type: "shirt"}, item("b1", "pants", "black"), nil)
	assert.Equal(t, "This Oxford shirt pairs with black.", noShoes.Top)
	assert.Empty(t, noShoes.Shoes)
}
