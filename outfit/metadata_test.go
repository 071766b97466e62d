package outfit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetadataPaletteDedupesInSlotOrder(t *testing.T) {
	shoes := item("s1", "shoes", "White")
	m := BuildMetadata(item("t1", "shirt", "White"), item("b1", "jeans", "blue"), &shoes, time.Now())
	assert.Equal(t, []string{"white", "blue"}, m.Palette)
}

func TestMetadataPaletteSkipsMissingSlots(t *testing.T) {
	m := BuildMetadata(item("t1", "shirt", ""), item("b1", "jeans", "blue"), nil, time.Now())
	assert.Equal(t, []string{"blue"}, m.Palette)
}

func TestMetadataSeasons(t *testing.T) {
	mk := func(month time.Month) string {
		at := time.Date(2026, month, 15, 12, 0, 0, 0, time.UTC)
		return BuildMetadata(item("t1", "shirt", "white"), item("b1", "pants", "black"), nil, at).Season
	}
	assert.Equal(t, "Winter", mk(time.January))
	assert.Equal(t, "Winter", mk(time.December))
	assert.Equal(t, "Spring", mk(time.April))
	assert.Equal(t, "Summer", mk(time.July))
	assert.Equal(t, "Autumn", mk(time.October))
}

func TestMetadataStyleTags(t *testing.T) {
	shoes := item("s1", "sneakers", "white")
	m := BuildMetadata(item("t1", "blazer", "navy"), item("b1", "jeans", "blue"), &shoes, time.Now())
	assert.Equal(t, []string{"formal", "casual", "street"}, m.StyleTags)
}

func TestMetadataLocalTime(t *testing.T) {
	at := time.Date(2026, time.August, 30, 9, 30, 0, 0, time.UTC)
	m := BuildMetadata(item("t1", "shirt", "white"), item("b1", "pants", "black"), nil, at)
	assert.Equal(t, "2026-08-30T09:30:00Z", m.LocalTime)
}
