package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tartampluch/go-wishly/internal/model"
)

func TestDominantZodiac(t *testing.T) {
	sign, count := DominantZodiac(nil)
	assert.Equal(t, "N/A", sign, "empty collection has no dominant sign")
	assert.Equal(t, 0, count)

	records := []model.Birthday{
		{Day: 1, Month: 8},  // Leo
		{Day: 5, Month: 8},  // Leo
		{Day: 10, Month: 1}, // Capricorn
	}
	sign, count = DominantZodiac(records)
	assert.Equal(t, "Leo ♌", sign)
	assert.Equal(t, 2, count)
}

func TestAverageAge(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	y1990, y2000 := 1990, 2000

	records := []model.Birthday{
		{Day: 1, Month: 1, Year: &y1990}, // 35
		{Day: 1, Month: 1, Year: &y2000}, // 25
		{Day: 1, Month: 1},               // unknown year, excluded
	}

	assert.Equal(t, 30, AverageAge(now, records))
	assert.Equal(t, 0, AverageAge(now, nil), "no known years yields zero")
	assert.Equal(t, 0, AverageAge(now, []model.Birthday{{Day: 1, Month: 1}}))
}

func TestRandomGiftSuggestion(t *testing.T) {
	for i := 0; i < 20; i++ {
		assert.Contains(t, giftLoot, RandomGiftSuggestion())
	}
}
