package engine

import (
	"math"
	"math/rand"
	"time"

	"github.com/tartampluch/go-wishly/internal/model"
)

// DominantZodiac returns the most frequent zodiac sign in the collection
// and its count. An empty collection yields ("N/A", 0).
func DominantZodiac(records []model.Birthday) (string, int) {
	if len(records) == 0 {
		return "N/A", 0
	}

	counts := make(map[string]int)
	for _, b := range records {
		counts[Zodiac(b.Day, b.Month).Sign]++
	}

	var maxSign string
	var maxCount int
	for sign, count := range counts {
		if count > maxCount {
			maxCount = count
			maxSign = sign
		}
	}
	return maxSign, maxCount
}

// AverageAge returns the rounded mean age of all records with a known
// birth year, computed as currentYear - birthYear. Records without a
// year are excluded; no records with a year yields 0.
func AverageAge(now time.Time, records []model.Birthday) int {
	currentYear := now.Year()
	var total, n int
	for _, b := range records {
		if b.Year == nil {
			continue
		}
		total += currentYear - *b.Year
		n++
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(n)))
}

// giftLoot is the pool backing RandomGiftSuggestion.
var giftLoot = []string{
	"Amazon gift card",
	"Socks with their face on them",
	"Dinner out (a cheap one)",
	"Random Funko Pop",
	"A plant (they will kill it)",
	"Self-help book",
	"Overly complex board game",
	"Ugly personalized mug",
	"Online cooking class",
	"Netflix subscription",
	"Nothing (a hug)",
	"A painted rock",
	"Bottle of decent wine",
	"Bluetooth headphones",
	"Nerdy t-shirt",
}

// RandomGiftSuggestion picks a gift idea from a fixed pool.
func RandomGiftSuggestion() string {
	return giftLoot[rand.Intn(len(giftLoot))]
}
