package engine

// ZodiacSign is a pure lookup result. Sign carries the unicode symbol;
// Trait is a short playful description shown next to it.
type ZodiacSign struct {
	Sign  string
	Trait string
}

// zodiacTable holds the twelve non-overlapping closed date ranges. Each
// entry is matched by (month, start day) / (month, end day) pairs; the
// ranges cross month boundaries, so each sign is expressed as two
// half-ranges like the capricorn Dec 22 - Jan 20 span.
var zodiacTable = []struct {
	m1, d1From int // first half: month and minimum day (day >= d1From)
	m2, d2To   int // second half: month and maximum day (day <= d2To)
	sign       ZodiacSign
}{
	{12, 22, 1, 20, ZodiacSign{"Capricorn ♑", "The neighborhood boss. Ambitious but stubborn."}},
	{1, 21, 2, 18, ZodiacSign{"Aquarius ♒", "Living in 3025. Weird but brilliant."}},
	{2, 19, 3, 20, ZodiacSign{"Pisces ♓", "Professional drama queen. Heart of gold."}},
	{3, 21, 4, 20, ZodiacSign{"Aries ♈", "First at everything. Zero patience."}},
	{4, 21, 5, 20, ZodiacSign{"Taurus ♉", "Loves eating and sleeping. Do not disturb."}},
	{5, 21, 6, 21, ZodiacSign{"Gemini ♊", "Two faces and both talk a lot."}},
	{6, 22, 7, 22, ZodiacSign{"Cancer ♋", "Cries at diaper commercials. Protective."}},
	{7, 23, 8, 23, ZodiacSign{"Leo ♌", "Star of the movie. Shines (and knows it)."}},
	{8, 24, 9, 23, ZodiacSign{"Virgo ♍", "Cleans what is already clean. Perfectionist."}},
	{9, 24, 10, 23, ZodiacSign{"Libra ♎", "Expert-level indecisive. Charming."}},
	{10, 24, 11, 22, ZodiacSign{"Scorpio ♏", "Intense. If they glare at you, run."}},
	{11, 23, 12, 21, ZodiacSign{"Sagittarius ♐", "Adventure and chaos. No filter."}},
}

// Zodiac maps a day/month pair to its sign. Input outside the calendar
// (day 0, month 13, ...) yields the empty sentinel rather than failing.
func Zodiac(day, month int) ZodiacSign {
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return ZodiacSign{}
	}
	for _, z := range zodiacTable {
		if (month == z.m1 && day >= z.d1From) || (month == z.m2 && day <= z.d2To) {
			return z.sign
		}
	}
	return ZodiacSign{}
}
