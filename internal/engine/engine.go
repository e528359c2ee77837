// Package engine contains the pure date and recurrence arithmetic:
// next-occurrence projection, day counting, age decomposition and the
// zodiac lookup. Every function takes "now" explicitly so callers can
// inject a Clock and tests stay deterministic.
package engine

import (
	"math"
	"sort"
	"time"

	"github.com/tartampluch/go-wishly/internal/model"
)

// NextOccurrence returns the next calendar date, at midnight in now's
// location, on which a yearly event with the given day/month falls.
// If the date has already passed this year it rolls over to next year.
//
// Go's time.Date normalizes Feb 29 to March 1st in non-leap years, so a
// leapling's occurrence lands on March 1st when the target year has no
// Feb 29. This matches the established behavior and is covered by tests.
func NextOccurrence(now time.Time, day, month int) time.Time {
	loc := now.Location()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	candidate := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, loc)
	if candidate.Before(todayStart) {
		candidate = time.Date(now.Year()+1, time.Month(month), day, 0, 0, 0, 0, loc)
	}
	return candidate
}

// NextFireTime returns the next moment a reminder for day/month should
// fire, at the given local hour. Unlike NextOccurrence the comparison is
// against the full current time: if today's fire hour is already past,
// the reminder rolls over to next year.
func NextFireTime(now time.Time, day, month, hour int) time.Time {
	loc := now.Location()
	candidate := time.Date(now.Year(), time.Month(month), day, hour, 0, 0, 0, loc)
	if candidate.Before(now) {
		candidate = time.Date(now.Year()+1, time.Month(month), day, hour, 0, 0, 0, loc)
	}
	return candidate
}

// DaysUntil returns the number of whole days from today until the next
// occurrence of day/month. Both ends are truncated to midnight, so the
// event's own day yields 0. The result is always in [0, 366].
func DaysUntil(now time.Time, day, month int) int {
	loc := now.Location()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	next := NextOccurrence(now, day, month)

	// Round absorbs the odd hour introduced by a DST transition between
	// the two midnights.
	return int(math.Round(next.Sub(todayStart).Hours() / 24))
}

// Age is elapsed time since birth decomposed into mixed-radix units:
// each field is what remains after subtracting whole units of the next
// larger one. This measures age-so-far, not days-remaining.
type Age struct {
	Years   int
	Months  int
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// AgeBreakdown decomposes the time elapsed since midnight on the birth
// date. Negative intermediate values borrow from the next larger unit;
// days borrow the length of the month preceding "now".
func AgeBreakdown(now time.Time, day, month, year int) Age {
	loc := now.Location()
	birth := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)

	years := now.Year() - birth.Year()
	months := int(now.Month()) - int(birth.Month())
	days := now.Day() - birth.Day()
	hours := now.Hour()
	minutes := now.Minute()
	seconds := now.Second()

	if seconds < 0 {
		seconds += 60
		minutes--
	}
	if minutes < 0 {
		minutes += 60
		hours--
	}
	if hours < 0 {
		hours += 24
		days--
	}
	if days < 0 {
		// Day zero of the current month is the last day of the previous one.
		prevMonthDays := time.Date(now.Year(), now.Month(), 0, 0, 0, 0, 0, loc).Day()
		days += prevMonthDays
		months--
	}
	if months < 0 {
		months += 12
		years--
	}

	return Age{Years: years, Months: months, Days: days, Hours: hours, Minutes: minutes, Seconds: seconds}
}

// SortByUpcoming returns a copy of records sorted ascending by days until
// the next occurrence. The sort is stable, so records with the same
// distance keep their input order.
func SortByUpcoming(now time.Time, records []model.Birthday) []model.Birthday {
	out := make([]model.Birthday, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return DaysUntil(now, out[i].Day, out[i].Month) < DaysUntil(now, out[j].Day, out[j].Month)
	})
	return out
}
