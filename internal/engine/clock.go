package engine

import "time"

// Clock abstracts time.Now() so the scheduler and sorting code can be
// tested against a fixed "today".
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}
