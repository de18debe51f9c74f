package utils

import (
	"time"
	_ "time/tzdata"
)

// VenueTimeZone is the trading venue's local time zone.
const VenueTimeZone = "America/New_York"

// ParseClock parses an "HH:MM" wall-clock string into hour and minute.
func ParseClock(s string) (int, int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}
