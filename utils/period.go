package utils

import "time"

// Timezone offset bounds in minutes (UTC-12h to UTC+14h). The club operates
// in a single fixed-offset timezone; there is no DST handling.
const (
	MinTimezoneOffsetMinutes     = -720
	MaxTimezoneOffsetMinutes     = 840
	DefaultTimezoneOffsetMinutes = -240
)

// Clock computes local day and week boundaries from a fixed UTC offset.
// Usage rows are stored in UTC, so every window boundary is computed by
// shifting into the local frame, truncating there, and shifting back.
type Clock struct {
	offset time.Duration
}

// NewClock builds a Clock for the given offset in minutes, clamped to the
// supported range.
func NewClock(offsetMinutes int) Clock {
	if offsetMinutes < MinTimezoneOffsetMinutes {
		offsetMinutes = MinTimezoneOffsetMinutes
	}
	if offsetMinutes > MaxTimezoneOffsetMinutes {
		offsetMinutes = MaxTimezoneOffsetMinutes
	}
	return Clock{offset: time.Duration(offsetMinutes) * time.Minute}
}

// StartOfDay returns the UTC instant of local midnight for the day containing
// now. Window queries use it as an inclusive lower bound.
func (c Clock) StartOfDay(now time.Time) time.Time {
	local := now.UTC().Add(c.offset)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.Add(-c.offset)
}

// StartOfWeek returns the UTC instant of local midnight on the Monday of the
// week containing now.
func (c Clock) StartOfWeek(now time.Time) time.Time {
	local := now.UTC().Add(c.offset)
	daysSinceMonday := int(local.Weekday()) - 1
	if daysSinceMonday < 0 {
		daysSinceMonday = 6 // Sunday
	}
	monday := local.AddDate(0, 0, -daysSinceMonday)
	midnight := time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.Add(-c.offset)
}
