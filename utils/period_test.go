package utils

import (
	"testing"
	"time"
)

func TestStartOfDayNegativeOffset(t *testing.T) {
	clock := NewClock(-240) // UTC-4

	now := time.Date(2024, 3, 12, 15, 0, 0, 0, time.UTC)
	got := clock.StartOfDay(now)
	want := time.Date(2024, 3, 12, 4, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("StartOfDay = %v, want %v", got, want)
	}

	// One minute after local midnight is inside today's window, one minute
	// before is not.
	after := time.Date(2024, 3, 12, 4, 1, 0, 0, time.UTC)
	before := time.Date(2024, 3, 12, 3, 59, 0, 0, time.UTC)
	if after.Before(got) {
		t.Fatalf("%v should be inside the window starting %v", after, got)
	}
	if !before.Before(got) {
		t.Fatalf("%v should be outside the window starting %v", before, got)
	}
}

func TestStartOfDayCrossesUTCDateLine(t *testing.T) {
	clock := NewClock(-240)

	// 02:00 UTC is still the previous local day at UTC-4.
	now := time.Date(2024, 3, 12, 2, 0, 0, 0, time.UTC)
	got := clock.StartOfDay(now)
	want := time.Date(2024, 3, 11, 4, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("StartOfDay = %v, want %v", got, want)
	}
}

func TestStartOfDayPositiveOffset(t *testing.T) {
	clock := NewClock(840) // UTC+14

	now := time.Date(2024, 3, 12, 23, 0, 0, 0, time.UTC)
	// Local time is already 2024-03-13 13:00; local midnight is 10:00 UTC.
	got := clock.StartOfDay(now)
	want := time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("StartOfDay = %v, want %v", got, want)
	}
}

func TestStartOfWeekMondayStart(t *testing.T) {
	clock := NewClock(-240)

	// 2024-03-12 is a Tuesday both locally and in UTC at this hour.
	now := time.Date(2024, 3, 12, 15, 0, 0, 0, time.UTC)
	got := clock.StartOfWeek(now)
	want := time.Date(2024, 3, 11, 4, 0, 0, 0, time.UTC) // local Monday midnight
	if !got.Equal(want) {
		t.Fatalf("StartOfWeek = %v, want %v", got, want)
	}
}

func TestStartOfWeekOnSunday(t *testing.T) {
	clock := NewClock(-240)

	// Local Sunday rolls back six days to the previous Monday, never forward.
	now := time.Date(2024, 3, 17, 15, 0, 0, 0, time.UTC) // Sunday local and UTC
	got := clock.StartOfWeek(now)
	want := time.Date(2024, 3, 11, 4, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("StartOfWeek = %v, want %v", got, want)
	}
}

func TestStartOfWeekOnMondayIsSameDay(t *testing.T) {
	clock := NewClock(-240)

	now := time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC) // Monday
	got := clock.StartOfWeek(now)
	want := time.Date(2024, 3, 11, 4, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("StartOfWeek = %v, want %v", got, want)
	}
}

func TestNewClockClampsOffset(t *testing.T) {
	now := time.Date(2024, 3, 12, 12, 0, 0, 0, time.UTC)

	if got, want := NewClock(-100000).StartOfDay(now), NewClock(MinTimezoneOffsetMinutes).StartOfDay(now); !got.Equal(want) {
		t.Fatalf("low offset not clamped: %v != %v", got, want)
	}
	if got, want := NewClock(100000).StartOfDay(now), NewClock(MaxTimezoneOffsetMinutes).StartOfDay(now); !got.Equal(want) {
		t.Fatalf("high offset not clamped: %v != %v", got, want)
	}
}
