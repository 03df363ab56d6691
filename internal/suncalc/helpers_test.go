package suncalc

import (
	"testing"
	"time"
)

// Helsinki coordinates for testing
const (
	testLatitude  = 60.1699
	testLongitude = 24.9384
)

func helsinki(t testing.TB) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Helsinki")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	return loc
}

// newTestSunCalc creates a SunCalc for Helsinki in UTC.
func newTestSunCalc() *SunCalc {
	return NewSunCalc(testLatitude, testLongitude, time.UTC)
}

// midsummerDate returns June 21, 2024 noon UTC, a date with predictable sun events.
func midsummerDate() time.Time {
	return time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)
}
