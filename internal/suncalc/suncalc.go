// Package suncalc computes dawn, sunrise, sunset and dusk for the place a
// weather snapshot was resolved to, in that place's own time zone.
package suncalc

import (
	"fmt"
	"sync"
	"time"

	"github.com/sj14/astral/pkg/astral"

	"github.com/AvtMob/WeatherApp/internal/weatherapi"
)

const dateKeyLayout = "2006-01-02"

// SunEventTimes holds the sun events of one day in the observer's time zone.
type SunEventTimes struct {
	CivilDawn time.Time
	Sunrise   time.Time
	Sunset    time.Time
	CivilDusk time.Time
}

// DayLength is the time between sunrise and sunset.
func (s SunEventTimes) DayLength() time.Duration {
	return s.Sunset.Sub(s.Sunrise)
}

// cacheEntry holds the cached sun event times for a given date
type cacheEntry struct {
	times SunEventTimes
	date  time.Time
}

// SunCalc caches sun event times per calendar day for one observer.
type SunCalc struct {
	cache    map[string]cacheEntry
	lock     sync.RWMutex
	observer astral.Observer
	loc      *time.Location
}

// NewSunCalc creates a calculator for the given coordinates. A nil loc
// means UTC.
func NewSunCalc(latitude, longitude float64, loc *time.Location) *SunCalc {
	if loc == nil {
		loc = time.UTC
	}
	return &SunCalc{
		cache:    make(map[string]cacheEntry),
		observer: astral.Observer{Latitude: latitude, Longitude: longitude},
		loc:      loc,
	}
}

// ForLocation creates a calculator for a snapshot location. An unknown or
// empty tz_id falls back to UTC.
func ForLocation(l weatherapi.Location) *SunCalc {
	loc := time.UTC
	if l.TzID != "" {
		if tz, err := time.LoadLocation(l.TzID); err == nil {
			loc = tz
		}
	}
	return NewSunCalc(l.Lat, l.Lon, loc)
}

// Location returns the time zone results are expressed in.
func (sc *SunCalc) Location() *time.Location {
	return sc.loc
}

// GetSunEventTimes returns the sun events for the calendar day containing
// date, as seen in the observer's time zone.
func (sc *SunCalc) GetSunEventTimes(date time.Time) (SunEventTimes, error) {
	local := date.In(sc.loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	dateKey := day.Format(dateKeyLayout)

	sc.lock.RLock()
	entry, exists := sc.cache[dateKey]
	sc.lock.RUnlock()

	if exists && entry.date.Equal(day) {
		return entry.times, nil
	}

	times, err := sc.calculateSunEventTimes(day)
	if err != nil {
		return SunEventTimes{}, err
	}

	sc.lock.Lock()
	sc.cache[dateKey] = cacheEntry{times: times, date: day}
	sc.lock.Unlock()

	return times, nil
}

// calculateSunEventTimes fails near the poles when the sun does not cross
// the relevant elevation that day.
func (sc *SunCalc) calculateSunEventTimes(day time.Time) (SunEventTimes, error) {
	civilDawn, err := astral.Dawn(sc.observer, day, astral.DepressionCivil)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate civil dawn: %w", err)
	}

	sunrise, err := astral.Sunrise(sc.observer, day)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate sunrise: %w", err)
	}

	sunset, err := astral.Sunset(sc.observer, day)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate sunset: %w", err)
	}

	civilDusk, err := astral.Dusk(sc.observer, day, astral.DepressionCivil)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("failed to calculate civil dusk: %w", err)
	}

	return SunEventTimes{
		CivilDawn: civilDawn.In(sc.loc),
		Sunrise:   sunrise.In(sc.loc),
		Sunset:    sunset.In(sc.loc),
		CivilDusk: civilDusk.In(sc.loc),
	}, nil
}

// GetSunriseTime returns the sunrise time for a given date
func (sc *SunCalc) GetSunriseTime(date time.Time) (time.Time, error) {
	sunEventTimes, err := sc.GetSunEventTimes(date)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get sun event times: %w", err)
	}
	return sunEventTimes.Sunrise, nil
}

// GetSunsetTime returns the sunset time for a given date
func (sc *SunCalc) GetSunsetTime(date time.Time) (time.Time, error) {
	sunEventTimes, err := sc.GetSunEventTimes(date)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get sun event times: %w", err)
	}
	return sunEventTimes.Sunset, nil
}

// IsDaylight reports whether t falls between sunrise and sunset.
func (sc *SunCalc) IsDaylight(t time.Time) (bool, error) {
	times, err := sc.GetSunEventTimes(t)
	if err != nil {
		return false, err
	}
	return !t.Before(times.Sunrise) && t.Before(times.Sunset), nil
}
