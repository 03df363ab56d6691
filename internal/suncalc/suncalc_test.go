package suncalc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvtMob/WeatherApp/internal/weatherapi"
)

func TestNewSunCalcDefaultsToUTC(t *testing.T) {
	sc := NewSunCalc(testLatitude, testLongitude, nil)
	require.NotNil(t, sc)
	assert.Equal(t, time.UTC, sc.Location())
	assert.InDelta(t, testLatitude, sc.observer.Latitude, 1e-9)
	assert.InDelta(t, testLongitude, sc.observer.Longitude, 1e-9)
}

func TestGetSunEventTimes(t *testing.T) {
	sc := newTestSunCalc()

	times, err := sc.GetSunEventTimes(midsummerDate())
	require.NoError(t, err)

	assert.True(t, times.CivilDawn.Before(times.Sunrise))
	assert.True(t, times.Sunrise.Before(times.Sunset))
	assert.True(t, times.Sunset.Before(times.CivilDusk))
	assert.Greater(t, times.DayLength(), 18*time.Hour, "Helsinki midsummer day")
}

func TestGetSunEventTimesInObserverZone(t *testing.T) {
	loc := helsinki(t)
	sc := NewSunCalc(testLatitude, testLongitude, loc)

	times, err := sc.GetSunEventTimes(midsummerDate())
	require.NoError(t, err)

	assert.Equal(t, loc, times.Sunrise.Location())
	// Sunrise in Helsinki at midsummer is just before 4 am local time.
	assert.Equal(t, 3, times.Sunrise.Hour())
	assert.Equal(t, 22, times.Sunset.Hour())
}

func TestGetSunEventTimesCachesPerDay(t *testing.T) {
	sc := newTestSunCalc()
	date := midsummerDate()

	times1, err := sc.GetSunEventTimes(date)
	require.NoError(t, err)
	times2, err := sc.GetSunEventTimes(date.Add(3 * time.Hour))
	require.NoError(t, err)

	assert.True(t, times1.Sunrise.Equal(times2.Sunrise))

	sc.lock.RLock()
	entry, exists := sc.cache["2024-06-21"]
	n := len(sc.cache)
	sc.lock.RUnlock()

	require.True(t, exists)
	assert.Equal(t, 1, n)
	assert.True(t, entry.times.Sunset.Equal(times1.Sunset))
}

func TestSunriseAndSunsetAccessors(t *testing.T) {
	sc := newTestSunCalc()

	sunrise, err := sc.GetSunriseTime(midsummerDate())
	require.NoError(t, err)
	sunset, err := sc.GetSunsetTime(midsummerDate())
	require.NoError(t, err)

	assert.False(t, sunrise.IsZero())
	assert.True(t, sunset.After(sunrise))
}

func TestIsDaylight(t *testing.T) {
	sc := newTestSunCalc()

	day, err := sc.IsDaylight(midsummerDate())
	require.NoError(t, err)
	assert.True(t, day)

	night, err := sc.IsDaylight(time.Date(2024, 6, 21, 0, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, night)
}

func TestForLocation(t *testing.T) {
	loc := helsinki(t)

	sc := ForLocation(weatherapi.Location{Name: "Helsinki", Lat: testLatitude, Lon: testLongitude, TzID: "Europe/Helsinki"})
	assert.Equal(t, loc.String(), sc.Location().String())

	fallback := ForLocation(weatherapi.Location{Lat: 1, Lon: 2, TzID: "Mars/Olympus_Mons"})
	assert.Equal(t, time.UTC, fallback.Location())
}
