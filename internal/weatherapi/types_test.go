package weatherapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionIconURL(t *testing.T) {
	tests := []struct {
		icon string
		want string
	}{
		{"", ""},
		{"//cdn.weatherapi.com/weather/64x64/day/113.png", "https://cdn.weatherapi.com/weather/64x64/day/113.png"},
		{"https://example.com/icon.png", "https://example.com/icon.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Condition{Icon: tt.icon}.IconURL())
	}
}

func TestAirQualityEmpty(t *testing.T) {
	var nilAQ *AirQuality
	assert.True(t, nilAQ.Empty())
	assert.True(t, (&AirQuality{}).Empty())

	zero := 0.0
	assert.False(t, (&AirQuality{O3: &zero}).Empty(), "a reported zero is still a reading")
}

func TestSnapshotWithoutOptionalSections(t *testing.T) {
	var snap Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{"location":{"name":"Oslo"},"current":{"temp_c":-3.5}}`), &snap))

	assert.Equal(t, "Oslo", snap.Location.Name)
	assert.InDelta(t, -3.5, snap.Current.TempC, 0.001)
	assert.Nil(t, snap.Current.AirQuality)
	assert.Nil(t, snap.Forecast)
	assert.Nil(t, snap.Alerts)
}
