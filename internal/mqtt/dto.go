package mqtt

import (
	"time"

	"github.com/AvtMob/WeatherApp/internal/weatherapi"
)

// SnapshotDTO is the payload published for each loaded snapshot. Field
// names are part of the topic contract consumed by home automation.
type SnapshotDTO struct {
	Location  string  `json:"location"`
	Region    string  `json:"region,omitempty"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Timezone  string  `json:"tz_id,omitempty"`
	Localtime string  `json:"localtime,omitempty"`

	TempC      float64 `json:"temp_c"`
	FeelsLikeC float64 `json:"feelslike_c"`
	Condition  string  `json:"condition"`
	Icon       string  `json:"icon,omitempty"`
	WindKph    float64 `json:"wind_kph"`
	Humidity   int     `json:"humidity"`
	IsDay      bool    `json:"is_day"`

	// Pollutants the provider did not report are omitted, not zero.
	AirQuality *weatherapi.AirQuality `json:"air_quality,omitempty"`

	ForecastDays int    `json:"forecast_days"`
	AlertCount   int    `json:"alert_count"`
	Published    string `json:"published"`
}

// NewSnapshotDTO summarises snap. now stamps the Published field.
func NewSnapshotDTO(snap *weatherapi.Snapshot, now time.Time) SnapshotDTO {
	dto := SnapshotDTO{
		Location:   snap.Location.Name,
		Region:     snap.Location.Region,
		Country:    snap.Location.Country,
		Latitude:   snap.Location.Lat,
		Longitude:  snap.Location.Lon,
		Timezone:   snap.Location.TzID,
		Localtime:  snap.Location.Localtime,
		TempC:      snap.Current.TempC,
		FeelsLikeC: snap.Current.FeelsLikeC,
		Condition:  snap.Current.Condition.Text,
		Icon:       snap.Current.Condition.IconURL(),
		WindKph:    snap.Current.WindKph,
		Humidity:   snap.Current.Humidity,
		IsDay:      snap.Current.IsDay == 1,
		Published:  now.UTC().Format(time.RFC3339),
	}
	if !snap.Current.AirQuality.Empty() {
		dto.AirQuality = snap.Current.AirQuality
	}
	if snap.Forecast != nil {
		dto.ForecastDays = len(snap.Forecast.ForecastDay)
	}
	if snap.Alerts != nil {
		dto.AlertCount = len(snap.Alerts.Alert)
	}
	return dto
}
