package weatherapi

import "strings"

// Snapshot is the decoded forecast.json / history.json payload.
// A new snapshot replaces the previous one wholesale.
type Snapshot struct {
	Location Location  `json:"location"`
	Current  Current   `json:"current"`
	Forecast *Forecast `json:"forecast,omitempty"`
	Alerts   *Alerts   `json:"alerts,omitempty"`
}

// Location describes the place a snapshot was resolved to.
type Location struct {
	Name           string  `json:"name"`
	Region         string  `json:"region"`
	Country        string  `json:"country"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	TzID           string  `json:"tz_id"`
	LocaltimeEpoch int64   `json:"localtime_epoch"`
	Localtime      string  `json:"localtime"`
}

// Current holds the present conditions.
type Current struct {
	LastUpdated string      `json:"last_updated,omitempty"`
	TempC       float64     `json:"temp_c"`
	FeelsLikeC  float64     `json:"feelslike_c"`
	IsDay       int         `json:"is_day"`
	Condition   Condition   `json:"condition"`
	WindKph     float64     `json:"wind_kph"`
	WindDir     string      `json:"wind_dir,omitempty"`
	PressureMb  float64     `json:"pressure_mb"`
	PrecipMm    float64     `json:"precip_mm"`
	Humidity    int         `json:"humidity"`
	Cloud       int         `json:"cloud"`
	UV          float64     `json:"uv"`
	AirQuality  *AirQuality `json:"air_quality,omitempty"`
}

// Condition is a short weather description with an icon reference.
type Condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

// IconURL returns the icon as an absolute https URL. The provider sends
// protocol-relative references such as "//cdn.weatherapi.com/...".
func (c Condition) IconURL() string {
	switch {
	case c.Icon == "":
		return ""
	case strings.HasPrefix(c.Icon, "//"):
		return "https:" + c.Icon
	default:
		return c.Icon
	}
}

// AirQuality holds pollutant concentrations. Every field is optional; a nil
// field means the provider did not report it, which is not the same as zero.
type AirQuality struct {
	CO         *float64 `json:"co,omitempty"`
	NO2        *float64 `json:"no2,omitempty"`
	O3         *float64 `json:"o3,omitempty"`
	SO2        *float64 `json:"so2,omitempty"`
	PM25       *float64 `json:"pm2_5,omitempty"`
	PM10       *float64 `json:"pm10,omitempty"`
	USEPAIndex *int     `json:"us-epa-index,omitempty"`
}

// Empty reports whether no pollutant was reported at all.
func (aq *AirQuality) Empty() bool {
	return aq == nil || (aq.CO == nil && aq.NO2 == nil && aq.O3 == nil && aq.SO2 == nil &&
		aq.PM25 == nil && aq.PM10 == nil && aq.USEPAIndex == nil)
}

// Forecast is the ordered list of forecast days.
type Forecast struct {
	ForecastDay []ForecastDay `json:"forecastday"`
}

// ForecastDay is one calendar day of forecast.
type ForecastDay struct {
	Date string `json:"date"`
	Day  Day    `json:"day"`
	Hour []Hour `json:"hour"`
}

// Day aggregates a forecast day.
type Day struct {
	MaxTempC          float64   `json:"maxtemp_c"`
	MinTempC          float64   `json:"mintemp_c"`
	AvgTempC          float64   `json:"avgtemp_c"`
	MaxWindKph        float64   `json:"maxwind_kph"`
	TotalPrecipMm     float64   `json:"totalprecip_mm"`
	AvgHumidity       float64   `json:"avghumidity"`
	DailyChanceOfRain int       `json:"daily_chance_of_rain"`
	Condition         Condition `json:"condition"`
	UV                float64   `json:"uv"`
}

// Hour is one hourly forecast entry.
type Hour struct {
	TimeEpoch    int64     `json:"time_epoch"`
	Time         string    `json:"time"`
	TempC        float64   `json:"temp_c"`
	IsDay        int       `json:"is_day"`
	Condition    Condition `json:"condition"`
	WindKph      float64   `json:"wind_kph"`
	Humidity     int       `json:"humidity"`
	ChanceOfRain int       `json:"chance_of_rain"`
}

// Alerts wraps the provider's alert list.
type Alerts struct {
	Alert []AlertDetail `json:"alert"`
}

// AlertDetail is a government weather alert, passed through as raw strings.
type AlertDetail struct {
	Headline    string `json:"headline"`
	MsgType     string `json:"msgtype"`
	Severity    string `json:"severity"`
	Urgency     string `json:"urgency"`
	Areas       string `json:"areas"`
	Category    string `json:"category"`
	Certainty   string `json:"certainty"`
	Event       string `json:"event"`
	Note        string `json:"note"`
	Effective   string `json:"effective"`
	Expires     string `json:"expires"`
	Desc        string `json:"desc"`
	Instruction string `json:"instruction"`
}

// SearchSuggestion is one entry of search.json.
type SearchSuggestion struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	URL     string  `json:"url"`
}

// IPInfo is the ip.json payload.
type IPInfo struct {
	IP          string  `json:"ip"`
	Type        string  `json:"type"`
	City        string  `json:"city"`
	Region      string  `json:"region"`
	CountryName string  `json:"country_name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	TzID        string  `json:"tz_id"`
}
