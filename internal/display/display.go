// Package display renders weather snapshots as plain text, one section per
// tab: current conditions, forecast, air quality and alerts.
package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/k3a/html2text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AvtMob/WeatherApp/internal/suncalc"
	"github.com/AvtMob/WeatherApp/internal/weatherapi"
)

// Empty-state texts.
const (
	NoData       = "No data available"
	NoForecast   = "No forecast data"
	NoAirQuality = "No air quality data"
	NoAlerts     = "No alerts"

	// MissingValue stands in for a pollutant the provider did not report.
	MissingValue = "no data"
)

// maxAlertLines caps the description shown per alert.
const maxAlertLines = 5

// Tab selects one section of a snapshot.
type Tab int

const (
	TabCurrent Tab = iota
	TabForecast
	TabAirQuality
	TabAlerts
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabCurrent, TabForecast, TabAirQuality, TabAlerts}

func (t Tab) String() string {
	switch t {
	case TabCurrent:
		return "Current"
	case TabForecast:
		return "Forecast"
	case TabAirQuality:
		return "Air Quality"
	case TabAlerts:
		return "Alerts"
	default:
		return "Tab(" + strconv.Itoa(int(t)) + ")"
	}
}

// ParseTab maps a case-insensitive tab name such as "air-quality" to a Tab.
func ParseTab(name string) (Tab, error) {
	switch strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(name)) {
	case "current", "":
		return TabCurrent, nil
	case "forecast":
		return TabForecast, nil
	case "airquality", "aqi":
		return TabAirQuality, nil
	case "alerts":
		return TabAlerts, nil
	default:
		return TabCurrent, fmt.Errorf("unknown tab %q", name)
	}
}

var titleCaser = cases.Title(language.English)

// Render returns the text for one tab. snap may be nil.
func Render(snap *weatherapi.Snapshot, tab Tab) string {
	switch tab {
	case TabForecast:
		return Forecast(snap)
	case TabAirQuality:
		return AirQuality(snap)
	case TabAlerts:
		return Alerts(snap)
	default:
		return Current(snap)
	}
}

// WriteAll writes every tab under a heading.
func WriteAll(w io.Writer, snap *weatherapi.Snapshot) error {
	for i, tab := range Tabs {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "== %s ==\n%s\n", tab, Render(snap, tab)); err != nil {
			return err
		}
	}
	return nil
}

// Current renders location and present conditions, with sun times when
// they can be computed for the location's day.
func Current(snap *weatherapi.Snapshot) string {
	if snap == nil {
		return NoData
	}
	c := snap.Current
	l := snap.Location

	var b strings.Builder
	fmt.Fprintf(&b, "%s, %s\n", l.Name, l.Country)
	if icon := c.Condition.IconURL(); icon != "" {
		fmt.Fprintf(&b, "Icon: %s\n", icon)
	}
	fmt.Fprintf(&b, "%s°C - %s\n", formatFloat(c.TempC), c.Condition.Text)
	fmt.Fprintf(&b, "Feels like: %s°C\n", formatFloat(c.FeelsLikeC))
	fmt.Fprintf(&b, "Wind: %s kph", formatFloat(c.WindKph))
	if c.WindDir != "" {
		fmt.Fprintf(&b, " %s", c.WindDir)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Humidity: %d%%\n", c.Humidity)

	if sun, ok := sunTimes(l); ok {
		fmt.Fprintf(&b, "Sunrise: %s  Sunset: %s\n", sun.Sunrise.Format("15:04"), sun.Sunset.Format("15:04"))
	}
	if l.Localtime != "" {
		fmt.Fprintf(&b, "Local time: %s\n", l.Localtime)
	}
	return strings.TrimRight(b.String(), "\n")
}

func sunTimes(l weatherapi.Location) (suncalc.SunEventTimes, bool) {
	if l.LocaltimeEpoch == 0 || (l.Lat == 0 && l.Lon == 0) {
		return suncalc.SunEventTimes{}, false
	}
	times, err := suncalc.ForLocation(l).GetSunEventTimes(time.Unix(l.LocaltimeEpoch, 0))
	if err != nil {
		// polar day or night
		return suncalc.SunEventTimes{}, false
	}
	return times, true
}

// Forecast renders one line per forecast day.
func Forecast(snap *weatherapi.Snapshot) string {
	if snap == nil || snap.Forecast == nil {
		return NoForecast
	}

	lines := make([]string, 0, len(snap.Forecast.ForecastDay))
	for i := range snap.Forecast.ForecastDay {
		d := &snap.Forecast.ForecastDay[i]
		line := fmt.Sprintf("%s  %s  Max: %s°C  Min: %s°C",
			d.Date, d.Day.Condition.Text, formatFloat(d.Day.MaxTempC), formatFloat(d.Day.MinTempC))
		if d.Day.DailyChanceOfRain > 0 {
			line += fmt.Sprintf("  Rain: %d%%", d.Day.DailyChanceOfRain)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return NoForecast
	}
	return strings.Join(lines, "\n")
}

// AirQuality renders every pollutant, using MissingValue for those the
// provider left out.
func AirQuality(snap *weatherapi.Snapshot) string {
	if snap == nil || snap.Current.AirQuality == nil {
		return NoAirQuality
	}
	aq := snap.Current.AirQuality

	rows := []struct {
		label string
		value *float64
	}{
		{"PM2.5", aq.PM25},
		{"PM10", aq.PM10},
		{"CO", aq.CO},
		{"NO2", aq.NO2},
		{"O3", aq.O3},
		{"SO2", aq.SO2},
	}

	var b strings.Builder
	b.WriteString("Air Quality Indexes\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s: %s\n", r.label, optionalFloat(r.value))
	}
	epa := MissingValue
	if aq.USEPAIndex != nil {
		epa = strconv.Itoa(*aq.USEPAIndex)
	}
	fmt.Fprintf(&b, "EPA Index: %s", epa)
	return b.String()
}

// Alerts renders each alert with its description converted to plain text.
func Alerts(snap *weatherapi.Snapshot) string {
	if snap == nil || snap.Alerts == nil || len(snap.Alerts.Alert) == 0 {
		return NoAlerts
	}

	blocks := make([]string, 0, len(snap.Alerts.Alert))
	for i := range snap.Alerts.Alert {
		a := &snap.Alerts.Alert[i]
		var b strings.Builder
		b.WriteString(a.Headline)
		if a.Event != "" {
			fmt.Fprintf(&b, "\n%s", a.Event)
		}
		if desc := AlertText(a.Desc); desc != "" {
			fmt.Fprintf(&b, "\n%s", desc)
		}
		if a.Severity != "" {
			fmt.Fprintf(&b, "\nSeverity: %s", titleCaser.String(a.Severity))
		}
		if a.Effective != "" || a.Expires != "" {
			fmt.Fprintf(&b, "\nValid: %s to %s", orMissing(a.Effective), orMissing(a.Expires))
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// AlertText strips markup from an alert description and keeps at most the
// first few non-blank lines.
func AlertText(desc string) string {
	if strings.TrimSpace(desc) == "" {
		return ""
	}
	text := html2text.HTML2Text(desc)

	var kept []string
	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		kept = append(kept, line)
		if len(kept) == maxAlertLines {
			break
		}
	}
	return strings.Join(kept, "\n")
}

// Suggestions renders search results, one per line, numbered from 1.
func Suggestions(results []weatherapi.SearchSuggestion) string {
	if len(results) == 0 {
		return "No matching locations"
	}
	var b strings.Builder
	for i, s := range results {
		fmt.Fprintf(&b, "%d. %s", i+1, s.Name)
		if s.Region != "" {
			fmt.Fprintf(&b, ", %s", s.Region)
		}
		if s.Country != "" {
			fmt.Fprintf(&b, ", %s", s.Country)
		}
		if i < len(results)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func optionalFloat(v *float64) string {
	if v == nil {
		return MissingValue
	}
	return formatFloat(*v)
}

func orMissing(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
