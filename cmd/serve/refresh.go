package serve

import (
	"github.com/AvtMob/WeatherApp/internal/location"
	"github.com/AvtMob/WeatherApp/internal/weatherapi"
)

// reloadQuery picks the query for a periodic reload: the coordinates of the
// loaded snapshot, so a name that matched several places keeps resolving to
// the same one, or fallback when nothing usable is loaded.
func reloadQuery(snap *weatherapi.Snapshot, fallback string) string {
	if snap == nil || (snap.Location.Lat == 0 && snap.Location.Lon == 0) {
		return fallback
	}
	fix := location.Coordinates{Latitude: snap.Location.Lat, Longitude: snap.Location.Lon}
	if !fix.Valid() {
		return fallback
	}
	return fix.Query()
}
