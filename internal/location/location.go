// Package location provides the device's last known coordinates.
//
// A lookup never fails from the caller's point of view: any problem is
// logged and reported as "no location". The last good fix is cached and
// served when a fresh lookup fails.
package location

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/AvtMob/WeatherApp/internal/errors"
	"github.com/AvtMob/WeatherApp/internal/logger"
	"github.com/AvtMob/WeatherApp/internal/weatherapi"
)

// Source names accepted by New.
const (
	SourceStatic = "static"
	SourceIP     = "ip"
	SourceNone   = "none"
)

// DefaultCacheTTL is how long a fix stays usable as a fallback.
const DefaultCacheTTL = 30 * time.Minute

const lastFixKey = "last_fix"

// Coordinates is a WGS84 position in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether both components are finite and in range.
func (c Coordinates) Valid() bool {
	return !math.IsNaN(c.Latitude) && !math.IsNaN(c.Longitude) &&
		c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Query renders the coordinates as a "lat,lon" place query.
func (c Coordinates) Query() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// IPLookup resolves the caller's public address to a place.
type IPLookup interface {
	LookupIP(ctx context.Context) (*weatherapi.IPInfo, error)
}

// Config selects where fixes come from.
type Config struct {
	Source    string
	Latitude  float64
	Longitude float64
	CacheTTL  time.Duration
}

// Locator answers last-known-location requests.
type Locator struct {
	source string
	static Coordinates
	ip     IPLookup
	cache  *cache.Cache
	log    logger.Logger
}

// New creates a Locator. ip may be nil unless cfg.Source is SourceIP.
func New(cfg Config, ip IPLookup, log logger.Logger) (*Locator, error) {
	if log == nil {
		log = logger.Global().Module("location")
	} else {
		log = log.Module("location")
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	l := &Locator{
		source: cfg.Source,
		static: Coordinates{Latitude: cfg.Latitude, Longitude: cfg.Longitude},
		ip:     ip,
		cache:  cache.New(ttl, 0),
		log:    log,
	}

	switch cfg.Source {
	case SourceStatic:
		if !l.static.Valid() {
			return nil, errors.Newf("invalid static location %v,%v", cfg.Latitude, cfg.Longitude).
				Component("location").
				Category(errors.CategoryConfiguration).
				Build()
		}
	case SourceIP:
		if ip == nil {
			return nil, errors.Newf("ip location source requires a weather API repository").
				Component("location").
				Category(errors.CategoryConfiguration).
				Build()
		}
	case SourceNone, "":
		l.source = SourceNone
	default:
		return nil, errors.Newf("unknown location source %q", cfg.Source).
			Component("location").
			Category(errors.CategoryConfiguration).
			Context("source", cfg.Source).
			Build()
	}

	return l, nil
}

// Source returns the configured source name.
func (l *Locator) Source() string {
	return l.source
}

// LastKnownLocation returns the current fix, or ok=false when none is
// available.
func (l *Locator) LastKnownLocation(ctx context.Context) (Coordinates, bool) {
	switch l.source {
	case SourceStatic:
		return l.static, true
	case SourceIP:
		return l.fromIP(ctx)
	default:
		return Coordinates{}, false
	}
}

func (l *Locator) fromIP(ctx context.Context) (Coordinates, bool) {
	info, err := l.ip.LookupIP(ctx)
	if err == nil && info != nil {
		fix := Coordinates{Latitude: info.Lat, Longitude: info.Lon}
		if fix.Valid() {
			l.cache.SetDefault(lastFixKey, fix)
			l.log.Debug("location resolved from IP",
				logger.String("city", info.City),
				logger.String("country", info.CountryName),
				logger.Float64("latitude", fix.Latitude),
				logger.Float64("longitude", fix.Longitude))
			return fix, true
		}
		err = errors.Newf("ip lookup returned out-of-range coordinates").
			Component("location").
			Category(errors.CategoryLocation).
			Build()
	}

	if cached, expires, found := l.cache.GetWithExpiration(lastFixKey); found {
		l.log.Info("location lookup failed, using cached fix",
			logger.Error(err),
			logger.Time("fix_expires", expires))
		return cached.(Coordinates), true
	}

	l.log.Warn("location unavailable", logger.Error(err))
	return Coordinates{}, false
}
