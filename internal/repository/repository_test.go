package repository

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvtMob/WeatherApp/internal/errors"
	"github.com/AvtMob/WeatherApp/internal/logger"
	"github.com/AvtMob/WeatherApp/internal/weatherapi"
)

// fakeAPI records the last call of each kind.
type fakeAPI struct {
	key         string
	forecastReq weatherapi.ForecastRequest
	historyReq  weatherapi.HistoryRequest
	searchQuery string
	ipQuery     string
	err         error
}

func (f *fakeAPI) GetForecast(_ context.Context, apiKey string, req weatherapi.ForecastRequest) (*weatherapi.Snapshot, error) {
	f.key, f.forecastReq = apiKey, req
	if f.err != nil {
		return nil, f.err
	}
	return &weatherapi.Snapshot{Location: weatherapi.Location{Name: req.Query}}, nil
}

func (f *fakeAPI) GetHistory(_ context.Context, apiKey string, req weatherapi.HistoryRequest) (*weatherapi.Snapshot, error) {
	f.key, f.historyReq = apiKey, req
	if f.err != nil {
		return nil, f.err
	}
	return &weatherapi.Snapshot{Location: weatherapi.Location{Name: req.Query}}, nil
}

func (f *fakeAPI) SearchLocations(_ context.Context, apiKey, query string) ([]weatherapi.SearchSuggestion, error) {
	f.key, f.searchQuery = apiKey, query
	if f.err != nil {
		return nil, f.err
	}
	return []weatherapi.SearchSuggestion{{Name: "London"}}, nil
}

func (f *fakeAPI) LookupIP(_ context.Context, apiKey, query string) (*weatherapi.IPInfo, error) {
	f.key, f.ipQuery = apiKey, query
	if f.err != nil {
		return nil, f.err
	}
	return &weatherapi.IPInfo{City: "Lyon", Lat: 45.75, Lon: 4.85}, nil
}

func newTestRepo(t *testing.T, api API, opts ...Option) *Repository {
	t.Helper()
	opts = append(opts, WithLogger(logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)))
	r, err := New(api, "secret", opts...)
	require.NoError(t, err)
	return r
}

func TestNew_RequiresKeyAndClient(t *testing.T) {
	_, err := New(&fakeAPI{}, "")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))

	_, err = New(nil, "secret")
	require.Error(t, err)
}

func TestFetchForecast_BindsKeyAndFeatures(t *testing.T) {
	api := &fakeAPI{}
	r := newTestRepo(t, api)

	snap, err := r.FetchForecast(t.Context(), "Paris", 3)
	require.NoError(t, err)
	assert.Equal(t, "Paris", snap.Location.Name)
	assert.Equal(t, "secret", api.key)
	assert.Equal(t, weatherapi.ForecastRequest{Query: "Paris", Days: 3, AirQuality: true, Alerts: true}, api.forecastReq)
}

func TestFetchForecast_FeaturesDisabled(t *testing.T) {
	api := &fakeAPI{}
	r := newTestRepo(t, api, WithForecastFeatures(false, false))

	_, err := r.FetchForecast(t.Context(), "Paris", 1)
	require.NoError(t, err)
	assert.False(t, api.forecastReq.AirQuality)
	assert.False(t, api.forecastReq.Alerts)
}

func TestFetchHistory(t *testing.T) {
	api := &fakeAPI{}
	r := newTestRepo(t, api)

	_, err := r.FetchHistory(t.Context(), "Paris", "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", api.historyReq.Date)
	assert.Nil(t, api.historyReq.Hour)
	assert.True(t, api.historyReq.AirQuality)

	_, err = r.FetchHistoryHour(t.Context(), "Paris", "2024-06-01", 9)
	require.NoError(t, err)
	require.NotNil(t, api.historyReq.Hour)
	assert.Equal(t, 9, *api.historyReq.Hour)
}

func TestSearchAndLookup(t *testing.T) {
	api := &fakeAPI{}
	r := newTestRepo(t, api)

	got, err := r.SearchLocations(t.Context(), "Lo")
	require.NoError(t, err)
	assert.Equal(t, "Lo", api.searchQuery)
	assert.Len(t, got, 1)

	info, err := r.LookupIP(t.Context())
	require.NoError(t, err)
	assert.Equal(t, IPAutoQuery, api.ipQuery)
	assert.Equal(t, "Lyon", info.City)
}

func TestErrorsPassThrough(t *testing.T) {
	want := &weatherapi.RequestFailed{Endpoint: weatherapi.EndpointForecast, Kind: weatherapi.KindTransport, Message: "boom"}
	r := newTestRepo(t, &fakeAPI{err: want})

	_, err := r.FetchForecast(t.Context(), "Paris", 3)
	assert.Same(t, want, err)

	_, err = r.SearchLocations(t.Context(), "Pa")
	assert.Same(t, want, err)
}

func TestFetchForecast_LogsLocalTime(t *testing.T) {
	var buf bytes.Buffer
	r, err := New(&fakeAPI{}, "secret", WithLogger(logger.NewSlogLogger(&buf, logger.LogLevelDebug, time.UTC)))
	require.NoError(t, err)

	_, err = r.FetchForecast(t.Context(), "Paris", 3)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "forecast requested")
	assert.Contains(t, buf.String(), `"localtime_epoch":0`)
	assert.NotContains(t, buf.String(), "secret")
}
