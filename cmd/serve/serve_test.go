package serve

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvtMob/WeatherApp/internal/logger"
	"github.com/AvtMob/WeatherApp/internal/viewstate"
	"github.com/AvtMob/WeatherApp/internal/weatherapi"
)

type recordingRepo struct {
	mu      sync.Mutex
	queries []string
}

func (r *recordingRepo) FetchForecast(_ context.Context, query string, _ int) (*weatherapi.Snapshot, error) {
	r.mu.Lock()
	r.queries = append(r.queries, query)
	r.mu.Unlock()
	return &weatherapi.Snapshot{Location: weatherapi.Location{Name: "Oslo", Lat: 59.91, Lon: 10.75}}, nil
}

func (r *recordingRepo) SearchLocations(context.Context, string) ([]weatherapi.SearchSuggestion, error) {
	return []weatherapi.SearchSuggestion{}, nil
}

func (r *recordingRepo) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

func TestReloadQuery(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "New York", reloadQuery(nil, "New York"))
	assert.Equal(t, "New York", reloadQuery(&weatherapi.Snapshot{}, "New York"))

	snap := &weatherapi.Snapshot{Location: weatherapi.Location{Name: "Paris", Lat: 48.87, Lon: 2.33}}
	assert.Equal(t, "48.87,2.33", reloadQuery(snap, "New York"))

	snap.Location.Lat, snap.Location.Lon = -33.87, -151.21
	assert.Equal(t, "-33.87,-151.21", reloadQuery(snap, "New York"))

	snap.Location.Lat = 123
	assert.Equal(t, "New York", reloadQuery(snap, "New York"))
}

func TestRefreshLoopReloadsLoadedLocation(t *testing.T) {
	t.Parallel()

	repo := &recordingRepo{}
	ctrl := viewstate.New(repo, viewstate.WithLogger(logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)))
	t.Cleanup(ctrl.Close)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		refreshLoop(ctx, ctrl, "Oslo", 3, 10*time.Millisecond)
	}()

	require.Eventually(t, func() bool { return len(repo.calls()) >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done
	ctrl.Wait()

	calls := repo.calls()
	assert.Equal(t, "Oslo", calls[0])
	assert.Equal(t, "59.91,10.75", calls[len(calls)-1])
}

func TestRefreshLoopDisabled(t *testing.T) {
	t.Parallel()

	repo := &recordingRepo{}
	ctrl := viewstate.New(repo, viewstate.WithLogger(logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)))
	t.Cleanup(ctrl.Close)

	refreshLoop(context.Background(), ctrl, "Oslo", 3, 0)
	ctrl.Wait()

	assert.Equal(t, []string{"Oslo"}, repo.calls())
}
