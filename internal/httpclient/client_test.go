package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, cfg *Config) *Client {
	t.Helper()
	client := New(cfg)
	t.Cleanup(client.Close)
	return client
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func closeResponseBody(t *testing.T, resp *http.Response) {
	t.Helper()
	if resp == nil || resp.Body == nil {
		return
	}
	if err := resp.Body.Close(); err != nil {
		t.Logf("failed to close response body: %v", err)
	}
}

func TestNew(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		client := newTestClient(t, nil)
		assert.Equal(t, DefaultTimeout, client.defaultTimeout)
		assert.Equal(t, DefaultUserAgent, client.userAgent)
	})

	t.Run("custom config", func(t *testing.T) {
		client := newTestClient(t, &Config{DefaultTimeout: 5 * time.Second, UserAgent: "WeatherApp-Test/1.0"})
		assert.Equal(t, 5*time.Second, client.defaultTimeout)
		assert.Equal(t, "WeatherApp-Test/1.0", client.userAgent)
	})
}

func TestGet_BodyReadableAfterReturn(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// No caller deadline, so the default timeout context wraps the body read too
	client := newTestClient(t, &Config{DefaultTimeout: time.Second})

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer closeResponseBody(t, resp)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestDo_DefaultTimeout(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusOK)
	})

	client := newTestClient(t, &Config{DefaultTimeout: 50 * time.Millisecond})

	resp, err := client.Get(t.Context(), server.URL)
	defer closeResponseBody(t, resp)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDo_CallerContextCancelled(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	client := newTestClient(t, nil)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	resp, err := client.Get(ctx, server.URL)
	defer closeResponseBody(t, resp)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_Hooks(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	client := newTestClient(t, nil)

	var beforeURL string
	var afterStatus int
	var afterElapsed time.Duration
	client.SetBeforeRequestHook(func(r *http.Request) { beforeURL = r.URL.String() })
	client.SetAfterResponseHook(func(r *http.Request, resp *http.Response, err error, elapsed time.Duration) {
		require.NoError(t, err)
		afterStatus = resp.StatusCode
		afterElapsed = elapsed
	})

	resp, err := client.Get(t.Context(), server.URL+"/v1/forecast.json")
	require.NoError(t, err)
	defer closeResponseBody(t, resp)

	assert.Equal(t, server.URL+"/v1/forecast.json", beforeURL)
	assert.Equal(t, http.StatusTeapot, afterStatus)
	assert.Positive(t, afterElapsed)
}

func TestDo_NilRequest(t *testing.T) {
	client := newTestClient(t, nil)
	_, err := client.Do(t.Context(), nil)
	require.Error(t, err)
}
