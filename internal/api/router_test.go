package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"location-tracker-service/internal/adapters/listener"
	"location-tracker-service/internal/adapters/provider"
	"location-tracker-service/internal/domain"
	"location-tracker-service/internal/platform/obs"
	"location-tracker-service/internal/services"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	name string
}

func (s stubResolver) ResolveAreaName(context.Context, domain.Coordinates, string) (string, error) {
	return s.name, nil
}

type testEnv struct {
	router  http.Handler
	tracker *services.LocationTracker
	push    *provider.PushProvider
	hub     *listener.Hub
	metrics *obs.Metrics
	reg     *prometheus.Registry
}

func newTestEnv(t *testing.T, opts ...services.Option) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	m := obs.NewMetrics(reg)
	hub := listener.NewHub(logger)
	t.Cleanup(hub.Close)

	push := provider.NewPushProvider(provider.Config{AutoGrant: true}, logger)
	opts = append([]services.Option{
		services.WithLogger(logger),
		services.WithListener(listener.NewMulti(listener.NewMetrics(m), hub)),
	}, opts...)
	tracker, err := services.NewLocationTracker(push, stubResolver{name: "Williamsburg, Brooklyn"}, opts...)
	require.NoError(t, err)
	t.Cleanup(tracker.Wait)

	router := NewRouter(Deps{
		Tracker:  tracker,
		Fixes:    push,
		Watch:    hub,
		Gatherer: reg,
		Metrics:  m,
		Logger:   logger,
	})

	return &testEnv{router: router, tracker: tracker, push: push, hub: hub, metrics: m, reg: reg}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	rec = env.do(t, http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestLocationLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/v1/location", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/fixes", `{"Latitude": 59.3293, "Longitude": 18.0686, "accuracy": 5}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode(t, rec)["delivered"])

	rec = env.do(t, http.MethodGet, "/v1/location", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "59.3293|18.0686", body["text"])
	assert.Equal(t, map[string]any{"Latitude": 59.3293, "Longitude": 18.0686}, body["location"])

	rec = env.do(t, http.MethodPost, "/v1/fixes", `{"no_fix": true}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	c, ok := env.tracker.CurrentLocation()
	require.True(t, ok, "a missing fix keeps the last location")
	assert.True(t, c.Equal(domain.NewCoordinates(59.3293, 18.0686)))

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.FixesReceived))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.UpdateFailures))
}

func TestPushFixValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing longitude", body: `{"Latitude": 1}`},
		{name: "latitude out of range", body: `{"Latitude": 91, "Longitude": 0}`},
		{name: "negative accuracy", body: `{"Latitude": 1, "Longitude": 1, "accuracy": -1}`},
		{name: "malformed", body: `{"Latitude":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/v1/fixes", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode(t, rec)["error"])
		})
	}

	_, ok := env.tracker.CurrentLocation()
	assert.False(t, ok)
}

func TestAuthorizationAndPermissions(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/permissions/always", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, domain.AuthorizationAlways, env.push.Authorization())

	rec = env.do(t, http.MethodPost, "/v1/permissions/sometimes", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/authorization", `{"status": "denied"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "denied", decode(t, rec)["status"])
	assert.Equal(t, domain.AuthorizationDenied, env.push.Authorization())

	rec = env.do(t, http.MethodPost, "/v1/authorization", `{"status": "maybe"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["validation"])

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.AuthorizationChanges.WithLabelValues("denied")))
}

func TestStartTracking(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/tracking/start", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.tracker.Running())

	rec = env.do(t, http.MethodPost, "/v1/tracking/resume", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "running", decode(t, rec)["status"])
	assert.True(t, env.tracker.Running())
}

func TestPushFixRequiresAuthorization(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/authorization", `{"status": "denied"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/fixes", `{"Latitude": 1, "Longitude": 2}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	_, ok := env.tracker.CurrentLocation()
	assert.False(t, ok)

	rec = env.do(t, http.MethodPost, "/v1/permissions/when-in-use", "")
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/fixes", `{"Latitude": 1, "Longitude": 2}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	_, ok = env.tracker.CurrentLocation()
	assert.True(t, ok)
}

func TestDistance(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/v1/distance?to=0|1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, 0.0, body["meters"])
	assert.Equal(t, false, body["has_location"])

	env.do(t, http.MethodPost, "/v1/fixes", `{"Latitude": 0, "Longitude": 0}`)

	rec = env.do(t, http.MethodGet, "/v1/distance?to=0|1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, 111195.0, body["meters"])
	assert.Equal(t, true, body["has_location"])

	rec = env.do(t, http.MethodGet, "/v1/distance?to=nowhere", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, to := range []string{"NaN|0", "Inf|0", "0|-Inf"} {
		rec = env.do(t, http.MethodGet, "/v1/distance?to="+to, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, to)
		assert.Contains(t, decode(t, rec)["error"], "finite", to)
	}
}

func TestNearest(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/v1/fixes", `{"Latitude": 0, "Longitude": 0}`)

	rec := env.do(t, http.MethodPost, "/v1/nearest", `{"candidates": [
		{"Latitude": 10, "Longitude": 10},
		{"Latitude": "0.5", "Longitude": "0.5"},
		{"Latitude": -5, "Longitude": 3}
	]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, map[string]any{"Latitude": 0.5, "Longitude": 0.5}, body["nearest"])

	rec = env.do(t, http.MethodPost, "/v1/nearest", `{"candidates": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/nearest", `{"candidates": [{"Latitude": "NaN", "Longitude": "0"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "finite")

	rec = env.do(t, http.MethodPost, "/v1/nearest", `{"candidates": [{"Latitude": "x", "Longitude": 1}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveAreaRequiresKey(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/area", `{"coordinates": {"Latitude": 1, "Longitude": 2}}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPut, "/v1/geocode/key", `{"key": "secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["configured"])

	rec = env.do(t, http.MethodPost, "/v1/area", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/area", `{"coordinates": {"Latitude": 1, "Longitude": 2}}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	env.tracker.Wait()
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.AreaNamesResolved))

	rec = env.do(t, http.MethodPut, "/v1/geocode/key", `{"key": "  "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["configured"])
}

func TestWatchStreamsEvents(t *testing.T) {
	env := newTestEnv(t, services.WithGeocodeAPIKey("secret"))

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/v1/watch", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return env.hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	resp, err := http.Post(srv.URL+"/v1/area", "application/json",
		bytes.NewBufferString(`{"coordinates": {"Latitude": 40.714224, "Longitude": -73.961452}}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev listener.Event
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, listener.EventAreaNameResolved, ev.Type)
	assert.Equal(t, "Williamsburg, Brooklyn", ev.Payload)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/health", "")

	rec := env.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `loctrack_http_requests_total{method="GET",status="200"}`)
}
