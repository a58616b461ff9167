package listener

import (
	"bytes"
	"location-tracker-service/internal/domain"
	"location-tracker-service/internal/platform/obs"
	"location-tracker-service/internal/ports"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiFansOutInOrder(t *testing.T) {
	var calls []string
	rec := func(tag string) ports.Listener {
		return ports.ListenerFuncs{
			OnLocationUpdated:      func(domain.Coordinates) { calls = append(calls, tag+":updated") },
			OnLocationUpdateFailed: func() { calls = append(calls, tag+":failed") },
			OnAuthorizationChanged: func(domain.AuthorizationStatus) { calls = append(calls, tag+":auth") },
			OnAreaNameResolved:     func(string) { calls = append(calls, tag+":area") },
		}
	}

	m := NewMulti(rec("a"), nil, rec("b"))
	require.Len(t, m, 2)

	m.LocationUpdated(domain.Empty)
	m.LocationUpdateFailed()
	m.AuthorizationChanged(domain.AuthorizationDenied)
	m.AreaNameResolved("x")

	assert.Equal(t, []string{
		"a:updated", "b:updated",
		"a:failed", "b:failed",
		"a:auth", "b:auth",
		"a:area", "b:area",
	}, calls)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogging(slog.New(slog.NewTextHandler(&buf, nil)))

	l.LocationUpdated(domain.NewCoordinates(1.5, -2))
	l.AuthorizationChanged(domain.AuthorizationAlways)
	l.AreaNameResolved("Soho, London")
	l.LocationUpdateFailed()

	out := buf.String()
	assert.Contains(t, out, "coordinates=1.5|-2")
	assert.Contains(t, out, "status=always")
	assert.Contains(t, out, `area="Soho, London"`)
	assert.Contains(t, out, "location update failed")
}

func TestMetrics(t *testing.T) {
	m := obs.NewMetrics(prometheus.NewRegistry())
	l := NewMetrics(m)

	l.LocationUpdated(domain.Empty)
	l.LocationUpdated(domain.Empty)
	l.LocationUpdateFailed()
	l.AuthorizationChanged(domain.AuthorizationWhenInUse)
	l.AreaNameResolved("x")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FixesReceived))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpdateFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthorizationChanges.WithLabelValues("when-in-use")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AreaNamesResolved))
}

func dialHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return h.Clients() == 1 }, time.Second, 5*time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev map[string]any
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func TestHubBroadcastsEvents(t *testing.T) {
	h := NewHub(nil)
	conn := dialHub(t, h)

	h.LocationUpdated(domain.NewCoordinates(59.3293, 18.0686))
	ev := readEvent(t, conn)
	assert.Equal(t, EventLocationUpdated, ev["type"])
	assert.Equal(t, map[string]any{"Latitude": 59.3293, "Longitude": 18.0686}, ev["payload"])

	h.AuthorizationChanged(domain.AuthorizationAlways)
	ev = readEvent(t, conn)
	assert.Equal(t, EventAuthorizationChanged, ev["type"])
	assert.Equal(t, "always", ev["payload"])

	h.AreaNameResolved("Williamsburg, Brooklyn")
	ev = readEvent(t, conn)
	assert.Equal(t, EventAreaNameResolved, ev["type"])
	assert.Equal(t, "Williamsburg, Brooklyn", ev["payload"])

	h.LocationUpdateFailed()
	ev = readEvent(t, conn)
	assert.Equal(t, EventLocationUpdateFailed, ev["type"])
	assert.NotContains(t, ev, "payload")
}

func TestHubDropsDisconnectedClients(t *testing.T) {
	h := NewHub(nil)
	conn := dialHub(t, h)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return h.Clients() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHubClose(t *testing.T) {
	h := NewHub(nil)
	conn := dialHub(t, h)

	h.Close()
	assert.Equal(t, 0, h.Clients())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestHubRejectsForeignOrigin(t *testing.T) {
	h := NewHub(nil, "http://localhost:8080")
	srv := httptest.NewServer(h)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := map[string][]string{"Origin": {"http://evil.test"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 403, resp.StatusCode)
	assert.Equal(t, 0, h.Clients())
}
