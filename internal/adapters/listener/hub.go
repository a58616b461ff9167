package listener

import (
	"location-tracker-service/internal/domain"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Event types sent to websocket watchers.
const (
	EventLocationUpdated      = "location.updated"
	EventLocationUpdateFailed = "location.failed"
	EventAuthorizationChanged = "authorization.changed"
	EventAreaNameResolved     = "area.resolved"
)

type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Hub is a Listener that broadcasts every notification as a JSON Event to
// the connected websocket clients.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewHub accepts connections from allowedOrigins only. Requests without an
// Origin header are always accepted; an empty list accepts every origin.
func NewHub(logger *slog.Logger, allowedOrigins ...string) *Hub {
	if logger == nil {
		logger = slog.Default()
	}

	h := &Hub{
		logger:  logger.With("component", "hub"),
		clients: make(map[*websocket.Conn]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowedOrigins) == 0 {
				return true
			}
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			h.logger.Warn("websocket origin rejected", "origin", origin)
			return false
		},
	}
	return h
}

// ServeHTTP upgrades the request and keeps the connection registered until
// the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("watcher connected", "remote", r.RemoteAddr)

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()

	if ok {
		_ = conn.Close()
		h.logger.Debug("watcher disconnected")
	}
}

// Clients returns the number of connected watchers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every watcher.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait),
		)
		_ = conn.Close()
		delete(h.clients, conn)
	}
}

func (h *Hub) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal event", "type", ev.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			_ = conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *Hub) LocationUpdated(c domain.Coordinates) {
	h.Broadcast(Event{Type: EventLocationUpdated, Payload: c})
}

func (h *Hub) LocationUpdateFailed() {
	h.Broadcast(Event{Type: EventLocationUpdateFailed})
}

func (h *Hub) AuthorizationChanged(status domain.AuthorizationStatus) {
	h.Broadcast(Event{Type: EventAuthorizationChanged, Payload: status})
}

func (h *Hub) AreaNameResolved(name string) {
	h.Broadcast(Event{Type: EventAreaNameResolved, Payload: name})
}
