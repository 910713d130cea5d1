// Package live broadcasts on-air events to connected listeners over
// websockets. The hub is one-way: clients receive events, they do not send.
package live

import (
	"encoding/json"
	"sync"
	"time"

	"OnAirFM/logger"

	"github.com/gorilla/websocket"
)

// EventType names a broadcast event.
type EventType string

const (
	EventNowPlaying   EventType = "now_playing"   // the station switched tracks
	EventKaraokePlay  EventType = "karaoke_play"  // a karaoke file was played
	EventShowStarting EventType = "show_starting" // a scheduled show goes on air
)

// Event is the JSON payload pushed to every connected client.
type Event struct {
	Type      EventType       `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

const writeWait = 10 * time.Second

// Hub fans broadcast events out to all registered connections.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]bool

	broadcast  chan Event
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
}

// NewHub creates a hub. Run must be started in its own goroutine.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan Event, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

// Run processes register/unregister/broadcast until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()
			logger.Debug("live client connected", logger.Int("clients", h.ClientCount()))

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			payload, err := json.Marshal(event)
			if err != nil {
				logger.Error("failed to marshal live event", logger.ErrorField(err))
				continue
			}
			h.mu.Lock()
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					// Dead client; drop it.
					delete(h.clients, conn)
					conn.Close()
				}
			}
			h.mu.Unlock()
		}
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(conn *websocket.Conn) {
	h.register <- conn
}

// Unregister removes a connection from the hub.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.unregister <- conn
}

// Broadcast queues an event for delivery to every client. Never blocks the
// caller: when the queue is full the event is dropped.
func (h *Hub) Broadcast(eventType EventType, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		logger.Error("failed to marshal live event data", logger.ErrorField(err))
		return
	}

	event := Event{
		Type:      eventType,
		Data:      raw,
		Timestamp: time.Now().Unix(),
	}

	select {
	case h.broadcast <- event:
	default:
		logger.Warn("live broadcast queue full, dropping event", logger.String("type", string(eventType)))
	}
}

// ClientCount reports how many listeners are connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
