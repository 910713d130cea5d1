package server

import (
	"encoding/json"
	"net/http"

	"OnAirFM/core/live"
	"OnAirFM/logger"

	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// OnAirWebsocketHandler upgrades the connection and registers it with the
// live hub. Clients only receive; anything they send is discarded and the
// read loop exists just to detect disconnects.
func (h *APIHandler) OnAirWebsocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", logger.ErrorField(err))
		return
	}

	h.hub.Register(conn)

	go func() {
		defer h.hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// NowPlayingHandler broadcasts a track change to live listeners (admin/DJ).
func (h *APIHandler) NowPlayingHandler(w http.ResponseWriter, r *http.Request) {
	var payload json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.hub.Broadcast(live.EventNowPlaying, payload)
	writeJSON(w, http.StatusOK, map[string]int{"listeners": h.hub.ClientCount()})
}
