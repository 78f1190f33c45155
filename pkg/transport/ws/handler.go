// Package ws is the session-control transport of §6: one websocket
// connection per viewer, one scheduler.Session per connection. Grounded
// on the teacher's livedata_server.go subscribe/cancel lifecycle, with
// the read/write pump split and write-deadline discipline learned from
// the retrieval pack's other websocket users rather than from the
// teacher (which speaks WAMP over its own transport, not raw
// gorilla/websocket).
package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayyushutup/boxbox/log"
	"github.com/ayyushutup/boxbox/pkg/scheduler"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type Handler struct {
	registry *scheduler.Registry
	upgrader websocket.Upgrader
}

func NewHandler(registry *scheduler.Registry) *Handler {
	return &Handler{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection, creates a fresh session for it, and
// runs until the viewer disconnects — one interactive peer per session
// (§4.2), never shared across connections.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", log.ErrorField(err))
		return
	}

	session, err := h.registry.Create()
	if err != nil {
		log.Error("failed to create session", log.ErrorField(err))
		_ = conn.Close()
		return
	}

	ch := session.Subscribe()
	done := make(chan struct{})
	go h.writePump(conn, ch, done)

	h.readPump(conn, session)

	close(done)
	session.CancelSubscription(ch)
	h.registry.Remove(session.ID())
}

// readPump decodes one Command per inbound frame and submits it to the
// session, returning only on disconnect (§4.2's cancellation contract —
// transport failure tears the session down, it is never surfaced to the
// viewer as an error, per §7).
func (h *Handler) readPump(conn *websocket.Conn, session *scheduler.Session) {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd scheduler.Command
		if err := json.Unmarshal(payload, &cmd); err != nil {
			log.Debug("discarding malformed command", log.ErrorField(err))
			continue
		}

		if err := session.Submit(&cmd); err != nil {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if werr := conn.WriteJSON(errorMessage{Type: "error", Error: err.Error()}); werr != nil {
				return
			}
		}
	}
}

// writePump relays the session's coalescing snapshot stream to the
// connection and keeps it alive with periodic pings.
func (h *Handler) writePump(conn *websocket.Conn, ch <-chan scheduler.Snapshot, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer conn.Close()

	for {
		select {
		case <-done:
			return
		case snap, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
