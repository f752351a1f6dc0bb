package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/routemap/internal/pkg/metrics"
)

const wsPingInterval = 30 * time.Second

// wsConn serializes writes to a websocket shared by feed callbacks and the
// keep-alive ticker.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) write(messageType int, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteMessage(messageType, data)
}

func (w *wsConn) writeJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.write(websocket.TextMessage, data)
}

// keepAlive pings the client until done is closed or a write fails.
func (w *wsConn) keepAlive(done <-chan struct{}) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := w.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// drain reads until the client goes away. Clients send nothing meaningful.
func (w *wsConn) drain() {
	for {
		if _, _, err := w.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// MapSocketHandler relays the map commands of ?session=<id> to the browser.
// On connect the session's initial view and current route are replayed. The
// session stays attached until disconnect and is left to the idle sweeper
// afterwards, so a reconnect finds the route again.
func MapSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		ws := &wsConn{conn: c}
		session := c.Query("session")
		log := slog.Default().With("session_id", session, "remote", c.RemoteAddr().String())

		if !validSessionID(session) {
			_ = ws.writeJSON(map[string]string{"error": "invalid session id"})
			return
		}

		unsubscribe, err := deps.Commands.SubscribeMapCommands(session, func(data []byte) {
			_ = ws.write(websocket.TextMessage, data)
		})
		if err != nil {
			log.Error("ws subscribe failed", "error", err)
			_ = ws.writeJSON(map[string]string{"error": "subscribe failed"})
			return
		}
		defer unsubscribe()
		log.Info("map client connected")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		release, err := deps.Sessions.Attach(ctx, session)
		cancel()
		if err != nil {
			log.Warn("attach map session", "error", err)
			_ = ws.writeJSON(map[string]string{"error": "invalid session id"})
			return
		}
		defer release()

		done := make(chan struct{})
		go ws.keepAlive(done)
		ws.drain()
		close(done)

		log.Info("map client disconnected")
	}
}

// LookupEventsHandler relays routes.computed and routes.failed events.
func LookupEventsHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		ws := &wsConn{conn: c}
		unsubscribe, err := deps.Events.SubscribeLookupEvents(func(subject string, data []byte) {
			_ = ws.writeJSON(map[string]interface{}{
				"subject": subject,
				"lookup":  json.RawMessage(data),
			})
		})
		if err != nil {
			_ = ws.writeJSON(map[string]string{"error": "subscribe failed"})
			return
		}
		defer unsubscribe()

		done := make(chan struct{})
		go ws.keepAlive(done)
		ws.drain()
		close(done)
	}
}
