package mapview

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/samirrijal/routemap/internal/core/domain"
)

// Hub fans map commands out to in-process listeners, one set per session.
// It replaces the NATS relay when no broker is configured.
type Hub struct {
	mu        sync.RWMutex
	next      int
	listeners map[string]map[int]func([]byte)
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{listeners: make(map[string]map[int]func([]byte))}
}

// Sink returns a Sink publishing JSON commands to the listeners of sessionID.
func (h *Hub) Sink(sessionID string) Sink {
	return SinkFunc(func(_ context.Context, cmd domain.MapCommand) error {
		data, err := json.Marshal(cmd)
		if err != nil {
			return err
		}
		h.mu.RLock()
		defer h.mu.RUnlock()
		for _, fn := range h.listeners[sessionID] {
			fn(data)
		}
		return nil
	})
}

// SubscribeMapCommands registers fn for sessionID until the returned func
// is called.
func (h *Hub) SubscribeMapCommands(sessionID string, fn func(data []byte)) (func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	id := h.next
	if h.listeners[sessionID] == nil {
		h.listeners[sessionID] = make(map[int]func([]byte))
	}
	h.listeners[sessionID][id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners[sessionID], id)
		if len(h.listeners[sessionID]) == 0 {
			delete(h.listeners, sessionID)
		}
	}, nil
}
