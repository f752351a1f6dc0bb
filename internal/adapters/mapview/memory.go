package mapview

import (
	"context"
	"log/slog"
	"sync"

	"github.com/samirrijal/routemap/internal/core/domain"
)

// Memory is a Sink that keeps every command and the overlays currently on
// the map. It backs the CLI and tests.
type Memory struct {
	mu       sync.Mutex
	commands []domain.MapCommand
	live     map[domain.OverlayHandle]domain.MapCommand
}

// NewMemory creates an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{live: make(map[domain.OverlayHandle]domain.MapCommand)}
}

// Send records cmd and updates the live overlay set.
func (m *Memory) Send(_ context.Context, cmd domain.MapCommand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = append(m.commands, cmd)
	switch cmd.Op {
	case domain.OpPolyline, domain.OpMarker:
		m.live[cmd.Handle] = cmd
	case domain.OpRemove:
		delete(m.live, cmd.Handle)
	case domain.OpInitialize:
		clear(m.live)
	}
	return nil
}

// Commands returns a copy of every command received.
func (m *Memory) Commands() []domain.MapCommand {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.MapCommand, len(m.commands))
	copy(out, m.commands)
	return out
}

// Live returns the overlays currently drawn.
func (m *Memory) Live() []domain.MapCommand {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.MapCommand, 0, len(m.live))
	for _, c := range m.live {
		out = append(out, c)
	}
	return out
}

// Log returns a Sink that writes each command to logger at debug level.
func Log(logger *slog.Logger, sessionID string) Sink {
	return SinkFunc(func(ctx context.Context, cmd domain.MapCommand) error {
		logger.DebugContext(ctx, "map command",
			"session_id", sessionID,
			"op", cmd.Op,
			"handle", cmd.Handle,
			"points", len(cmd.Points),
		)
		return nil
	})
}

// Tee sends every command to all sinks, stopping at the first error.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(ctx context.Context, cmd domain.MapCommand) error {
		for _, s := range sinks {
			if err := s.Send(ctx, cmd); err != nil {
				return err
			}
		}
		return nil
	})
}
