package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/routemap/internal/core/domain"
)

const (
	subjectComputed = "routes.computed"
	subjectFailed   = "routes.failed"
)

// MapSubject is the subject carrying map commands for one session.
func MapSubject(sessionID string) string {
	return "map." + sessionID + ".commands"
}

// LookupSubject returns the event subject for a finished lookup.
func LookupSubject(l *domain.Lookup) string {
	if l.State == "done" {
		return subjectComputed
	}
	return subjectFailed
}

// Publisher implements ports.EventPublisher using NATS JetStream and
// publishes map commands on core NATS.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Lookup events are kept for a day for downstream consumers.
	cfg := nats.StreamConfig{
		Name:      "ROUTE_LOOKUPS",
		Subjects:  []string{"routes.>"},
		Retention: nats.LimitsPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishLookup publishes a finished lookup on routes.computed or routes.failed.
func (p *Publisher) PublishLookup(ctx context.Context, l *domain.Lookup) error {
	data, err := json.Marshal(l)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(LookupSubject(l), data, nats.Context(ctx), nats.MsgId(l.ID))
	return err
}

// PublishMapCommand sends one command to the browsers watching sessionID.
// Commands are live state, so they go over core NATS without persistence.
func (p *Publisher) PublishMapCommand(_ context.Context, sessionID string, cmd domain.MapCommand) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	return p.conn.Publish(MapSubject(sessionID), data)
}

// Conn exposes the underlying connection for subscribers.
func (p *Publisher) Conn() *nats.Conn { return p.conn }

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection that keeps reconnecting.
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
