package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/routemap/internal/core/usecases"
)

// CommandFeed delivers the map commands of one session to a websocket.
// It is backed by NATS or by the in-process hub.
type CommandFeed interface {
	SubscribeMapCommands(sessionID string, handler func(data []byte)) (func(), error)
}

// EventFeed delivers lookup events to the history websocket.
type EventFeed interface {
	SubscribeLookupEvents(handler func(subject string, data []byte)) (func(), error)
}

// Pinger is implemented by backing stores checked by /v1/ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Sessions *usecases.SessionRegistry
	Lookups  *usecases.LookupService
	Commands CommandFeed
	Events   EventFeed // nil without NATS
	NATS     *nats.Conn
	DB       Pinger
	Cache    Pinger
	Version  string
}
