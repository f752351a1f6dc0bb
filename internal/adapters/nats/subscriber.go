package natsadapter

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

// Subscriber relays map commands and lookup events to in-process handlers.
// Both are live feeds; late subscribers only see new messages.
type Subscriber struct {
	conn *nats.Conn
}

// NewSubscriber creates a subscriber sharing an existing connection.
func NewSubscriber(conn *nats.Conn) *Subscriber {
	return &Subscriber{conn: conn}
}

// SubscribeMapCommands calls handler with the raw JSON of every command for
// sessionID until the returned func is called.
func (s *Subscriber) SubscribeMapCommands(sessionID string, handler func(data []byte)) (func(), error) {
	return s.subscribe(MapSubject(sessionID), func(msg *nats.Msg) { handler(msg.Data) })
}

// SubscribeLookupEvents calls handler for every routes.computed and
// routes.failed event.
func (s *Subscriber) SubscribeLookupEvents(handler func(subject string, data []byte)) (func(), error) {
	return s.subscribe("routes.>", func(msg *nats.Msg) { handler(msg.Subject, msg.Data) })
}

func (s *Subscriber) subscribe(subject string, cb nats.MsgHandler) (func(), error) {
	sub, err := s.conn.Subscribe(subject, cb)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}
	return func() { _ = sub.Unsubscribe() }, nil
}
