package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/autlan/recolecta/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext

	mu   sync.Mutex
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeRouteChanges delivers route changes published from now on. Each
// call creates its own ephemeral consumer, so every API instance sees every
// change.
func (s *Subscriber) SubscribeRouteChanges(ctx context.Context, handler func(ctx context.Context, change domain.RouteChange) error) error {
	sub, err := s.js.Subscribe(SubjectRoutesChanged, func(msg *nats.Msg) {
		var change domain.RouteChange
		if err := json.Unmarshal(msg.Data, &change); err != nil {
			slog.Warn("malformed route change", "error", err)
			return
		}
		if err := handler(ctx, change); err != nil {
			slog.Warn("route change handler failed", "route_id", change.RouteID, "error", err)
		}
	},
		nats.DeliverNew(),
		nats.AckNone(),
	)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = sub.Unsubscribe()
		s.mu.Lock()
		s.subs = slices.DeleteFunc(s.subs, func(x *nats.Subscription) bool { return x == sub })
		s.mu.Unlock()
	}()
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	s.mu.Lock()
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	s.subs = nil
	s.mu.Unlock()
	_ = s.conn.Drain()
}
