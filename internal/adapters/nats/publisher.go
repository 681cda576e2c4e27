package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/autlan/recolecta/internal/core/domain"
)

// Subjects.
const (
	SubjectRoutesChanged = "recolecta.routes.changed"
	subjectContactPrefix = "recolecta.contact."
)

// ContactSubject is the subject a department's requests are delivered on.
func ContactSubject(department string) string {
	return subjectContactPrefix + department
}

// Publisher implements ports.EventPublisher using NATS JetStream.
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

	// Ensure streams exist
	streams := []nats.StreamConfig{
		{
			Name:      "RECOLECTA_ROUTES",
			Subjects:  []string{"recolecta.routes.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    1 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:       "RECOLECTA_CONTACT",
			Subjects:   []string{subjectContactPrefix + ">"},
			Retention:  nats.LimitsPolicy,
			MaxAge:     7 * 24 * time.Hour,
			Storage:    nats.FileStorage,
			Duplicates: 10 * time.Minute,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishRouteChanged announces a route write to every API instance.
func (p *Publisher) PublishRouteChanged(ctx context.Context, change domain.RouteChange) error {
	data, err := json.Marshal(change)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectRoutesChanged, data, nats.Context(ctx))
	return err
}

// PublishContactRequest delivers a request to its department's subject. The
// request id is the message id, so redeliveries within the duplicate window
// are stored once.
func (p *Publisher) PublishContactRequest(ctx context.Context, req *domain.ContactRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(ContactSubject(req.Department), data, nats.MsgId(req.ID), nats.Context(ctx))
	return err
}

// Conn exposes the underlying connection for health checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection that keeps reconnecting.
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("recolecta"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
