// Package events publishes user lifecycle notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects for user lifecycle events.
const (
	SubjectUserCreated = "users.created"
	SubjectUserUpdated = "users.updated"
	SubjectUserDeleted = "users.deleted"
)

// UserEvent is the payload published on the user subjects.
type UserEvent struct {
	Type     string    `json:"type"`
	Username string    `json:"username"`
	At       time.Time `json:"at"`
}

// NewUserEvent builds an event for subject stamped with the current time.
func NewUserEvent(subject, username string) UserEvent {
	return UserEvent{Type: subject, Username: username, At: time.Now().UTC()}
}

// Publisher sends a JSON-encoded payload on a subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
	Close()
}

// conn is the subset of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// NATSPublisher publishes events to a NATS server.
type NATSPublisher struct {
	nc conn
}

var _ Publisher = (*NATSPublisher)(nil)

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("moonflix"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSPublisher{nc: nc}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", subject, err)
	}
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	_ = p.nc.Drain()
}

// NopPublisher discards every event. It is used when no broker is configured.
type NopPublisher struct{}

var _ Publisher = NopPublisher{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

func (NopPublisher) Close() {}
