// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package interaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"

	"github.com/MORAX777/Movies-Recommendation-System/pkg/uuid"
)

// # Events

// EventKind names a change to the interaction relations.
type EventKind string

const (
	EventSeen    EventKind = "seen"
	EventUnseen  EventKind = "unseen"
	EventSaved   EventKind = "saved"
	EventUnsaved EventKind = "unsaved"
	EventRated   EventKind = "rated"
)

// Event is the payload published after every successful write.
type Event struct {
	ID         string    `json:"event_id"`
	Kind       EventKind `json:"kind"`
	UserID     int64     `json:"user_id"`
	ItemID     int64     `json:"item_id"`
	Rating     int       `json:"rating,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(kind EventKind, userID, itemID int64) Event {
	return Event{
		ID:         uuid.New(),
		Kind:       kind,
		UserID:     userID,
		ItemID:     itemID,
		OccurredAt: time.Now().UTC(),
	}
}

// EventPublisher delivers interaction events to downstream consumers.
type EventPublisher interface {
	Publish(context context.Context, event Event) error
}

// # NATS Publisher

// NATSPublisher publishes events on "<prefix>.<kind>" subjects.
//
// A nil connection turns it into a no-op, so the service runs unchanged
// when NATS_URL is not configured.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
	logger *slog.Logger
}

// NewNATSPublisher creates a publisher; conn may be nil.
func NewNATSPublisher(conn *nats.Conn, prefix string, logger *slog.Logger) *NATSPublisher {
	if conn == nil {
		logger.Warn("nats_not_configured", slog.String("effect", "interaction events will not be published"))
	}
	return &NATSPublisher{conn: conn, prefix: prefix, logger: logger}
}

// Subject returns the subject an event of the given kind is published on.
func (publisher *NATSPublisher) Subject(kind EventKind) string {
	return publisher.prefix + "." + string(kind)
}

// Publish implements [EventPublisher].
func (publisher *NATSPublisher) Publish(_ context.Context, event Event) error {
	if publisher == nil || publisher.conn == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal_event_failed: %w", err)
	}

	subject := publisher.Subject(event.Kind)
	if err := publisher.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("nats_publish_failed: %w", err)
	}

	publisher.logger.Debug("interaction_event_published",
		slog.String("subject", subject),
		slog.String("event_id", event.ID),
	)
	return nil
}
