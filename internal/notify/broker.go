package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// EventType discriminates user lifecycle events.
type EventType string

// User lifecycle events published by the identity service.
const (
	EventRoleChanged    EventType = "user.role_changed"
	EventProfileDeleted EventType = "user.profile_deleted"
	EventSessionChanged EventType = "user.session_changed"
)

// UserEvent is the payload fanned out to in-process subscribers and, when
// a NATS connection is configured, published on the users subject.
type UserEvent struct {
	Type   EventType `json:"type"`
	UserID string    `json:"user_id"`
	Role   string    `json:"role,omitempty"`
	At     time.Time `json:"at"`
}

// Broker fans user events out to in-process subscribers and mirrors them to
// NATS. A nil NATS connection is fine: events then stay in-process only.
type Broker struct {
	nats    *nats.Conn
	subject string
	logger  zerolog.Logger

	mu     sync.Mutex
	nextID int
	subs   map[int]chan UserEvent
}

// NewBroker constructs the event broker. conn may be nil.
func NewBroker(conn *nats.Conn, subject string, logger zerolog.Logger) *Broker {
	if subject == "" {
		subject = "skyframe.users.events"
	}
	return &Broker{
		nats:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "user_event_broker").Logger(),
		subs:    make(map[int]chan UserEvent),
	}
}

// Publish delivers the event to every subscriber and to NATS. Slow
// subscribers are skipped rather than blocking the caller; NATS failures
// are logged and swallowed so user operations never fail on notification.
func (b *Broker) Publish(ctx context.Context, event UserEvent) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	b.mu.Lock()
	for _, sub := range b.subs {
		select {
		case sub <- event:
		default:
		}
	}
	b.mu.Unlock()

	if b.nats == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Error().Err(err).Msg("failed to encode user event")
		return
	}
	if err := b.nats.Publish(b.subject, payload); err != nil {
		b.logger.Warn().Err(err).Str("subject", b.subject).Msg("failed to publish user event")
	}
}

// Subscribe registers an in-process listener. The returned cancel function
// unregisters it and closes the channel.
func (b *Broker) Subscribe() (<-chan UserEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan UserEvent, 16)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}

	return ch, cancel
}
