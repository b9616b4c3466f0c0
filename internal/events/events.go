// Package events provides in-process pub/sub between the booking service
// and its notification subscribers.
package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"digierge/internal/models"
)

// Topics published by the booking service.
const (
	TopicBookingCreated = "booking.created"
	TopicBookingUpdated = "booking.updated"
)

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Handler reacts to an event.
type Handler func(event Event) error

// Bus provides in-process pub/sub for events.
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
	logger      *zerolog.Logger
}

// NewBus constructs an empty bus.
func NewBus(logger *zerolog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[string][]Handler),
		logger:      logger,
	}
}

// Subscribe registers a handler for a given event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type. Handler errors are
// logged, never propagated: a failing subscriber must not affect the
// publisher or the other subscribers.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		if err := handler(event); err != nil {
			b.logger.Error().Err(err).Str("type", event.Type).Msg("event handler failed")
		}
	}
}

// PublishJSON marshals the payload and publishes it.
func (b *Bus) PublishJSON(eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	b.Publish(Event{Type: eventType, Payload: data, CreatedAt: time.Now()})
	return nil
}

// BookingCreatedEvent is the payload of TopicBookingCreated.
type BookingCreatedEvent struct {
	Booking models.Booking `json:"booking"`
}

// BookingUpdatedEvent is the payload of TopicBookingUpdated.
type BookingUpdatedEvent struct {
	Booking        models.Booking `json:"booking"`
	PreviousStatus models.Status  `json:"previous_status"`
}
