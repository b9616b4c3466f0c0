package hub

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"digierge/internal/events"
	"digierge/internal/models"
)

// Notifier turns domain events from the bus into fan-out publishes:
// booking_created goes to the staff channel only; booking_updated goes to
// the staff channel and the requesting guest's room channel, each with
// its own summary message.
type Notifier struct {
	hub    *Hub
	logger *zerolog.Logger
}

// NewNotifier creates a notifier bound to the hub.
func NewNotifier(h *Hub, logger *zerolog.Logger) *Notifier {
	return &Notifier{hub: h, logger: logger}
}

// Register subscribes the notifier on the bus.
func (n *Notifier) Register(bus *events.Bus) {
	bus.Subscribe(events.TopicBookingCreated, n.HandleEvent)
	bus.Subscribe(events.TopicBookingUpdated, n.HandleEvent)
}

// HandleEvent routes one domain event. It is also the injection point for
// events relayed from other instances.
func (n *Notifier) HandleEvent(e events.Event) error {
	switch e.Type {
	case events.TopicBookingCreated:
		var ev events.BookingCreatedEvent
		if err := json.Unmarshal(e.Payload, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", e.Type, err)
		}
		n.bookingCreated(&ev.Booking)
	case events.TopicBookingUpdated:
		var ev events.BookingUpdatedEvent
		if err := json.Unmarshal(e.Payload, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", e.Type, err)
		}
		n.bookingUpdated(&ev.Booking)
	default:
		return fmt.Errorf("unexpected event type %s", e.Type)
	}
	return nil
}

func (n *Notifier) bookingCreated(b *models.Booking) {
	n.hub.Publish(Envelope{
		Event: models.EventBookingCreated,
		Data: models.BookingCreatedPayload{
			BookingID:   b.ID,
			ServiceType: b.ServiceType,
			GuestName:   b.GuestName,
			RoomNumber:  b.RoomNumber,
			Priority:    b.Priority,
			Message:     models.StaffCreatedNotice(b),
		},
	}, StaffChannel(b.TenantID))
}

func (n *Notifier) bookingUpdated(b *models.Booking) {
	// The guest sees their own booking; staff see the full update.
	n.hub.Publish(Envelope{
		Event: models.EventBookingUpdated,
		Data: models.BookingUpdatedPayload{
			BookingID: b.ID,
			Status:    b.Status,
			Message:   models.GuestUpdateNotice(b),
		},
	}, RoomChannel(b.TenantID, b.RoomNumber))

	n.hub.Publish(Envelope{
		Event: models.EventBookingUpdated,
		Data: models.BookingUpdatedPayload{
			BookingID:  b.ID,
			Status:     b.Status,
			AssignedTo: b.AssignedTo,
			Message:    models.StaffUpdateNotice(b),
		},
	}, StaffChannel(b.TenantID))
}
