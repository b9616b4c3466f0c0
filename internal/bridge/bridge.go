// Package bridge relays domain events between service instances over
// Redis pub/sub, so realtime clients connected to one instance still see
// bookings handled by another.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"digierge/internal/events"
)

// frame is the wire format on the Redis channel.
type frame struct {
	Origin    string    `json:"origin"`
	Type      string    `json:"type"`
	Payload   []byte    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// Bridge mirrors local events to Redis and feeds remote events into the
// local fan-out. Remote events bypass the bus so they are never
// re-published.
type Bridge struct {
	client     *redis.Client
	channel    string
	instanceID string
	deliver    events.Handler
	logger     *zerolog.Logger
}

// New creates a bridge. deliver receives events published by other
// instances.
func New(client *redis.Client, channel string, deliver events.Handler, logger *zerolog.Logger) *Bridge {
	return &Bridge{
		client:     client,
		channel:    channel,
		instanceID: uuid.NewString(),
		deliver:    deliver,
		logger:     logger,
	}
}

// Register subscribes the bridge on the local bus so every booking event
// is mirrored to Redis.
func (b *Bridge) Register(bus *events.Bus) {
	bus.Subscribe(events.TopicBookingCreated, b.mirror)
	bus.Subscribe(events.TopicBookingUpdated, b.mirror)
}

func (b *Bridge) mirror(e events.Event) error {
	raw, err := json.Marshal(frame{
		Origin:    b.instanceID,
		Type:      e.Type,
		Payload:   e.Payload,
		CreatedAt: e.CreatedAt,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := b.client.Publish(ctx, b.channel, raw).Err(); err != nil {
		return err
	}
	return nil
}

// Run consumes the Redis channel until the context is cancelled. The
// go-redis subscription reconnects on its own; Run only exits on
// shutdown.
func (b *Bridge) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	// Surface subscription failures early instead of on the first event.
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	b.logger.Info().Str("channel", b.channel).Msg("event bridge connected")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return errors.New("redis subscription closed")
			}
			b.handleMessage(msg.Payload)
		}
	}
}

func (b *Bridge) handleMessage(payload string) {
	var f frame
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		b.logger.Warn().Err(err).Msg("malformed bridge frame")
		return
	}
	if f.Origin == b.instanceID {
		return
	}

	err := b.deliver(events.Event{Type: f.Type, Payload: f.Payload, CreatedAt: f.CreatedAt})
	if err != nil {
		b.logger.Error().Err(err).Str("type", f.Type).Msg("failed to deliver relayed event")
	}
}
