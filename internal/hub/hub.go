// Package hub routes booking events to connected clients. It owns the
// channel-subscription table: a mapping from (tenant, scope) channels to
// the connections currently subscribed to them.
package hub

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"digierge/internal/metrics"
)

// Role declared by a client at connect time.
type Role string

const (
	RoleGuest Role = "guest"
	RoleStaff Role = "staff"
)

// Channel is a logical broadcast group.
type Channel struct {
	Tenant string
	Scope  string
}

// StaffChannel is the tenant's staff pool channel.
func StaffChannel(tenant string) Channel {
	return Channel{Tenant: tenant, Scope: "staff"}
}

// RoomChannel is the channel for one guest room.
func RoomChannel(tenant, room string) Channel {
	return Channel{Tenant: tenant, Scope: "room:" + room}
}

// Envelope is the wire message delivered to subscribed clients.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Conn is one connected client. Send must not block; it reports false
// when the message was dropped (delivery is best-effort, at-most-once).
type Conn interface {
	Send(Envelope) bool
}

var (
	ErrUnknownRole  = errors.New("unknown role")
	ErrMissingRoom  = errors.New("guest subscription requires a room number")
	ErrMissingField = errors.New("tenant id is required")
)

// Hub maintains channel subscriptions and fans events out to them.
type Hub struct {
	mu     sync.RWMutex
	subs   map[Channel]map[Conn]struct{}
	byConn map[Conn][]Channel
	logger *zerolog.Logger
}

// New creates an empty hub.
func New(logger *zerolog.Logger) *Hub {
	return &Hub{
		subs:   make(map[Channel]map[Conn]struct{}),
		byConn: make(map[Conn][]Channel),
		logger: logger,
	}
}

// Subscribe registers the connection on the channels its declared role
// implies: staff on (tenant, staff), guests on (tenant, room:<n>).
// A connection belongs to one tenant and one scope-set at a time;
// subscribing again re-declares membership.
func (h *Hub) Subscribe(c Conn, tenant string, role Role, room string) error {
	if tenant == "" {
		return ErrMissingField
	}

	var channels []Channel
	switch role {
	case RoleStaff:
		channels = []Channel{StaffChannel(tenant)}
	case RoleGuest:
		if room == "" {
			return ErrMissingRoom
		}
		channels = []Channel{RoomChannel(tenant, room)}
	default:
		return ErrUnknownRole
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.dropLocked(c)
	for _, ch := range channels {
		set, ok := h.subs[ch]
		if !ok {
			set = make(map[Conn]struct{})
			h.subs[ch] = set
		}
		set[c] = struct{}{}
	}
	h.byConn[c] = channels

	metrics.SetConnectedClients(len(h.byConn))
	h.logger.Debug().Str("tenant", tenant).Str("role", string(role)).Str("room", room).
		Msg("client subscribed")
	return nil
}

// Unsubscribe removes all of the connection's memberships. Other
// connections are untouched.
func (h *Hub) Unsubscribe(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.dropLocked(c)
	metrics.SetConnectedClients(len(h.byConn))
}

func (h *Hub) dropLocked(c Conn) {
	for _, ch := range h.byConn[c] {
		if set, ok := h.subs[ch]; ok {
			delete(set, c)
			if len(set) == 0 {
				delete(h.subs, ch)
			}
		}
	}
	delete(h.byConn, c)
}

// Publish delivers the envelope to every connection currently subscribed
// to any of the channels. The subscriber set is snapshotted under a read
// lock; sends are non-blocking, so Publish never waits on a slow client.
// A connection subscribed to several of the channels receives the
// envelope once.
func (h *Hub) Publish(env Envelope, channels ...Channel) {
	h.mu.RLock()
	targets := make(map[Conn]struct{})
	for _, ch := range channels {
		for c := range h.subs[ch] {
			targets[c] = struct{}{}
		}
	}
	h.mu.RUnlock()

	for c := range targets {
		if !c.Send(env) {
			metrics.IncEventDropped()
			h.logger.Debug().Str("event", env.Event).Msg("dropped event for slow client")
		}
	}
	metrics.IncEventPublished(env.Event)
}

// Connections returns the number of currently subscribed connections.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byConn)
}
