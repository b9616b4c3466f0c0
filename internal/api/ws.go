package api

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"digierge/internal/hub"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Outbound queue per connection; a client that falls this far behind
	// starts losing events.
	sendBuffer = 16
)

// joinFrame declares which channel a connection wants. Sending another
// join frame replaces the previous membership.
type joinFrame struct {
	Role       string `json:"role"`
	TenantID   string `json:"tenant_id"`
	RoomNumber string `json:"room_number,omitempty"`
	UserID     string `json:"user_id,omitempty"`
}

// wsClient adapts a websocket connection to the hub.
type wsClient struct {
	conn *websocket.Conn
	send chan hub.Envelope

	mu     sync.Mutex
	closed bool
}

// Send queues an envelope without blocking. A full queue means the
// client is too slow and the event is dropped.
func (c *wsClient) Send(e hub.Envelope) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- e:
		return true
	default:
		return false
	}
}

// shutdown closes the outbound queue exactly once. A fan-out that
// snapshotted this connection before teardown sees closed instead of a
// send on a closed channel.
func (c *wsClient) shutdown() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
}

func (s *Server) handleWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &wsClient{conn: conn, send: make(chan hub.Envelope, sendBuffer)}
	go client.writePump()
	s.readPump(client)
}

// readPump consumes join frames until the connection dies, then tears
// the client down.
func (s *Server) readPump(client *wsClient) {
	defer func() {
		s.hub.Unsubscribe(client)
		client.shutdown()
		client.conn.Close()
	}()

	client.conn.SetReadLimit(4096)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug().Err(err).Msg("websocket closed unexpectedly")
			}
			return
		}

		var join joinFrame
		if err := json.Unmarshal(raw, &join); err != nil {
			client.Send(hub.Envelope{Event: "error", Data: gin.H{"error": "malformed join frame"}})
			continue
		}

		if err := s.hub.Subscribe(client, join.TenantID, hub.Role(join.Role), join.RoomNumber); err != nil {
			client.Send(hub.Envelope{Event: "error", Data: gin.H{"error": err.Error()}})
			continue
		}

		s.logger.Debug().Str("tenant_id", join.TenantID).Str("role", join.Role).
			Str("room", join.RoomNumber).Msg("websocket client joined")
	}
}

// writePump serializes queued envelopes to the socket and keeps the
// connection alive with pings.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
