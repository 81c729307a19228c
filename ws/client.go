// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/show-of-hands/registry"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong before the connection is
	// considered dead
	pongWait = 60 * time.Second

	// Send control pings with this period; must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size
	maxMessageSize = 4096

	// Outbound buffer per connection; a full buffer counts as non-delivery
	sendBuffer = 32
)

// Client wraps one websocket connection: a buffered outbound channel written
// by the broadcaster and drained by writePump, and a readPump that processes
// the client's messages in arrival order.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	hub  *Hub
	reg  *registry.Registry

	closeOnce sync.Once
}

func newClient(id string, conn *websocket.Conn, hub *Hub, reg *registry.Registry) *Client {
	return &Client{
		id:   id,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
		hub:  hub,
		reg:  reg,
	}
}

// trySend queues a frame without blocking. False means the connection is
// closing or its buffer is full; the caller treats that as non-delivery
// rather than stalling a broadcast. The send channel is never closed, so a
// broadcast racing a disconnect drops the frame instead of panicking.
func (c *Client) trySend(msg []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// close tears the connection down exactly once: hub, registry, then socket.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.hub.remove(c)
		c.reg.Remove(c.id)
		c.conn.Close()
	})
}

// readPump processes inbound messages for one connection. Messages from a
// single client are handled strictly in arrival order. Exits on read error
// or missed heartbeat, which tears down the connection.
func (c *Client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read failed", "connection_id", c.id, "error", err)
			}
			return
		}

		var msg envelope
		if err := json.Unmarshal(raw, &msg); err != nil {
			slog.Debug("ignoring malformed message", "connection_id", c.id, "error", err)
			continue
		}

		c.handleMessage(msg)
	}
}

// handleMessage dispatches one client message. The handshake (auth) trusts
// the claim as-is: the websocket identity only scopes broadcasts, real
// credential checks happen on the HTTP request path.
func (c *Client) handleMessage(msg envelope) {
	switch msg.Event {
	case "auth":
		var req authMessage
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			slog.Debug("ignoring malformed auth", "connection_id", c.id, "error", err)
			return
		}
		c.reg.Authenticate(c.id, registry.Identity{
			UserID:    req.UserID,
			UserName:  req.UserName,
			UserEmail: req.UserEmail,
		}, req.IsAdmin)
		slog.Info("connection authenticated",
			"connection_id", c.id, "user_id", req.UserID, "is_admin", req.IsAdmin)

	case "join-room":
		var req roomMessage
		if err := json.Unmarshal(msg.Data, &req); err != nil || req.Room == "" {
			return
		}
		c.reg.JoinRoom(c.id, req.Room)
		c.sendEvent(AdminNotice{Type: "room", Message: "joined " + req.Room})

	case "leave-room":
		var req roomMessage
		if err := json.Unmarshal(msg.Data, &req); err != nil || req.Room == "" {
			return
		}
		c.reg.LeaveRoom(c.id, req.Room)
		c.sendEvent(AdminNotice{Type: "room", Message: "left " + req.Room})

	case "ping":
		c.sendEvent(Pong{Timestamp: time.Now().UnixMilli()})

	default:
		slog.Debug("ignoring unknown event", "connection_id", c.id, "event", msg.Event)
	}
}

// sendEvent queues a single event for this connection.
func (c *Client) sendEvent(ev Event) {
	frame, err := marshalEvent(ev)
	if err != nil {
		slog.Error("failed to encode event", "event", ev.EventName(), "error", err)
		return
	}
	if !c.trySend(frame) {
		slog.Warn("event dropped, connection not keeping up",
			"event", ev.EventName(), "connection_id", c.id)
	}
}

// writePump drains the send channel to the socket and keeps the heartbeat
// going. Exits on teardown or when a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.Warn("websocket write failed", "connection_id", c.id, "error", err)
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
