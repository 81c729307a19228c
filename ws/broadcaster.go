// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ws

import (
	"log/slog"

	"github.com/danielhkuo/show-of-hands/registry"
)

// sender is one live transport session's write side. trySend must not block:
// it reports false when the session cannot take the message (closed or its
// buffer is full), and the broadcaster counts that as non-delivery.
type sender interface {
	trySend(msg []byte) bool
}

// sessionResolver resolves a connection id to its live session, if any.
// *Hub is the production implementation; tests substitute fakes.
type sessionResolver interface {
	session(id string) (sender, bool)
}

// Broadcaster delivers typed events to computed sets of connections.
// Delivery is best-effort, at most once per live connection: a member whose
// session vanished between registry lookup and delivery is skipped silently,
// and transport-level failures only lower the returned count. Nothing here
// ever propagates an error to the caller.
type Broadcaster struct {
	reg      *registry.Registry
	sessions sessionResolver
}

func NewBroadcaster(reg *registry.Registry, hub *Hub) *Broadcaster {
	return &Broadcaster{reg: reg, sessions: hub}
}

// BroadcastToRoom delivers an event to every current member of a room and
// returns the number of connections reached. An empty or unknown room
// returns 0.
func (b *Broadcaster) BroadcastToRoom(room string, ev Event) int {
	return b.deliver(b.reg.MembersOf(room), ev)
}

// BroadcastToRole delivers an event to every connection whose registry entry
// matches the predicate and returns the number reached.
func (b *Broadcaster) BroadcastToRole(predicate func(registry.Entry) bool, ev Event) int {
	return b.deliver(b.reg.Query(predicate), ev)
}

// SendToConnection delivers an event to a single connection. Returns false
// when the session is gone or could not take the message.
func (b *Broadcaster) SendToConnection(connectionID string, ev Event) bool {
	return b.deliver([]string{connectionID}, ev) == 1
}

func (b *Broadcaster) deliver(ids []string, ev Event) int {
	frame, err := marshalEvent(ev)
	if err != nil {
		slog.Error("failed to encode event", "event", ev.EventName(), "error", err)
		return 0
	}

	delivered := 0
	for _, id := range ids {
		sess, ok := b.sessions.session(id)
		if !ok {
			// Vanished between registry lookup and delivery; not an error.
			continue
		}
		if sess.trySend(frame) {
			delivered++
		} else {
			slog.Warn("event dropped, connection not keeping up",
				"event", ev.EventName(), "connection_id", id)
		}
	}
	return delivered
}
