// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ws

import (
	"log/slog"
	"sync"
)

// Hub maps connection ids to their live transport sessions. It is the only
// component that holds websocket handles; the registry tracks identity and
// rooms, the hub resolves ids to something that can be written to.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string]*Client),
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.sessions[c.id] = c
	h.mu.Unlock()

	slog.Info("connection opened", "connection_id", c.id, "connections", h.Count())
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	_, ok := h.sessions[c.id]
	if ok {
		delete(h.sessions, c.id)
	}
	h.mu.Unlock()

	if ok {
		slog.Info("connection closed", "connection_id", c.id, "connections", h.Count())
	}
}

// session resolves a connection id to its live transport session. A false
// result means the connection vanished; broadcasters skip it silently.
func (h *Hub) session(id string) (sender, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.sessions[id]
	if !ok {
		return nil, false
	}
	return c, true
}

// Count returns the number of live sessions. Safe for concurrent use.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
