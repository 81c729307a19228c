// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/danielhkuo/show-of-hands/registry"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Cross-origin handled at the CORS layer
	},
}

// Handler upgrades HTTP requests to websocket connections and runs their
// lifecycle against the hub and registry.
type Handler struct {
	hub *Hub
	reg *registry.Registry
}

func NewHandler(hub *Hub, reg *registry.Registry) *Handler {
	return &Handler{hub: hub, reg: reg}
}

// Serve handles GET /ws. Each connection gets an opaque id, an anonymous
// registry entry, and an immediate connection greeting; identity arrives
// later via the auth message.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	client := newClient(uuid.New().String(), conn, h.hub, h.reg)
	h.reg.Register(client.id)

	// Queue the greeting before the hub can route broadcasts to this
	// session, so it is always the first frame the client sees
	client.sendEvent(Connected{Message: "connected"})
	h.hub.add(client)

	go client.writePump()
	go client.readPump()
}
