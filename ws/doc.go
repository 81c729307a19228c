// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ws implements the persistent-connection layer: websocket sessions,
the client handshake, and room/role-scoped event fan-out.

# Wiring

Constructed once at server start and injected where needed:

	reg := registry.New()
	hub := ws.NewHub()
	cast := ws.NewBroadcaster(reg, hub)
	mux.HandleFunc("GET /ws", ws.NewHandler(hub, reg).Serve)

The hub owns transport handles; the registry owns identity and rooms. The
broadcaster composes the two, so handler code never touches websocket
internals.

# Protocol

All frames are JSON envelopes {event, data}.

Client to server:

	auth       {user_id, user_name, user_email, is_admin}
	join-room  {room}
	leave-room {room}
	ping       {}

Server to client:

	connection           {message}                 once, right after connect
	vote-update          {project_id, project_title, new_vote_count, voter_name}
	system-status-update {is_voting_enabled, max_votes_per_user}
	notification         {type, message}           join/leave acks, notices
	pong                 {timestamp}

The auth claim is trusted as-is. It only scopes broadcasts (admin-only
notices); vote authorization happens on the HTTP request path where real
credentials are checked.

# Delivery Guarantees

Broadcasts are best-effort, at most once per live connection. Each
BroadcastTo* call completes a full pass over its target set and returns the
count reached. A session that vanished between registry lookup and delivery
is skipped silently; a session that cannot take the frame (buffer full) is
logged and counted as non-delivery. Broadcast failures never reach the
caller: by the time a vote-update is fanned out, the vote is already durable.

Per-connection message order is preserved (one readPump per connection).
Across connections no ordering is guaranteed.

# Heartbeat

Control pings every 54s with a 60s read deadline; a silent peer is treated
as disconnected and removed from the hub and registry. Clients may also send
application-level ping messages and get a pong with a server timestamp.
*/
package ws
