// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package registry tracks live websocket connections and their room memberships.

# Model

Each connection has an opaque id, a role (anonymous until the handshake
authenticates it), an advisory identity, and a set of joined rooms. Rooms are
plain names; membership is many-to-many and recomputed on every lookup.

The registry is constructed once at server start and injected into the
websocket layer and the broadcaster:

	reg := registry.New()

# Lifecycle

	reg.Register(connID)                      // transport connect
	reg.Authenticate(connID, identity, admin) // handshake, no-op if unknown
	reg.JoinRoom(connID, "voting")            // idempotent
	reg.LeaveRoom(connID, "voting")           // idempotent
	reg.Remove(connID)                        // transport disconnect, safe twice

# Queries

MembersOf returns a point-in-time snapshot of a room's connection ids.
Query filters all entries by predicate, used for role-scoped delivery:

	admins := reg.Query(func(e registry.Entry) bool {
		return e.Role == registry.RoleAdmin
	})

The registry holds no transport handles and performs no I/O; resolving an id
to a sendable session is the ws package's job. All methods are safe for
concurrent use.
*/
package registry
