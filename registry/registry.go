// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import "sync"

// Role classifies a connection for role-scoped delivery.
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
)

// Identity is the claim attached to a connection at handshake time.
// It is advisory: it scopes broadcasts, it never authorizes votes.
type Identity struct {
	UserID    string
	UserName  string
	UserEmail string
}

// Entry is a read-only snapshot of one connection's registry state.
type Entry struct {
	ConnectionID string
	Identity     Identity
	Role         Role
	Rooms        []string
}

type connection struct {
	identity Identity
	role     Role
	rooms    map[string]struct{}
}

// Registry is the single source of truth mapping live connections to their
// role and room memberships. It holds no transport handles and performs no
// I/O; all methods are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*connection
	rooms map[string]map[string]struct{}
}

func New() *Registry {
	return &Registry{
		conns: make(map[string]*connection),
		rooms: make(map[string]map[string]struct{}),
	}
}

// Register creates an anonymous entry for a new connection.
func (r *Registry) Register(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.conns[connectionID] = &connection{
		role:  RoleAnonymous,
		rooms: make(map[string]struct{}),
	}
}

// Authenticate attaches an identity and role to an existing connection.
// Unknown ids are a no-op: the connection already disconnected and the
// handshake arrived too late to matter.
func (r *Registry) Authenticate(connectionID string, identity Identity, isAdmin bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[connectionID]
	if !ok {
		return
	}

	conn.identity = identity
	if isAdmin {
		conn.role = RoleAdmin
	} else {
		conn.role = RoleUser
	}
}

// JoinRoom adds a connection to a room. Idempotent; unknown ids are ignored.
func (r *Registry) JoinRoom(connectionID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[connectionID]
	if !ok {
		return
	}

	conn.rooms[room] = struct{}{}
	if _, ok := r.rooms[room]; !ok {
		r.rooms[room] = make(map[string]struct{})
	}
	r.rooms[room][connectionID] = struct{}{}
}

// LeaveRoom removes a connection from a room. Idempotent.
func (r *Registry) LeaveRoom(connectionID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conn, ok := r.conns[connectionID]; ok {
		delete(conn.rooms, room)
	}
	r.dropMembership(connectionID, room)
}

// Remove drops a connection and all its memberships. Safe to call twice.
func (r *Registry) Remove(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[connectionID]
	if !ok {
		return
	}

	for room := range conn.rooms {
		r.dropMembership(connectionID, room)
	}
	delete(r.conns, connectionID)
}

// dropMembership removes one membership edge and cleans up empty room sets.
// Caller must hold the write lock.
func (r *Registry) dropMembership(connectionID, room string) {
	members, ok := r.rooms[room]
	if !ok {
		return
	}
	delete(members, connectionID)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
}

// MembersOf returns the connection ids currently in a room. The slice is a
// snapshot taken at call time; it is recomputed on every broadcast so stale
// memberships never accumulate.
func (r *Registry) MembersOf(room string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[room]
	ids := make([]string, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	return ids
}

// Query returns the connection ids whose entry matches the predicate.
// Used for role-scoped delivery, e.g. admin-only notices.
func (r *Registry) Query(predicate func(Entry) bool) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for id, conn := range r.conns {
		if predicate(r.snapshot(id, conn)) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Lookup returns a snapshot of one connection's entry.
func (r *Registry) Lookup(connectionID string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[connectionID]
	if !ok {
		return Entry{}, false
	}
	return r.snapshot(connectionID, conn), true
}

// Count returns the number of registered connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// snapshot copies a connection's state. Caller must hold at least a read lock.
func (r *Registry) snapshot(id string, conn *connection) Entry {
	rooms := make([]string, 0, len(conn.rooms))
	for room := range conn.rooms {
		rooms = append(rooms, room)
	}
	return Entry{
		ConnectionID: id,
		Identity:     conn.identity,
		Role:         conn.role,
		Rooms:        rooms,
	}
}
