// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ws

import (
	"encoding/json"
	"fmt"
)

// Event is one of the closed set of server-to-client broadcast payloads.
// The set is deliberately small so every broadcast is exhaustively typed;
// handlers never push arbitrary objects through the fan-out.
type Event interface {
	EventName() string
}

// VoteAccepted announces a committed vote and the project's new tally.
type VoteAccepted struct {
	ProjectID    string `json:"project_id"`
	ProjectTitle string `json:"project_title"`
	NewVoteCount int    `json:"new_vote_count"`
	VoterName    string `json:"voter_name"`
}

func (VoteAccepted) EventName() string { return "vote-update" }

// SystemStatusChanged announces a new current system voting status.
type SystemStatusChanged struct {
	IsVotingEnabled bool `json:"is_voting_enabled"`
	MaxVotesPerUser int  `json:"max_votes_per_user"`
}

func (SystemStatusChanged) EventName() string { return "system-status-update" }

// AdminNotice is a free-form server notice, also used to ack room joins.
type AdminNotice struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (AdminNotice) EventName() string { return "notification" }

// Connected is sent once, immediately after a connection is established.
type Connected struct {
	Message string `json:"message"`
}

func (Connected) EventName() string { return "connection" }

// Pong answers a client-level ping message.
type Pong struct {
	Timestamp int64 `json:"timestamp"`
}

func (Pong) EventName() string { return "pong" }

// envelope is the wire format in both directions: an event name plus its
// payload.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// marshalEvent wraps an event in the wire envelope.
func marshalEvent(ev Event) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", ev.EventName(), err)
	}
	frame, err := json.Marshal(envelope{Event: ev.EventName(), Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s envelope: %w", ev.EventName(), err)
	}
	return frame, nil
}

// Client-to-server message payloads.

type authMessage struct {
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	IsAdmin   bool   `json:"is_admin"`
}

type roomMessage struct {
	Room string `json:"room"`
}
