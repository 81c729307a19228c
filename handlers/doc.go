// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Show of Hands API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AccountHandler: Sign-up, sign-in, sign-out
  - ProjectHandler: Project CRUD, team members, admin block toggle
  - VoteHandler: Vote admission and admin vote deletion
  - SystemHandler: Global voting toggle and per-voter quota

Handlers are created via constructor functions; VoteHandler and
SystemHandler additionally take the broadcast layer:

	voteHandler := handlers.NewVoteHandler(db, cfg, cast)

The broadcaster dependency is a one-method interface, so tests inject a
recording fake instead of a live websocket hub.

# Vote Admission

SubmitVote is the sole authority for the accept/reject decision. admit()
runs five checks in a fixed order, rejecting with the first failure:

 1. voting enabled system-wide     → ErrVotingDisabled
 2. project exists, not blocked    → ErrProjectUnavailable
 3. voter not submitter or member  → ErrSelfVoteForbidden
 4. no prior vote for the project  → ErrAlreadyVoted
 5. voter below the current quota  → ErrQuotaExceeded

The (voter_id, project_id) UNIQUE constraint backstops concurrent duplicate
submissions: a lost insert race is reported as ErrAlreadyVoted. Quota is
check-then-insert by design - a UX limit, not a correctness invariant -
isolated inside admit() so it can later become a transactional counter
without changing callers.

After the insert commits, the handler re-reads the project tally and pushes
a vote-update event to the voting room. That push is best-effort; its
failure never affects the committed vote or the HTTP response.

# System Status

The voting_status table is an append-only log. GetStatus returns the latest
record or the default (enabled, quota 3); UpdateVoting validates the quota,
appends a record attributed to the acting admin, and broadcasts the change.

# Authentication

Handlers resolve the X-Session-Token header against the session table.
Expected vote rejections surface as specific 4xx messages and are never
logged as errors; infrastructure failures log and return generic 500s.
*/
package handlers
