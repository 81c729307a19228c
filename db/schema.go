// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// The schema avoids database-side defaults and JSON columns so the same DDL
// runs on both sqlite and postgres; timestamps are always written by the
// application.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Accounts (real-name voters and administrators)
CREATE TABLE IF NOT EXISTS account (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    is_admin BOOLEAN NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_account_email ON account(email);

-- Sessions (header-token auth for the synchronous request surface)
CREATE TABLE IF NOT EXISTS session (
    token TEXT PRIMARY KEY,
    account_id TEXT NOT NULL REFERENCES account(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL,
    expires_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_account ON session(account_id);

-- Projects
CREATE TABLE IF NOT EXISTS project (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    submitter_id TEXT NOT NULL REFERENCES account(id) ON DELETE CASCADE,
    blocked BOOLEAN NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_project_submitter ON project(submitter_id);

-- Project team members (feeds the self-vote check)
CREATE TABLE IF NOT EXISTS project_member (
    project_id TEXT NOT NULL REFERENCES project(id) ON DELETE CASCADE,
    account_id TEXT NOT NULL REFERENCES account(id) ON DELETE CASCADE,
    added_at TIMESTAMP NOT NULL,
    PRIMARY KEY (project_id, account_id)
);

CREATE INDEX IF NOT EXISTS idx_project_member_account ON project_member(account_id);

-- Votes. The UNIQUE(voter_id, project_id) constraint is the race backstop
-- for concurrent duplicate submissions.
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL REFERENCES account(id) ON DELETE CASCADE,
    project_id TEXT NOT NULL REFERENCES project(id) ON DELETE CASCADE,
    reason TEXT,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (voter_id, project_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_project ON vote(project_id);
CREATE INDEX IF NOT EXISTS idx_vote_voter ON vote(voter_id);

-- System voting status, append-only. The latest row by updated_at is current;
-- an empty table means the hardcoded default (enabled, quota 3).
CREATE TABLE IF NOT EXISTS voting_status (
    id TEXT PRIMARY KEY,
    is_voting_enabled BOOLEAN NOT NULL,
    max_votes_per_user INTEGER NOT NULL,
    updated_by TEXT NOT NULL REFERENCES account(id),
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_voting_status_updated_at ON voting_status(updated_at);
`
