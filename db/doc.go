// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL runs unchanged on both sqlite (local/dev/tests) and postgres
(deployment): no NOW() defaults, no JSON columns, timestamps written by the
application.

# Tables

The schema includes:

  - account: Real-name voters and administrators
  - session: Header tokens for the synchronous request surface
  - project: Submitted projects with the blocked flag gating admission
  - project_member: Team members per project (self-vote check)
  - vote: One vote per voter per project
  - voting_status: Append-only system status log

# Relationships

	account 1──* session
	account 1──* project (as submitter)
	project *──* account (via project_member)
	account 1──* vote
	project 1──* vote
	account 1──* voting_status (as updater)

# Invariants

  - vote(voter_id, project_id) is UNIQUE. This is the only correctness-critical
    invariant; concurrent duplicate submissions race on it and exactly one
    insert wins.
  - voting_status rows are never updated or deleted; "current" is the latest
    row by updated_at, defaulting to enabled/quota-3 when the table is empty.
*/
package db
