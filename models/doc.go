// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request/response types, domain types, and the vote
rejection error set.

# Domain Types

  - Account: real-name voter or administrator
  - Project: submitted project; the blocked flag gates vote admission
  - Vote: one voter's vote on one project, (voter_id, project_id) unique
  - VotingStatus: one record of the append-only system status log

# Rejection Errors

The closed set of expected vote-admission rejections lives in errors.go:
VotingDisabled, ProjectUnavailable, SelfVoteForbidden, AlreadyVoted,
QuotaExceeded, InvalidQuota. Their messages are user-displayable and map
one-to-one onto distinct UI states; handlers never collapse them into a
generic failure.

# Constants

VotingRoom names the single broadcast topic for live tallies. The default
system status (voting enabled, quota 3) applies while the status log is
empty.
*/
package models
