// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "errors"

// Expected vote-admission rejections. These are normal control flow and are
// surfaced to the caller verbatim, never logged as errors.
var (
	ErrVotingDisabled     = errors.New("voting is currently disabled")
	ErrProjectUnavailable = errors.New("project not found or blocked")
	ErrSelfVoteForbidden  = errors.New("cannot vote for your own project")
	ErrAlreadyVoted       = errors.New("already voted for this project")
	ErrQuotaExceeded      = errors.New("vote quota exhausted")
	ErrInvalidQuota       = errors.New("max_votes_per_user must be at least 1")
)
