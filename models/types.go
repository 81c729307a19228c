package models

import "time"

// VotingRoom is the broadcast topic every live-tally viewer subscribes to.
const VotingRoom = "voting"

// Defaults applied when the voting_status log is empty.
const (
	DefaultVotingEnabled   = true
	DefaultMaxVotesPerUser = 3
)

// Request types

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type AddMemberRequest struct {
	AccountID string `json:"account_id"`
}

type BlockProjectRequest struct {
	Blocked bool `json:"blocked"`
}

type SubmitVoteRequest struct {
	ProjectID string `json:"project_id"`
	Reason    string `json:"reason"`
}

type UpdateVotingRequest struct {
	IsVotingEnabled bool `json:"is_voting_enabled"`
	MaxVotesPerUser int  `json:"max_votes_per_user"`
}

// Response types

type SignUpResponse struct {
	AccountID string `json:"account_id"`
}

type SignInResponse struct {
	SessionToken string `json:"session_token"`
	AccountID    string `json:"account_id"`
	Name         string `json:"name"`
	IsAdmin      bool   `json:"is_admin"`
}

type CreateProjectResponse struct {
	ProjectID string `json:"project_id"`
}

type SubmitVoteResponse struct {
	Message string `json:"message"`
	Vote    Vote   `json:"vote"`
}

type UpdateVotingResponse struct {
	IsVotingEnabled bool      `json:"is_voting_enabled"`
	MaxVotesPerUser int       `json:"max_votes_per_user"`
	UpdatedAt       time.Time `json:"updated_at"`
	UpdatedBy       string    `json:"updated_by"`
	BroadcastCount  int       `json:"broadcast_count"`
}

type SystemStatusResponse struct {
	IsVotingEnabled bool      `json:"is_voting_enabled"`
	MaxVotesPerUser int       `json:"max_votes_per_user"`
	LastUpdated     time.Time `json:"last_updated"`
}

// Domain types

type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SubmitterID string    `json:"submitter_id"`
	Blocked     bool      `json:"blocked"`
	VoteCount   int       `json:"vote_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type Vote struct {
	ID        string    `json:"id"`
	VoterID   string    `json:"voter_id"`
	ProjectID string    `json:"project_id"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// VotingStatus is one record of the append-only system status log.
// "Current" status is always the latest record by updated_at.
type VotingStatus struct {
	ID              string    `json:"id"`
	IsVotingEnabled bool      `json:"is_voting_enabled"`
	MaxVotesPerUser int       `json:"max_votes_per_user"`
	UpdatedBy       string    `json:"updated_by"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
