// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/show-of-hands/auth"
	"github.com/danielhkuo/show-of-hands/cliparse"
	"github.com/danielhkuo/show-of-hands/middleware"
	"github.com/danielhkuo/show-of-hands/models"
	"github.com/danielhkuo/show-of-hands/ws"
)

// VoteHandler is the sole authority for the vote accept/reject decision.
type VoteHandler struct {
	db   *sql.DB
	cfg  cliparse.Config
	cast caster
}

func NewVoteHandler(db *sql.DB, cfg cliparse.Config, cast caster) *VoteHandler {
	return &VoteHandler{db: db, cfg: cfg, cast: cast}
}

// SubmitVote handles POST /votes
func (h *VoteHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	acct, err := requireAccount(h.db, r)
	if err == errNoSession {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "sign in required")
		return
	}
	if err != nil {
		slog.Error("failed to resolve session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ProjectID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "project_id is required")
		return
	}

	vote, projectTitle, err := h.admit(acct.ID, req.ProjectID, req.Reason)
	if err != nil {
		// Expected rejections are normal control flow: specific status and
		// message per reason, no error logging.
		switch {
		case errors.Is(err, models.ErrVotingDisabled):
			middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
		case errors.Is(err, models.ErrProjectUnavailable):
			middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
		case errors.Is(err, models.ErrSelfVoteForbidden):
			middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
		case errors.Is(err, models.ErrAlreadyVoted):
			middleware.ErrorResponse(w, http.StatusConflict, err.Error())
		case errors.Is(err, models.ErrQuotaExceeded):
			middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
		default:
			slog.Error("vote admission failed", "error", err, "voter_id", acct.ID, "project_id", req.ProjectID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit vote")
		}
		return
	}

	slog.Info("vote accepted", "vote_id", vote.ID, "voter_id", acct.ID, "project_id", req.ProjectID)

	// Post-commit fan-out. Best-effort: the vote is already durable, so a
	// failure here only lowers the delivered count and never reaches the
	// caller.
	newCount, err := h.projectVoteCount(req.ProjectID)
	if err != nil {
		slog.Error("failed to recount votes after insert", "error", err, "project_id", req.ProjectID)
	} else {
		reached := h.cast.BroadcastToRoom(models.VotingRoom, ws.VoteAccepted{
			ProjectID:    req.ProjectID,
			ProjectTitle: projectTitle,
			NewVoteCount: newCount,
			VoterName:    acct.Name,
		})
		slog.Debug("vote update broadcast", "project_id", req.ProjectID, "reached", reached)
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitVoteResponse{
		Message: "Vote submitted successfully",
		Vote:    vote,
	})
}

// admit validates one vote attempt and performs the durable insert. The
// checks run in a fixed order so the most fundamental failure is reported
// first; each failure is one of the models sentinel errors. Quota is
// check-then-insert (a UX limit), while the (voter_id, project_id) UNIQUE
// constraint is the correctness backstop: losing that race at insert time is
// reported as ErrAlreadyVoted, never as a generic failure.
func (h *VoteHandler) admit(voterID, projectID, reason string) (models.Vote, string, error) {
	// 1. Global switch
	status, err := currentStatus(h.db)
	if err != nil {
		return models.Vote{}, "", fmt.Errorf("failed to read system status: %w", err)
	}
	if !status.IsVotingEnabled {
		return models.Vote{}, "", models.ErrVotingDisabled
	}

	// 2. Project exists and is not blocked
	var title, submitterID string
	var blocked bool
	err = h.db.QueryRow(`
		SELECT title, submitter_id, blocked FROM project WHERE id = $1
	`, projectID).Scan(&title, &submitterID, &blocked)

	if err == sql.ErrNoRows {
		return models.Vote{}, "", models.ErrProjectUnavailable
	}
	if err != nil {
		return models.Vote{}, "", fmt.Errorf("failed to query project: %w", err)
	}
	if blocked {
		return models.Vote{}, "", models.ErrProjectUnavailable
	}

	// 3. No self-votes: neither the submitter nor a team member
	if submitterID == voterID {
		return models.Vote{}, "", models.ErrSelfVoteForbidden
	}
	var isMember bool
	err = h.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM project_member
			WHERE project_id = $1 AND account_id = $2
		)
	`, projectID, voterID).Scan(&isMember)
	if err != nil {
		return models.Vote{}, "", fmt.Errorf("failed to check team membership: %w", err)
	}
	if isMember {
		return models.Vote{}, "", models.ErrSelfVoteForbidden
	}

	// 4. One vote per voter per project
	var voted bool
	err = h.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM vote WHERE voter_id = $1 AND project_id = $2
		)
	`, voterID, projectID).Scan(&voted)
	if err != nil {
		return models.Vote{}, "", fmt.Errorf("failed to check existing vote: %w", err)
	}
	if voted {
		return models.Vote{}, "", models.ErrAlreadyVoted
	}

	// 5. Per-voter quota
	var used int
	err = h.db.QueryRow(`
		SELECT COUNT(*) FROM vote WHERE voter_id = $1
	`, voterID).Scan(&used)
	if err != nil {
		return models.Vote{}, "", fmt.Errorf("failed to count votes: %w", err)
	}
	if used >= status.MaxVotesPerUser {
		return models.Vote{}, "", models.ErrQuotaExceeded
	}

	// Commit. The UNIQUE constraint resolves concurrent duplicates: exactly
	// one insert wins, the loser is told it already voted.
	vote := models.Vote{
		VoterID:   voterID,
		ProjectID: projectID,
		Reason:    reason,
		CreatedAt: time.Now(),
	}
	vote.ID, err = auth.GenerateID(16)
	if err != nil {
		return models.Vote{}, "", fmt.Errorf("failed to generate vote id: %w", err)
	}

	_, err = h.db.Exec(`
		INSERT INTO vote (id, voter_id, project_id, reason, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, vote.ID, vote.VoterID, vote.ProjectID, vote.Reason, vote.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return models.Vote{}, "", models.ErrAlreadyVoted
		}
		return models.Vote{}, "", fmt.Errorf("failed to insert vote: %w", err)
	}

	return vote, title, nil
}

// projectVoteCount re-reads the tally from the store. Counts are always
// computed read-after-write rather than kept in memory, so admin deletions
// are reflected on the next read.
func (h *VoteHandler) projectVoteCount(projectID string) (int, error) {
	var count int
	err := h.db.QueryRow(`
		SELECT COUNT(*) FROM vote WHERE project_id = $1
	`, projectID).Scan(&count)
	return count, err
}

// DeleteVote handles DELETE /votes/{id} (admin only)
func (h *VoteHandler) DeleteVote(w http.ResponseWriter, r *http.Request) {
	acct, err := requireAccount(h.db, r)
	if err == errNoSession {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "sign in required")
		return
	}
	if err != nil {
		slog.Error("failed to resolve session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !acct.IsAdmin {
		middleware.ErrorResponse(w, http.StatusForbidden, "admin access required")
		return
	}

	voteID := r.PathValue("id")

	var projectID string
	err = h.db.QueryRow(`SELECT project_id FROM vote WHERE id = $1`, voteID).Scan(&projectID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Vote not found")
		return
	}
	if err != nil {
		slog.Error("failed to query vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if _, err := h.db.Exec(`DELETE FROM vote WHERE id = $1`, voteID); err != nil {
		slog.Error("failed to delete vote", "error", err, "vote_id", voteID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete vote")
		return
	}

	slog.Info("vote deleted", "vote_id", voteID, "admin_id", acct.ID)

	// Viewers get the corrected tally the same way they get new votes.
	if newCount, err := h.projectVoteCount(projectID); err == nil {
		var title string
		if err := h.db.QueryRow(`SELECT title FROM project WHERE id = $1`, projectID).Scan(&title); err == nil {
			h.cast.BroadcastToRoom(models.VotingRoom, ws.VoteAccepted{
				ProjectID:    projectID,
				ProjectTitle: title,
				NewVoteCount: newCount,
			})
		}
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "vote deleted"})
}
