// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
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

// SystemHandler owns the global voting toggle and per-voter quota.
type SystemHandler struct {
	db   *sql.DB
	cfg  cliparse.Config
	cast caster
}

func NewSystemHandler(db *sql.DB, cfg cliparse.Config, cast caster) *SystemHandler {
	return &SystemHandler{db: db, cfg: cfg, cast: cast}
}

// currentStatus returns the latest voting_status record, or the hardcoded
// default (enabled, quota 3) when the log is empty. The log is append-only,
// so "current" is simply the newest row.
func currentStatus(db *sql.DB) (models.VotingStatus, error) {
	var s models.VotingStatus
	err := db.QueryRow(`
		SELECT id, is_voting_enabled, max_votes_per_user, updated_by, updated_at
		FROM voting_status
		ORDER BY updated_at DESC, id DESC
		LIMIT 1
	`).Scan(&s.ID, &s.IsVotingEnabled, &s.MaxVotesPerUser, &s.UpdatedBy, &s.UpdatedAt)

	if err == sql.ErrNoRows {
		return models.VotingStatus{
			IsVotingEnabled: models.DefaultVotingEnabled,
			MaxVotesPerUser: models.DefaultMaxVotesPerUser,
		}, nil
	}
	if err != nil {
		return models.VotingStatus{}, fmt.Errorf("failed to query voting status: %w", err)
	}
	return s, nil
}

// GetStatus handles GET /system/status (public)
func (h *SystemHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := currentStatus(h.db)
	if err != nil {
		slog.Error("failed to read system status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SystemStatusResponse{
		IsVotingEnabled: status.IsVotingEnabled,
		MaxVotesPerUser: status.MaxVotesPerUser,
		LastUpdated:     status.UpdatedAt,
	})
}

// UpdateVoting handles PATCH /system/voting (admin only). Appends a new
// status record rather than mutating prior ones, so the log doubles as an
// audit trail, then pushes the change to the voting room.
func (h *SystemHandler) UpdateVoting(w http.ResponseWriter, r *http.Request) {
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

	var req models.UpdateVotingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.MaxVotesPerUser < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidQuota.Error())
		return
	}

	statusID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate status id", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update voting status")
		return
	}
	now := time.Now()
	_, err = h.db.Exec(`
		INSERT INTO voting_status (id, is_voting_enabled, max_votes_per_user, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, statusID, req.IsVotingEnabled, req.MaxVotesPerUser, acct.ID, now)

	if err != nil {
		slog.Error("failed to insert voting status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update voting status")
		return
	}

	slog.Info("voting status updated",
		"is_voting_enabled", req.IsVotingEnabled,
		"max_votes_per_user", req.MaxVotesPerUser,
		"admin_id", acct.ID,
	)

	// Best-effort push to viewers; the status row is already committed.
	reached := h.cast.BroadcastToRoom(models.VotingRoom, ws.SystemStatusChanged{
		IsVotingEnabled: req.IsVotingEnabled,
		MaxVotesPerUser: req.MaxVotesPerUser,
	})

	middleware.JSONResponse(w, http.StatusOK, models.UpdateVotingResponse{
		IsVotingEnabled: req.IsVotingEnabled,
		MaxVotesPerUser: req.MaxVotesPerUser,
		UpdatedAt:       now,
		UpdatedBy:       acct.ID,
		BroadcastCount:  reached,
	})
}
