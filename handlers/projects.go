// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/show-of-hands/auth"
	"github.com/danielhkuo/show-of-hands/cliparse"
	"github.com/danielhkuo/show-of-hands/middleware"
	"github.com/danielhkuo/show-of-hands/models"
)

type ProjectHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewProjectHandler(db *sql.DB, cfg cliparse.Config) *ProjectHandler {
	return &ProjectHandler{db: db, cfg: cfg}
}

// CreateProject handles POST /projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
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

	var req models.CreateProjectRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if len(req.Title) < 2 || len(req.Title) > 120 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title must be 2-120 characters")
		return
	}

	projectID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate project id", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create project")
		return
	}
	_, err = h.db.Exec(`
		INSERT INTO project (id, title, description, submitter_id, blocked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, projectID, req.Title, req.Description, acct.ID, false, time.Now())

	if err != nil {
		slog.Error("failed to insert project", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create project")
		return
	}

	slog.Info("project created", "project_id", projectID, "submitter_id", acct.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateProjectResponse{
		ProjectID: projectID,
	})
}

// ListProjects handles GET /projects. Vote counts are read live from the
// vote table so admin deletions show up on the next read.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT p.id, p.title, p.description, p.submitter_id, p.blocked, p.created_at,
		       (SELECT COUNT(*) FROM vote v WHERE v.project_id = p.id)
		FROM project p
		ORDER BY p.created_at
	`)
	if err != nil {
		slog.Error("failed to query projects", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	projects := make([]models.Project, 0)
	for rows.Next() {
		var p models.Project
		var description sql.NullString
		if err := rows.Scan(&p.ID, &p.Title, &description, &p.SubmitterID, &p.Blocked, &p.CreatedAt, &p.VoteCount); err != nil {
			slog.Error("failed to scan project", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		p.Description = description.String
		projects = append(projects, p)
	}

	middleware.JSONResponse(w, http.StatusOK, projects)
}

// GetProject handles GET /projects/{id}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	var p models.Project
	var description sql.NullString
	err := h.db.QueryRow(`
		SELECT p.id, p.title, p.description, p.submitter_id, p.blocked, p.created_at,
		       (SELECT COUNT(*) FROM vote v WHERE v.project_id = p.id)
		FROM project p
		WHERE p.id = $1
	`, projectID).Scan(&p.ID, &p.Title, &description, &p.SubmitterID, &p.Blocked, &p.CreatedAt, &p.VoteCount)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Project not found")
		return
	}
	if err != nil {
		slog.Error("failed to query project", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	p.Description = description.String

	middleware.JSONResponse(w, http.StatusOK, p)
}

// AddMember handles POST /projects/{id}/members. Only the submitter may add
// team members; membership feeds the self-vote check.
func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
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

	projectID := r.PathValue("id")

	var req models.AddMemberRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil || req.AccountID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "account_id is required")
		return
	}

	var submitterID string
	err = h.db.QueryRow(`SELECT submitter_id FROM project WHERE id = $1`, projectID).Scan(&submitterID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Project not found")
		return
	}
	if err != nil {
		slog.Error("failed to query project", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if submitterID != acct.ID {
		middleware.ErrorResponse(w, http.StatusForbidden, "only the submitter can add team members")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO project_member (project_id, account_id, added_at)
		VALUES ($1, $2, $3)
	`, projectID, req.AccountID, time.Now())

	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Already a team member")
			return
		}
		slog.Error("failed to insert project member", "error", err, "project_id", projectID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add member")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, map[string]string{"message": "member added"})
}

// BlockProject handles PATCH /projects/{id}/block (admin only). Blocked
// projects are rejected at vote admission with ProjectUnavailable.
func (h *ProjectHandler) BlockProject(w http.ResponseWriter, r *http.Request) {
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

	projectID := r.PathValue("id")

	var req models.BlockProjectRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	res, err := h.db.Exec(`UPDATE project SET blocked = $1 WHERE id = $2`, req.Blocked, projectID)
	if err != nil {
		slog.Error("failed to update project", "error", err, "project_id", projectID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update project")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Project not found")
		return
	}

	slog.Info("project block flag updated", "project_id", projectID, "blocked", req.Blocked, "admin_id", acct.ID)

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"project_id": projectID,
		"blocked":    req.Blocked,
	})
}
