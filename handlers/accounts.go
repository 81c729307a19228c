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

type AccountHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAccountHandler(db *sql.DB, cfg cliparse.Config) *AccountHandler {
	return &AccountHandler{db: db, cfg: cfg}
}

// SignUp handles POST /accounts
func (h *AccountHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if len(req.Name) < 2 || len(req.Name) > 80 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name must be 2-80 characters")
		return
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		middleware.ErrorResponse(w, http.StatusBadRequest, "valid email is required")
		return
	}
	if len(req.Password) < 8 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	accountID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate account id", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}
	_, err = h.db.Exec(`
		INSERT INTO account (id, name, email, password_hash, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, accountID, req.Name, req.Email, hash, false, time.Now())

	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Email already registered")
			return
		}
		slog.Error("failed to insert account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	slog.Info("account created", "account_id", accountID)

	middleware.JSONResponse(w, http.StatusCreated, models.SignUpResponse{
		AccountID: accountID,
	})
}

// SignIn handles POST /sessions
func (h *AccountHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	var accountID, name, passwordHash string
	var isAdmin bool
	err := h.db.QueryRow(`
		SELECT id, name, password_hash, is_admin FROM account WHERE email = $1
	`, req.Email).Scan(&accountID, &name, &passwordHash, &isAdmin)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}
	if err != nil {
		slog.Error("failed to query account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.CheckPassword(passwordHash, req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		slog.Error("failed to generate session token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	now := time.Now()
	_, err = h.db.Exec(`
		INSERT INTO session (token, account_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`, token, accountID, now, now.Add(time.Duration(h.cfg.SessionHours)*time.Hour))

	if err != nil {
		slog.Error("failed to insert session", "error", err, "account_id", accountID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	slog.Info("signed in", "account_id", accountID)

	middleware.JSONResponse(w, http.StatusOK, models.SignInResponse{
		SessionToken: token,
		AccountID:    accountID,
		Name:         name,
		IsAdmin:      isAdmin,
	})
}

// SignOut handles DELETE /sessions
func (h *AccountHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token := middleware.SessionToken(r)
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Session-Token header required")
		return
	}

	if _, err := h.db.Exec(`DELETE FROM session WHERE token = $1`, token); err != nil {
		slog.Error("failed to delete session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign out")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "signed out"})
}
