// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/show-of-hands/middleware"
	"github.com/danielhkuo/show-of-hands/models"
	"github.com/danielhkuo/show-of-hands/ws"
)

// caster is the slice of the broadcast layer handlers depend on. Tests
// substitute a recording fake; production wiring passes *ws.Broadcaster.
type caster interface {
	BroadcastToRoom(room string, ev ws.Event) int
}

var errNoSession = errors.New("missing or expired session")

// requireAccount resolves the X-Session-Token header to an account.
// Returns errNoSession for missing, unknown, or expired tokens.
func requireAccount(db *sql.DB, r *http.Request) (models.Account, error) {
	token := middleware.SessionToken(r)
	if token == "" {
		return models.Account{}, errNoSession
	}

	var acct models.Account
	var expiresAt time.Time
	err := db.QueryRow(`
		SELECT a.id, a.name, a.email, a.is_admin, a.created_at, s.expires_at
		FROM session s
		JOIN account a ON a.id = s.account_id
		WHERE s.token = $1
	`, token).Scan(&acct.ID, &acct.Name, &acct.Email, &acct.IsAdmin, &acct.CreatedAt, &expiresAt)

	if err == sql.ErrNoRows {
		return models.Account{}, errNoSession
	}
	if err != nil {
		return models.Account{}, err
	}
	if time.Now().After(expiresAt) {
		return models.Account{}, errNoSession
	}

	return acct, nil
}

// isUniqueViolation reports whether an insert lost a race on a UNIQUE
// constraint. Matches both drivers' error text (sqlite and pq).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
