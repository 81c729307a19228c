// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/show-of-hands/auth"
	"github.com/danielhkuo/show-of-hands/cliparse"
	"github.com/danielhkuo/show-of-hands/db"
)

// SetupTestDB creates a fresh in-memory sqlite database with the full schema.
// A single connection keeps the in-memory database alive and shared across
// the test's goroutines.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3324,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		SessionHours: 72,
	}
}

// CreateTestAccount inserts an account and returns its ID. Passwords are
// hashed at bcrypt.MinCost to keep the suite fast.
func CreateTestAccount(t *testing.T, conn *sql.DB, name, email, password string, isAdmin bool) string {
	t.Helper()

	accountID, _ := auth.GenerateID(16)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO account (id, name, email, password_hash, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, accountID, name, email, string(hash), isAdmin, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return accountID
}

// CreateTestSession issues a session token for an account
func CreateTestSession(t *testing.T, conn *sql.DB, accountID string) string {
	t.Helper()

	token, _ := auth.GenerateSessionToken()
	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO session (token, account_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`, token, accountID, now, now.Add(72*time.Hour))
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return token
}

// CreateTestProject inserts a project and returns its ID
func CreateTestProject(t *testing.T, conn *sql.DB, title, submitterID string, blocked bool) string {
	t.Helper()

	projectID, _ := auth.GenerateID(16)
	_, err := conn.Exec(`
		INSERT INTO project (id, title, description, submitter_id, blocked, created_at)
		VALUES ($1, $2, 'A test project', $3, $4, $5)
	`, projectID, title, submitterID, blocked, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}

	return projectID
}

// AddTestMember links an account to a project's team
func AddTestMember(t *testing.T, conn *sql.DB, projectID, accountID string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO project_member (project_id, account_id, added_at)
		VALUES ($1, $2, $3)
	`, projectID, accountID, time.Now())
	if err != nil {
		t.Fatalf("Failed to add test member: %v", err)
	}
}

// CreateTestVote inserts a committed vote and returns its ID
func CreateTestVote(t *testing.T, conn *sql.DB, voterID, projectID string) string {
	t.Helper()

	voteID, _ := auth.GenerateID(16)
	_, err := conn.Exec(`
		INSERT INTO vote (id, voter_id, project_id, reason, created_at)
		VALUES ($1, $2, $3, 'test vote', $4)
	`, voteID, voterID, projectID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	return voteID
}

// SetVotingStatus appends a status record to the voting_status log
func SetVotingStatus(t *testing.T, conn *sql.DB, enabled bool, quota int, adminID string) {
	t.Helper()

	statusID, _ := auth.GenerateID(16)
	_, err := conn.Exec(`
		INSERT INTO voting_status (id, is_voting_enabled, max_votes_per_user, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, statusID, enabled, quota, adminID, time.Now())
	if err != nil {
		t.Fatalf("Failed to set voting status: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
