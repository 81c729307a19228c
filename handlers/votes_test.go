// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/danielhkuo/show-of-hands/models"
	"github.com/danielhkuo/show-of-hands/testutil"
	"github.com/danielhkuo/show-of-hands/ws"
)

// fakeCaster records broadcasts so tests can assert on emitted events
// without a live websocket hub.
type fakeCaster struct {
	mu     sync.Mutex
	rooms  []string
	events []ws.Event
	reach  int
}

func (f *fakeCaster) BroadcastToRoom(room string, ev ws.Event) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms = append(f.rooms, room)
	f.events = append(f.events, ev)
	return f.reach
}

func (f *fakeCaster) recorded() ([]string, []ws.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.rooms...), append([]ws.Event(nil), f.events...)
}

func submitVote(h *VoteHandler, token, projectID string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("POST", "/votes", models.SubmitVoteRequest{
		ProjectID: projectID,
		Reason:    "great demo",
	}, map[string]string{"X-Session-Token": token})
	w := httptest.NewRecorder()
	h.SubmitVote(w, req)
	return w
}

func TestSubmitVoteAccepted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cast := &fakeCaster{reach: 2}
	handler := NewVoteHandler(db, cfg, cast)

	owner := testutil.CreateTestAccount(t, db, "Owner", "owner@example.com", "password123", false)
	voter := testutil.CreateTestAccount(t, db, "Ada", "ada@example.com", "password123", false)
	token := testutil.CreateTestSession(t, db, voter)
	projectID := testutil.CreateTestProject(t, db, "Demo Project", owner, false)

	w := submitVote(handler, token, projectID)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.SubmitVoteResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Vote.VoterID != voter || resp.Vote.ProjectID != projectID {
		t.Errorf("Unexpected vote: %+v", resp.Vote)
	}

	// Exactly one vote committed
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM vote WHERE project_id = $1`, projectID).Scan(&count); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 vote, got %d", count)
	}

	// Exactly one vote-update broadcast to the voting room
	rooms, events := cast.recorded()
	if len(events) != 1 || rooms[0] != models.VotingRoom {
		t.Fatalf("Expected 1 broadcast to %q, got rooms=%v", models.VotingRoom, rooms)
	}
	ev, ok := events[0].(ws.VoteAccepted)
	if !ok {
		t.Fatalf("Expected VoteAccepted event, got %T", events[0])
	}
	if ev.ProjectID != projectID || ev.NewVoteCount != 1 || ev.VoterName != "Ada" || ev.ProjectTitle != "Demo Project" {
		t.Errorf("Unexpected event payload: %+v", ev)
	}
}

func TestSubmitVoteTwiceIsRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cast := &fakeCaster{}
	handler := NewVoteHandler(db, cfg, cast)

	owner := testutil.CreateTestAccount(t, db, "Owner", "owner@example.com", "password123", false)
	voter := testutil.CreateTestAccount(t, db, "Ada", "ada@example.com", "password123", false)
	token := testutil.CreateTestSession(t, db, voter)
	projectID := testutil.CreateTestProject(t, db, "Demo Project", owner, false)

	testutil.AssertStatus(t, submitVote(handler, token, projectID), http.StatusCreated)

	w := submitVote(handler, token, projectID)
	testutil.AssertStatus(t, w, http.StatusConflict)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != models.ErrAlreadyVoted.Error() {
		t.Errorf("Expected %q, got %q", models.ErrAlreadyVoted.Error(), resp.Message)
	}

	// Count unchanged, no second broadcast
	var count int
	db.QueryRow(`SELECT COUNT(*) FROM vote WHERE project_id = $1`, projectID).Scan(&count)
	if count != 1 {
		t.Errorf("Expected 1 vote, got %d", count)
	}
	if _, events := cast.recorded(); len(events) != 1 {
		t.Errorf("Expected 1 broadcast, got %d", len(events))
	}
}

func TestSubmitVoteVotingDisabled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cast := &fakeCaster{}
	handler := NewVoteHandler(db, cfg, cast)

	admin := testutil.CreateTestAccount(t, db, "Admin", "admin@example.com", "password123", true)
	owner := testutil.CreateTestAccount(t, db, "Owner", "owner@example.com", "password123", false)
	voter := testutil.CreateTestAccount(t, db, "Ada", "ada@example.com", "password123", false)
	token := testutil.CreateTestSession(t, db, voter)
	projectID := testutil.CreateTestProject(t, db, "Demo Project", owner, false)

	testutil.SetVotingStatus(t, db, false, 3, admin)

	w := submitVote(handler, token, projectID)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != models.ErrVotingDisabled.Error() {
		t.Errorf("Expected %q, got %q", models.ErrVotingDisabled.Error(), resp.Message)
	}
	if _, events := cast.recorded(); len(events) != 0 {
		t.Error("No broadcast expected for a rejected vote")
	}
}

func TestSubmitVoteProjectUnavailable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVoteHandler(db, cfg, &fakeCaster{})

	owner := testutil.CreateTestAccount(t, db, "Owner", "owner@example.com", "password123", false)
	voter := testutil.CreateTestAccount(t, db, "Ada", "ada@example.com", "password123", false)
	token := testutil.CreateTestSession(t, db, voter)
	blockedID := testutil.CreateTestProject(t, db, "Blocked Project", owner, true)

	// Unknown project
	testutil.AssertStatus(t, submitVote(handler, token, "no-such-project"), http.StatusNotFound)

	// Blocked project gets the same rejection
	w := submitVote(handler, token, blockedID)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != models.ErrProjectUnavailable.Error() {
		t.Errorf("Expected %q, got %q", models.ErrProjectUnavailable.Error(), resp.Message)
	}
}

func TestSubmitVoteSelfVoteForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVoteHandler(db, cfg, &fakeCaster{})

	owner := testutil.CreateTestAccount(t, db, "Owner", "owner@example.com", "password123", false)
	member := testutil.CreateTestAccount(t, db, "Mate", "mate@example.com", "password123", false)
	ownerToken := testutil.CreateTestSession(t, db, owner)
	memberToken := testutil.CreateTestSession(t, db, member)
	projectID := testutil.CreateTestProject(t, db, "Demo Project", owner, false)
	testutil.AddTestMember(t, db, projectID, member)

	// Submitter
	w := submitVote(handler, ownerToken, projectID)
	testutil.AssertStatus(t, w, http.StatusForbidden)
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != models.ErrSelfVoteForbidden.Error() {
		t.Errorf("Expected %q, got %q", models.ErrSelfVoteForbidden.Error(), resp.Message)
	}

	// Team member
	testutil.AssertStatus(t, submitVote(handler, memberToken, projectID), http.StatusForbidden)
}

func TestSubmitVoteQuotaExceeded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVoteHandler(db, cfg, &fakeCaster{})

	voter := testutil.CreateTestAccount(t, db, "Ada", "ada@example.com", "password123", false)
	token := testutil.CreateTestSession(t, db, voter)

	// Default quota is 3: three sequential votes succeed, the fourth is
	// rejected
	var lastProject string
	for i := 0; i < 4; i++ {
		owner := testutil.CreateTestAccount(t, db, "Owner", "owner"+string(rune('0'+i))+"@example.com", "password123", false)
		lastProject = testutil.CreateTestProject(t, db, "Project", owner, false)
		w := submitVote(handler, token, lastProject)
		if i < 3 {
			testutil.AssertStatus(t, w, http.StatusCreated)
		} else {
			testutil.AssertStatus(t, w, http.StatusForbidden)
			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Message != models.ErrQuotaExceeded.Error() {
				t.Errorf("Expected %q, got %q", models.ErrQuotaExceeded.Error(), resp.Message)
			}
		}
	}

	var total int
	db.QueryRow(`SELECT COUNT(*) FROM vote WHERE voter_id = $1`, voter).Scan(&total)
	if total != 3 {
		t.Errorf("Expected 3 committed votes, got %d", total)
	}
}

func TestSubmitVoteRequiresSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVoteHandler(db, cfg, &fakeCaster{})

	req := testutil.MakeRequest("POST", "/votes", models.SubmitVoteRequest{ProjectID: "p1"}, nil)
	w := httptest.NewRecorder()
	handler.SubmitVote(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestDeleteVoteAdminOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cast := &fakeCaster{}
	handler := NewVoteHandler(db, cfg, cast)

	owner := testutil.CreateTestAccount(t, db, "Owner", "owner@example.com", "password123", false)
	voter := testutil.CreateTestAccount(t, db, "Ada", "ada@example.com", "password123", false)
	admin := testutil.CreateTestAccount(t, db, "Admin", "admin@example.com", "password123", true)
	voterToken := testutil.CreateTestSession(t, db, voter)
	adminToken := testutil.CreateTestSession(t, db, admin)
	projectID := testutil.CreateTestProject(t, db, "Demo Project", owner, false)
	voteID := testutil.CreateTestVote(t, db, voter, projectID)

	// Non-admin is refused
	req := testutil.MakeRequest("DELETE", "/votes/"+voteID, nil, map[string]string{"X-Session-Token": voterToken})
	req.SetPathValue("id", voteID)
	w := httptest.NewRecorder()
	handler.DeleteVote(w, req)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	// Admin deletes, tally broadcast reflects the deletion
	req = testutil.MakeRequest("DELETE", "/votes/"+voteID, nil, map[string]string{"X-Session-Token": adminToken})
	req.SetPathValue("id", voteID)
	w = httptest.NewRecorder()
	handler.DeleteVote(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var count int
	db.QueryRow(`SELECT COUNT(*) FROM vote WHERE project_id = $1`, projectID).Scan(&count)
	if count != 0 {
		t.Errorf("Expected 0 votes after deletion, got %d", count)
	}

	_, events := cast.recorded()
	if len(events) != 1 {
		t.Fatalf("Expected 1 broadcast, got %d", len(events))
	}
	if ev, ok := events[0].(ws.VoteAccepted); !ok || ev.NewVoteCount != 0 {
		t.Errorf("Expected tally broadcast with count 0, got %+v", events[0])
	}
}
