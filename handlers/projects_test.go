// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/show-of-hands/models"
	"github.com/danielhkuo/show-of-hands/testutil"
)

func TestCreateAndGetProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewProjectHandler(db, cfg)

	owner := testutil.CreateTestAccount(t, db, "Owner", "owner@example.com", "password123", false)
	token := testutil.CreateTestSession(t, db, owner)

	req := testutil.MakeRequest("POST", "/projects", models.CreateProjectRequest{
		Title: "Demo Project", Description: "live tallies",
	}, map[string]string{"X-Session-Token": token})
	w := httptest.NewRecorder()
	handler.CreateProject(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created models.CreateProjectResponse
	testutil.AssertJSON(t, w, &created)

	req = testutil.MakeRequest("GET", "/projects/"+created.ProjectID, nil, nil)
	req.SetPathValue("id", created.ProjectID)
	w = httptest.NewRecorder()
	handler.GetProject(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var project models.Project
	testutil.AssertJSON(t, w, &project)
	if project.Title != "Demo Project" || project.SubmitterID != owner || project.VoteCount != 0 {
		t.Errorf("Unexpected project: %+v", project)
	}
}

func TestCreateProjectRequiresSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewProjectHandler(db, cfg)

	req := testutil.MakeRequest("POST", "/projects", models.CreateProjectRequest{Title: "Demo"}, nil)
	w := httptest.NewRecorder()
	handler.CreateProject(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestListProjectsIncludesLiveVoteCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewProjectHandler(db, cfg)

	owner := testutil.CreateTestAccount(t, db, "Owner", "owner@example.com", "password123", false)
	v1 := testutil.CreateTestAccount(t, db, "V1", "v1@example.com", "password123", false)
	v2 := testutil.CreateTestAccount(t, db, "V2", "v2@example.com", "password123", false)
	projectID := testutil.CreateTestProject(t, db, "Demo Project", owner, false)
	testutil.CreateTestVote(t, db, v1, projectID)
	testutil.CreateTestVote(t, db, v2, projectID)

	req := testutil.MakeRequest("GET", "/projects", nil, nil)
	w := httptest.NewRecorder()
	handler.ListProjects(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var projects []models.Project
	testutil.AssertJSON(t, w, &projects)
	if len(projects) != 1 || projects[0].VoteCount != 2 {
		t.Errorf("Expected one project with 2 votes, got %+v", projects)
	}
}

func TestAddMemberSubmitterOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewProjectHandler(db, cfg)

	owner := testutil.CreateTestAccount(t, db, "Owner", "owner@example.com", "password123", false)
	mate := testutil.CreateTestAccount(t, db, "Mate", "mate@example.com", "password123", false)
	stranger := testutil.CreateTestAccount(t, db, "Stranger", "stranger@example.com", "password123", false)
	ownerToken := testutil.CreateTestSession(t, db, owner)
	strangerToken := testutil.CreateTestSession(t, db, stranger)
	projectID := testutil.CreateTestProject(t, db, "Demo Project", owner, false)

	// Non-submitter is refused
	req := testutil.MakeRequest("POST", "/projects/"+projectID+"/members", models.AddMemberRequest{
		AccountID: mate,
	}, map[string]string{"X-Session-Token": strangerToken})
	req.SetPathValue("id", projectID)
	w := httptest.NewRecorder()
	handler.AddMember(w, req)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	// Submitter adds the member
	req = testutil.MakeRequest("POST", "/projects/"+projectID+"/members", models.AddMemberRequest{
		AccountID: mate,
	}, map[string]string{"X-Session-Token": ownerToken})
	req.SetPathValue("id", projectID)
	w = httptest.NewRecorder()
	handler.AddMember(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var isMember bool
	db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM project_member WHERE project_id = $1 AND account_id = $2)
	`, projectID, mate).Scan(&isMember)
	if !isMember {
		t.Error("Expected member row to exist")
	}
}

func TestBlockProjectAdminOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewProjectHandler(db, cfg)

	owner := testutil.CreateTestAccount(t, db, "Owner", "owner@example.com", "password123", false)
	admin := testutil.CreateTestAccount(t, db, "Admin", "admin@example.com", "password123", true)
	ownerToken := testutil.CreateTestSession(t, db, owner)
	adminToken := testutil.CreateTestSession(t, db, admin)
	projectID := testutil.CreateTestProject(t, db, "Demo Project", owner, false)

	req := testutil.MakeRequest("PATCH", "/projects/"+projectID+"/block", models.BlockProjectRequest{
		Blocked: true,
	}, map[string]string{"X-Session-Token": ownerToken})
	req.SetPathValue("id", projectID)
	w := httptest.NewRecorder()
	handler.BlockProject(w, req)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	req = testutil.MakeRequest("PATCH", "/projects/"+projectID+"/block", models.BlockProjectRequest{
		Blocked: true,
	}, map[string]string{"X-Session-Token": adminToken})
	req.SetPathValue("id", projectID)
	w = httptest.NewRecorder()
	handler.BlockProject(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var blocked bool
	db.QueryRow(`SELECT blocked FROM project WHERE id = $1`, projectID).Scan(&blocked)
	if !blocked {
		t.Error("Expected project to be blocked")
	}
}
