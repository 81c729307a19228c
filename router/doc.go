// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines all HTTP routes using Go 1.22+ method routing.

# Routes

Accounts and sessions:

	POST   /accounts  → SignUp
	POST   /sessions  → SignIn (issues X-Session-Token)
	DELETE /sessions  → SignOut

Projects:

	POST  /projects              → CreateProject (authenticated)
	GET   /projects              → ListProjects (public, live vote counts)
	GET   /projects/{id}         → GetProject
	POST  /projects/{id}/members → AddMember (submitter only)
	PATCH /projects/{id}/block   → BlockProject (admin)

Voting:

	POST   /votes      → SubmitVote (authenticated)
	DELETE /votes/{id} → DeleteVote (admin)

System status:

	GET   /system/status → GetStatus (public)
	PATCH /system/voting → UpdateVoting (admin)

Live updates:

	GET /ws → websocket upgrade (see package ws for the message protocol)

All routes except /ws and /health are wrapped with request logging. The
websocket route skips WithLogging because the connection outlives the
request.
*/
package router
