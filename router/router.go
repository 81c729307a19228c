// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/show-of-hands/cliparse"
	"github.com/danielhkuo/show-of-hands/handlers"
	"github.com/danielhkuo/show-of-hands/middleware"
	"github.com/danielhkuo/show-of-hands/registry"
	"github.com/danielhkuo/show-of-hands/ws"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, reg *registry.Registry, hub *ws.Hub, cast *ws.Broadcaster) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(db, cfg)
	projectHandler := handlers.NewProjectHandler(db, cfg)
	voteHandler := handlers.NewVoteHandler(db, cfg, cast)
	systemHandler := handlers.NewSystemHandler(db, cfg, cast)
	wsHandler := ws.NewHandler(hub, reg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts and sessions
	mux.HandleFunc("POST /accounts", middleware.WithLogging(accountHandler.SignUp))
	mux.HandleFunc("POST /sessions", middleware.WithLogging(accountHandler.SignIn))
	mux.HandleFunc("DELETE /sessions", middleware.WithLogging(accountHandler.SignOut))

	// Projects
	mux.HandleFunc("POST /projects", middleware.WithLogging(projectHandler.CreateProject))
	mux.HandleFunc("GET /projects", middleware.WithLogging(projectHandler.ListProjects))
	mux.HandleFunc("GET /projects/{id}", middleware.WithLogging(projectHandler.GetProject))
	mux.HandleFunc("POST /projects/{id}/members", middleware.WithLogging(projectHandler.AddMember))
	mux.HandleFunc("PATCH /projects/{id}/block", middleware.WithLogging(projectHandler.BlockProject))

	// Voting (synchronous request path; broadcasts ride the websocket)
	mux.HandleFunc("POST /votes", middleware.WithLogging(voteHandler.SubmitVote))
	mux.HandleFunc("DELETE /votes/{id}", middleware.WithLogging(voteHandler.DeleteVote))

	// System voting status
	mux.HandleFunc("GET /system/status", middleware.WithLogging(systemHandler.GetStatus))
	mux.HandleFunc("PATCH /system/voting", middleware.WithLogging(systemHandler.UpdateVoting))

	// Live updates
	mux.HandleFunc("GET /ws", wsHandler.Serve)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("show-of-hands API v1"))
	})

	return mux
}
