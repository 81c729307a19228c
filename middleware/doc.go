// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP helpers shared by all handlers.

# Request Logging

WithLogging wraps a handler with slog request/completion logging:

	mux.HandleFunc("POST /votes", middleware.WithLogging(voteHandler.SubmitVote))

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, payload)
	middleware.ErrorResponse(w, http.StatusNotFound, "project not found")
	err := middleware.ParseJSONBody(r, &req)

ErrorResponse always emits the models.ErrorResponse shape, so clients can
rely on {error, message} for every non-2xx status.

# Sessions

SessionToken reads the X-Session-Token header. Token resolution against the
session table happens in the handlers package, which owns the database handle.

# CORS

CORS is applied once around the whole mux and answers preflight requests.

# Client IPs

GetClientIP checks X-Forwarded-For and X-Real-IP before RemoteAddr.
*/
package middleware
