// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth handles credential hashing and token generation.

# Identifiers

GenerateID creates random hex identifiers for database rows:

	voteID, err := auth.GenerateID(16)

# Session Tokens

GenerateSessionToken creates an opaque 192-bit token issued at sign-in:

	token, err := auth.GenerateSessionToken()

Tokens are stored in the session table and presented by clients in the
X-Session-Token header. The token itself carries no claims; identity and
admin role are resolved from the database on every request.

# Passwords

Passwords are hashed with bcrypt at the default cost:

	hash, err := auth.HashPassword(plaintext)
	err = auth.CheckPassword(hash, plaintext)

CheckPassword returns ErrInvalidCredentials on mismatch, so sign-in failures
never reveal whether the email or the password was wrong.

# Trust Boundary

This package backs the synchronous request surface only. The websocket
handshake (package ws) accepts identity claims without verification; that
identity is advisory and scopes broadcasts, it never authorizes a vote.
*/
package auth
