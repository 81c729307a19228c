// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Show of Hands API server.

Show of Hands is a real-name project voting service: users submit projects,
cast a bounded number of votes, and watch live tallies pushed over a
websocket; administrators moderate projects and votes and toggle the
system-wide voting switch.

# Starting the Server

The server reads configuration from environment variables, a .env file, or
CLI flags:

	DATABASE_URL=./showofhands.db go run .

Or with flags:

	go run . -p 3324 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite path or PostgreSQL connection string

Optional settings:

  - PORT (-p): Server port (default: 3324)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - SESSION_HOURS: session lifetime (default: 72)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (accounts, projects, votes, system)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types and the vote-rejection error set
  - registry: Live-connection identity and room membership
  - ws: Websocket sessions, handshake, and event fan-out
  - auth: Password hashing and token generation
  - db: Schema creation
  - cliparse: Configuration parsing

The registry, hub, and broadcaster are constructed once in main and passed
by reference to the router; vote admission code only sees the broadcaster's
narrow interface, never transport internals.

See package documentation for each component.
*/
package main
