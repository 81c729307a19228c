// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3324)
  - DatabaseURL: sqlite path or PostgreSQL connection string (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - SessionHours: session lifetime in hours (default: 72)

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type
	--session-hours Session lifetime

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	SESSION_HOURS → --session-hours

CLI flags take precedence over environment variables. main loads a .env file
(via godotenv) before parsing, so a local .env feeds the same fallbacks.

# Validation

ParseFlags returns an error if required values are missing or malformed:

  - DATABASE_URL must be provided
  - DATABASE_TYPE must be sqlite or postgres
  - SESSION_HOURS must be at least 1

# Example

	// In main.go
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open(cfg.DriverName(), cfg.DatabaseURL)
	// ...
	mux := router.NewRouter(db, cfg, cast)
*/
package cliparse
