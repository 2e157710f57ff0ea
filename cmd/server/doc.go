// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the competition API server.

The server owns the canonical stall→quota mapping for the AI image
generation competition: stalls register once, then submit prompts that
are forwarded to an external text-to-image model, each submission
consuming one slot of a fixed per-stall allowance.

# Starting the Server

The server reads configuration from a .env file, the environment, or
CLI flags:

	DATABASE_URL=stallgen.db UPSTREAM_URL=https://images.example IP_SALT=... go run ./cmd/server

Or with flags:

	go run ./cmd/server -p 8000 -d stallgen.db -upstream https://images.example -ip-salt dev

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite file path or postgres connection string
  - UPSTREAM_URL (-upstream): image generation service base URL
  - IP_SALT (-ip-salt): secret for submission IP hashing

Optional settings:

  - PORT (-p): server port (default: 8000)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - UPSTREAM_KEY (-upstream-key): image service API key
  - QUOTA_TOTAL (-quota): generations per stall (default: 3)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (register, quota, generate, export)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - imagegen: upstream text-to-image client
  - auth: ID generation and IP hashing
  - db: connection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
