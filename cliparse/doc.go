// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration parsing for both binaries.

CLI flags take precedence, then environment variables, then defaults.
Secrets (UPSTREAM_KEY, IP_SALT) should come from the environment; the
flags exist for local development only.

# Server Configuration

  - PORT (-p): listen port (default: 8000)
  - DATABASE_URL (-d): connection string, required
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - UPSTREAM_URL (-upstream): image generation service base URL, required
  - UPSTREAM_KEY (-upstream-key): image service API key
  - QUOTA_TOTAL (-quota): generations allowed per stall (default: 3)
  - IP_SALT (-ip-salt): secret for submission IP hashing, required

# Kiosk Configuration

  - STALLGEN_SERVER (-server): API base URL (default: http://localhost:8000)
  - STALLGEN_STATE_DIR (-state-dir): where the stall identity is persisted
    (default: the user config directory)
*/
package cliparse
