// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the configured database. dbType is "sqlite" or
// "postgres"; for sqlite the URL is a file path (or ":memory:").
func Open(dbType, url string) (*sql.DB, error) {
	driver := "sqlite"
	if dbType == "postgres" {
		driver = "postgres"
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dbType, err)
	}

	if dbType == "sqlite" {
		// sqlite allows a single writer; serialize access through one
		// connection rather than surfacing SQLITE_BUSY to handlers.
		conn.SetMaxOpenConns(1)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is kept portable between sqlite and postgres: no engine-specific
// defaults, timestamps always written by the application.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Registered stalls
CREATE TABLE IF NOT EXISTS stall (
    stall_no TEXT PRIMARY KEY,
    project_name TEXT NOT NULL,
    total_generations INTEGER NOT NULL,
    used_generations INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL
);

-- Image generations
CREATE TABLE IF NOT EXISTS generation (
    id TEXT PRIMARY KEY,
    stall_no TEXT NOT NULL REFERENCES stall(stall_no) ON DELETE CASCADE,
    prompt TEXT NOT NULL,
    image_url TEXT NOT NULL,
    ip_hash TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_generation_stall_no ON generation(stall_no);
`
