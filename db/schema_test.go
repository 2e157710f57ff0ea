// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"testing"
	"time"
)

func TestCreateSchema(t *testing.T) {
	conn, err := Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer conn.Close()

	if err := CreateSchema(conn); err != nil {
		t.Fatalf("CreateSchema failed: %v", err)
	}

	// Schema creation is idempotent
	if err := CreateSchema(conn); err != nil {
		t.Fatalf("Second CreateSchema failed: %v", err)
	}

	// Both tables accept writes and the foreign key links them
	_, err = conn.Exec(`
		INSERT INTO stall (stall_no, project_name, total_generations, used_generations, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, "12", "Glow", 3, 0, time.Now())
	if err != nil {
		t.Fatalf("Failed to insert stall: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO generation (id, stall_no, prompt, image_url, ip_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, "gen-1", "12", "a lantern", "https://cdn.example/x.png", "abcd1234abcd1234", time.Now())
	if err != nil {
		t.Fatalf("Failed to insert generation: %v", err)
	}
}
