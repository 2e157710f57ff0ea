// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import "testing"

func TestGenerateID(t *testing.T) {
	id, err := GenerateID(16)
	if err != nil {
		t.Fatalf("GenerateID failed: %v", err)
	}
	if len(id) != 32 {
		t.Errorf("Expected 32 hex chars, got %d", len(id))
	}

	other, _ := GenerateID(16)
	if id == other {
		t.Error("Two generated IDs collided")
	}
}

func TestHashIP(t *testing.T) {
	a := HashIP("203.0.113.5", "salt-one")
	b := HashIP("203.0.113.5", "salt-one")
	if a != b {
		t.Error("Same input must hash identically")
	}
	if len(a) != 16 {
		t.Errorf("Expected 16 hex chars, got %d", len(a))
	}

	if HashIP("203.0.113.5", "salt-two") == a {
		t.Error("Different salts must produce different hashes")
	}
	if HashIP("203.0.113.6", "salt-one") == a {
		t.Error("Different IPs must produce different hashes")
	}
}
