// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/makerfest/stallgen/cliparse"
	"github.com/makerfest/stallgen/db"
)

// SetupTestDB creates a fresh in-process sqlite database with the full
// schema. Each test gets its own database, so no cleanup or external
// service is needed.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         8000,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		UpstreamURL:  "http://upstream.invalid",
		QuotaTotal:   3,
		IPSalt:       "test-ip-salt",
	}
}

// CreateTestStall registers a stall directly in the database
func CreateTestStall(t *testing.T, conn *sql.DB, stallNo, projectName string, total, used int) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO stall (stall_no, project_name, total_generations, used_generations, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, stallNo, projectName, total, used, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test stall: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
