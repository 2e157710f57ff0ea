// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package imagegen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images/generations" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Unexpected auth header %q", auth)
		}
		var req taskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.Prompt != "a glowing lantern" {
			t.Errorf("Unexpected prompt %q", req.Prompt)
		}
		json.NewEncoder(w).Encode(taskResponse{
			TaskID: "t-1",
			Status: "completed",
			Result: "https://cdn.example/lantern.png",
		})
	}))
	defer srv.Close()

	url, err := NewClient(srv.URL, "test-key").Generate(context.Background(), "a glowing lantern")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if url != "https://cdn.example/lantern.png" {
		t.Errorf("Unexpected URL %q", url)
	}
}

func TestGenerateFailedTask(t *testing.T) {
	tests := []struct {
		name string
		task taskResponse
	}{
		{"failed status", taskResponse{TaskID: "t-1", Status: "failed"}},
		{"completed without result", taskResponse{TaskID: "t-1", Status: "completed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(tt.task)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "").Generate(context.Background(), "prompt")
			if !errors.Is(err, ErrGenerationFailed) {
				t.Fatalf("Expected ErrGenerationFailed, got %v", err)
			}
		})
	}
}

func TestGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Expected error for 503 response")
	}
}
