// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/makerfest/stallgen/models"
)

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       interface{}
		wantErr    error
		wantAPIErr bool
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   models.RegisterResponse{Success: true, Detail: "Registration saved successfully"},
		},
		{
			name:    "duplicate stall",
			status:  http.StatusBadRequest,
			body:    models.ErrorResponse{Detail: "stall number 12 is already registered"},
			wantErr: ErrStallTaken,
		},
		{
			name:       "other bad request",
			status:     http.StatusBadRequest,
			body:       models.ErrorResponse{Detail: "registration closed"},
			wantAPIErr: true,
		},
		{
			name:    "malformed input",
			status:  http.StatusUnprocessableEntity,
			body:    models.ErrorResponse{Detail: "projectName and stallNo are required"},
			wantErr: ErrMalformedInput,
		},
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       models.ErrorResponse{Detail: "Database error"},
			wantAPIErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/register" {
					t.Errorf("Unexpected path %s", r.URL.Path)
				}
				var req models.RegisterRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("Failed to decode request: %v", err)
				}
				if req.ProjectName != "Glow" || req.StallNo != "12" {
					t.Errorf("Unexpected request body: %+v", req)
				}
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(tt.body)
			}))
			defer srv.Close()

			err := New(srv.URL).Register(context.Background(), "Glow", "12")

			if tt.wantErr == nil && !tt.wantAPIErr {
				if err != nil {
					t.Fatalf("Expected success, got %v", err)
				}
				return
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantAPIErr {
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("Expected *APIError, got %v", err)
				}
				if apiErr.StatusCode != tt.status {
					t.Errorf("Expected status %d in error, got %d", tt.status, apiErr.StatusCode)
				}
			}
		})
	}
}

func TestRegisterKeepsServerDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse{Detail: "stall number 12 is already registered"})
	}))
	defer srv.Close()

	err := New(srv.URL).Register(context.Background(), "Glow", "12")
	if !errors.Is(err, ErrStallTaken) {
		t.Fatalf("Expected ErrStallTaken, got %v", err)
	}
	// The wrapped error must keep the server's message
	if !strings.Contains(err.Error(), "stall number 12 is already registered") {
		t.Errorf("Detail lost from error: %q", err.Error())
	}
}

func TestCheckQuota(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/check-generation-limit/12" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(models.QuotaResponse{
			RemainingGenerations: 2,
			TotalGenerations:     3,
			UsedGenerations:      1,
		})
	}))
	defer srv.Close()

	quota, err := New(srv.URL).CheckQuota(context.Background(), "12")
	if err != nil {
		t.Fatalf("CheckQuota failed: %v", err)
	}
	if quota.RemainingGenerations != 2 || quota.TotalGenerations != 3 || quota.UsedGenerations != 1 {
		t.Errorf("Unexpected quota: %+v", quota)
	}
}

func TestCheckQuotaFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(models.ErrorResponse{Detail: "stall not registered"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).CheckQuota(context.Background(), "99")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Detail != "stall not registered" {
		t.Errorf("Unexpected error: %+v", apiErr)
	}
}

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate-image" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var req models.GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.Prompt != "a glowing lantern" || req.StallNo != "12" {
			t.Errorf("Unexpected request body: %+v", req)
		}
		json.NewEncoder(w).Encode(models.GenerateResponse{
			Success:              true,
			ImageURL:             "https://cdn/x.png",
			RemainingGenerations: 2,
		})
	}))
	defer srv.Close()

	resp, err := New(srv.URL).Generate(context.Background(), "12", "a glowing lantern")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if resp.ImageURL != "https://cdn/x.png" || resp.RemainingGenerations != 2 {
		t.Errorf("Unexpected response: %+v", resp)
	}
}

func TestGenerateErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		detail  string
		wantErr error
	}{
		{"quota exceeded", http.StatusTooManyRequests, "generation limit of 3 reached for this stall", ErrQuotaExceeded},
		{"quota exceeded no detail", http.StatusTooManyRequests, "", ErrQuotaExceeded},
		{"malformed", http.StatusUnprocessableEntity, "prompt and stallNo are required", ErrMalformedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(models.ErrorResponse{Detail: tt.detail})
			}))
			defer srv.Close()

			_, err := New(srv.URL).Generate(context.Background(), "12", "prompt")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGenerateGenericFailureCarriesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(models.ErrorResponse{Detail: "Image generation failed. Please try again."})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Generate(context.Background(), "12", "prompt")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %v", err)
	}
	if apiErr.Detail != "Image generation failed. Please try again." {
		t.Errorf("Detail lost: %+v", apiErr)
	}
}
