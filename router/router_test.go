// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/makerfest/stallgen/models"
	"github.com/makerfest/stallgen/testutil"
)

type stubGen struct{}

func (stubGen) Generate(ctx context.Context, prompt string) (string, error) {
	return "https://cdn.example/img.png", nil
}

func TestRoutes(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(conn, cfg, stubGen{})

	testutil.CreateTestStall(t, conn, "12", "Glow", 3, 0)

	tests := []struct {
		name           string
		method         string
		path           string
		body           interface{}
		expectedStatus int
	}{
		{"health check", "GET", "/health", nil, 200},
		{"root", "GET", "/", nil, 200},
		{"register", "POST", "/api/register", models.RegisterRequest{ProjectName: "Spark", StallNo: "34"}, 200},
		{"quota check", "GET", "/check-generation-limit/12", nil, 200},
		{"generate", "POST", "/generate-image", models.GenerateRequest{StallNo: "12", Prompt: "a lantern"}, 200},
		{"export", "GET", "/api/registrations.csv", nil, 200},
		{"wrong method on register", "GET", "/api/register", nil, 405},
		{"wrong method on generate", "GET", "/generate-image", nil, 405},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest(tt.method, tt.path, tt.body, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}
