// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/makerfest/stallgen/cliparse"
	"github.com/makerfest/stallgen/handlers"
	"github.com/makerfest/stallgen/imagegen"
	"github.com/makerfest/stallgen/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, gen imagegen.Generator) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	registrationHandler := handlers.NewRegistrationHandler(db, cfg)
	quotaHandler := handlers.NewQuotaHandler(db, cfg)
	generateHandler := handlers.NewGenerateHandler(db, cfg, gen)
	exportHandler := handlers.NewExportHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Registration
	mux.HandleFunc("POST /api/register", middleware.WithLogging(registrationHandler.Register))

	// Quota checks
	mux.HandleFunc("GET /check-generation-limit/{stallNo}", middleware.WithLogging(quotaHandler.Check))

	// Image generation
	mux.HandleFunc("POST /generate-image", middleware.WithLogging(generateHandler.Generate))

	// Organizer export
	mux.HandleFunc("GET /api/registrations.csv", middleware.WithLogging(exportHandler.Registrations))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("stallgen API v1"))
	})

	return mux
}
