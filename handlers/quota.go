// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/makerfest/stallgen/cliparse"
	"github.com/makerfest/stallgen/middleware"
	"github.com/makerfest/stallgen/models"
)

type QuotaHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewQuotaHandler(db *sql.DB, cfg cliparse.Config) *QuotaHandler {
	return &QuotaHandler{db: db, cfg: cfg}
}

// Check handles GET /check-generation-limit/{stallNo}
// Returns the authoritative remaining/total/used counts for a stall
func (h *QuotaHandler) Check(w http.ResponseWriter, r *http.Request) {
	stallNo := r.PathValue("stallNo")
	if stallNo == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "stallNo is required")
		return
	}

	var total, used int
	err := h.db.QueryRow(`
		SELECT total_generations, used_generations FROM stall WHERE stall_no = $1
	`, stallNo).Scan(&total, &used)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "stall not registered")
		return
	}
	if err != nil {
		slog.Error("failed to query stall quota", "error", err, "stall_no", stallNo)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	remaining := total - used
	if remaining < 0 {
		remaining = 0
	}

	middleware.JSONResponse(w, http.StatusOK, models.QuotaResponse{
		RemainingGenerations: remaining,
		TotalGenerations:     total,
		UsedGenerations:      used,
	})
}
