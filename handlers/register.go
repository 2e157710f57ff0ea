// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/makerfest/stallgen/cliparse"
	"github.com/makerfest/stallgen/middleware"
	"github.com/makerfest/stallgen/models"
)

type RegistrationHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewRegistrationHandler(db *sql.DB, cfg cliparse.Config) *RegistrationHandler {
	return &RegistrationHandler{db: db, cfg: cfg}
}

// Register handles POST /api/register
// Registers a stall with its project name and assigns the generation allowance
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Invalid JSON")
		return
	}

	req.ProjectName = strings.TrimSpace(req.ProjectName)
	req.StallNo = strings.TrimSpace(req.StallNo)

	// Validate input
	if req.ProjectName == "" || req.StallNo == "" {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "projectName and stallNo are required")
		return
	}

	// Check if the stall is already taken
	var existing string
	err := h.db.QueryRow(`
		SELECT stall_no FROM stall WHERE stall_no = $1
	`, req.StallNo).Scan(&existing)

	if err == nil {
		// Duplicate registration. The detail must mention "stall" - the
		// front end keys the field-level error off that substring.
		middleware.ErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("stall number %s is already registered", req.StallNo))
		return
	}

	if err != sql.ErrNoRows {
		slog.Error("failed to query stall", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO stall (stall_no, project_name, total_generations, used_generations, created_at)
		VALUES ($1, $2, $3, 0, $4)
	`, req.StallNo, req.ProjectName, h.cfg.QuotaTotal, time.Now())

	if err != nil {
		slog.Error("failed to insert stall", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register stall")
		return
	}

	slog.Info("stall registered", "stall_no", req.StallNo, "project", req.ProjectName)

	middleware.JSONResponse(w, http.StatusOK, models.RegisterResponse{
		Success: true,
		Detail:  "Registration saved successfully",
	})
}
