// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/makerfest/stallgen/cliparse"
	"github.com/makerfest/stallgen/middleware"
	"github.com/makerfest/stallgen/models"
)

type ExportHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewExportHandler(db *sql.DB, cfg cliparse.Config) *ExportHandler {
	return &ExportHandler{db: db, cfg: cfg}
}

// Registrations handles GET /api/registrations.csv
// Streams the registration table as CSV for the organizers
func (h *ExportHandler) Registrations(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT stall_no, project_name, total_generations, used_generations, created_at
		FROM stall
		ORDER BY created_at ASC
	`)
	if err != nil {
		slog.Error("failed to query registrations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="registrations.csv"`)

	cw := csv.NewWriter(w)
	// Header row mirrors the original organizer spreadsheet.
	if err := cw.Write([]string{"Timestamp", "Project_Name", "Stall_No", "Used", "Total"}); err != nil {
		slog.Error("failed to write CSV header", "error", err)
		return
	}

	for rows.Next() {
		var s models.Stall
		if err := rows.Scan(&s.StallNo, &s.ProjectName, &s.TotalGenerations, &s.UsedGenerations, &s.CreatedAt); err != nil {
			slog.Error("failed to scan stall", "error", err)
			return
		}
		record := []string{
			s.CreatedAt.Format(time.RFC3339),
			s.ProjectName,
			s.StallNo,
			strconv.Itoa(s.UsedGenerations),
			strconv.Itoa(s.TotalGenerations),
		}
		if err := cw.Write(record); err != nil {
			slog.Error("failed to write CSV record", "error", err)
			return
		}
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate registrations", "error", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.Error("failed to flush CSV", "error", err)
	}
}
