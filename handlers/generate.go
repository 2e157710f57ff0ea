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

	"github.com/google/uuid"

	"github.com/makerfest/stallgen/auth"
	"github.com/makerfest/stallgen/cliparse"
	"github.com/makerfest/stallgen/imagegen"
	"github.com/makerfest/stallgen/middleware"
	"github.com/makerfest/stallgen/models"
)

type GenerateHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	gen imagegen.Generator
}

func NewGenerateHandler(db *sql.DB, cfg cliparse.Config, gen imagegen.Generator) *GenerateHandler {
	return &GenerateHandler{db: db, cfg: cfg, gen: gen}
}

// Generate handles POST /generate-image
// Consumes one generation slot, calls the image model, and records the result.
// Quota enforcement is a single conditional UPDATE so two racing requests
// cannot both take the last slot.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Invalid JSON")
		return
	}

	req.Prompt = strings.TrimSpace(req.Prompt)
	req.StallNo = strings.TrimSpace(req.StallNo)

	if req.Prompt == "" || req.StallNo == "" {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "prompt and stallNo are required")
		return
	}

	// Reserve a slot. RowsAffected == 0 means either an unknown stall or
	// an exhausted one; a follow-up read tells them apart.
	res, err := h.db.Exec(`
		UPDATE stall SET used_generations = used_generations + 1
		WHERE stall_no = $1 AND used_generations < total_generations
	`, req.StallNo)
	if err != nil {
		slog.Error("failed to reserve generation slot", "error", err, "stall_no", req.StallNo)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if affected == 0 {
		var total int
		err := h.db.QueryRow(`
			SELECT total_generations FROM stall WHERE stall_no = $1
		`, req.StallNo).Scan(&total)

		if err == sql.ErrNoRows {
			middleware.ErrorResponse(w, http.StatusBadRequest, "stall not registered")
			return
		}
		if err != nil {
			slog.Error("failed to query stall", "error", err, "stall_no", req.StallNo)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		slog.Info("generation refused, quota exhausted", "stall_no", req.StallNo, "total", total)
		middleware.ErrorResponse(w, http.StatusTooManyRequests,
			fmt.Sprintf("generation limit of %d reached for this stall", total))
		return
	}

	imageURL, err := h.gen.Generate(r.Context(), req.Prompt)
	if err != nil {
		// Give the reserved slot back - the participant got nothing for it.
		if _, rbErr := h.db.Exec(`
			UPDATE stall SET used_generations = used_generations - 1 WHERE stall_no = $1
		`, req.StallNo); rbErr != nil {
			slog.Error("failed to release generation slot", "error", rbErr, "stall_no", req.StallNo)
		}

		slog.Error("image generation failed", "error", err, "stall_no", req.StallNo)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Image generation failed. Please try again.")
		return
	}

	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.IPSalt)
	_, err = h.db.Exec(`
		INSERT INTO generation (id, stall_no, prompt, image_url, ip_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New().String(), req.StallNo, req.Prompt, imageURL, ipHash, time.Now())
	if err != nil {
		// The image exists and the slot is spent; record-keeping failure
		// must not cost the participant their result.
		slog.Error("failed to insert generation record", "error", err, "stall_no", req.StallNo)
	}

	var total, used int
	err = h.db.QueryRow(`
		SELECT total_generations, used_generations FROM stall WHERE stall_no = $1
	`, req.StallNo).Scan(&total, &used)
	if err != nil {
		slog.Error("failed to query quota after generation", "error", err, "stall_no", req.StallNo)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	remaining := total - used
	if remaining < 0 {
		remaining = 0
	}

	slog.Info("image generated", "stall_no", req.StallNo, "remaining", remaining)

	middleware.JSONResponse(w, http.StatusOK, models.GenerateResponse{
		Success:              true,
		ImageURL:             imageURL,
		RemainingGenerations: remaining,
	})
}
