// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Request types

type RegisterRequest struct {
	ProjectName string `json:"projectName"`
	StallNo     string `json:"stallNo"`
}

type GenerateRequest struct {
	Prompt  string `json:"prompt"`
	StallNo string `json:"stallNo"`
}

// Response types

type RegisterResponse struct {
	Success bool   `json:"success"`
	Detail  string `json:"detail,omitempty"`
}

type QuotaResponse struct {
	RemainingGenerations int `json:"remaining_generations"`
	TotalGenerations     int `json:"total_generations"`
	UsedGenerations      int `json:"used_generations"`
}

type GenerateResponse struct {
	Success              bool   `json:"success"`
	ImageURL             string `json:"imageUrl"`
	RemainingGenerations int    `json:"remainingGenerations"`
}

// Domain types

type Stall struct {
	StallNo          string    `json:"stall_no"`
	ProjectName      string    `json:"project_name"`
	TotalGenerations int       `json:"total_generations"`
	UsedGenerations  int       `json:"used_generations"`
	CreatedAt        time.Time `json:"created_at"`
}

// Remaining returns how many generations the stall has left, never negative.
func (s *Stall) Remaining() int {
	if r := s.TotalGenerations - s.UsedGenerations; r > 0 {
		return r
	}
	return 0
}

// Exhausted reports whether the stall has used up its allowance.
func (s *Stall) Exhausted() bool {
	return s.UsedGenerations >= s.TotalGenerations
}

type Generation struct {
	ID        string    `json:"id"`
	StallNo   string    `json:"stall_no"`
	Prompt    string    `json:"prompt"`
	ImageURL  string    `json:"image_url"`
	IPHash    *string   `json:"-"` // Never expose in JSON
	CreatedAt time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Success bool   `json:"success"`
	Detail  string `json:"detail,omitempty"`
}
