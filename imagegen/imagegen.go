// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrGenerationFailed is returned when the upstream model reports a
// failed task.
var ErrGenerationFailed = errors.New("image generation failed upstream")

// Generator produces an image URL for a text prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client calls an external text-to-image service over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient constructs a Client for the given service base URL.
// A model run can take tens of seconds; the timeout reflects that.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 120 * time.Second},
	}
}

type taskRequest struct {
	Prompt string `json:"prompt"`
}

type taskResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"` // pending, processing, completed, failed
	Result string `json:"result"` // image URL when completed
}

// Generate submits the prompt and returns the generated image URL.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(taskRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/images/generations", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call image service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image service returned status %d", resp.StatusCode)
	}

	var task taskResponse
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return "", fmt.Errorf("decode image service response: %w", err)
	}

	if task.Status != "completed" || task.Result == "" {
		return "", ErrGenerationFailed
	}

	return task.Result, nil
}
