// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/makerfest/stallgen/models"
)

// Sentinel errors the session layer branches on. Wire errors that carry
// a server detail wrap these, so callers use errors.Is.
var (
	// ErrStallTaken: the stall number is already registered (400 with a
	// detail mentioning "stall").
	ErrStallTaken = errors.New("stall number already registered")

	// ErrMalformedInput: the server rejected the request body (422).
	ErrMalformedInput = errors.New("required fields missing or invalid")

	// ErrQuotaExceeded: the stall has no generations left (429).
	ErrQuotaExceeded = errors.New("generation quota exceeded")
)

// APIError is any other non-success response, with the server's detail
// message when one was present.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api error (status %d)", e.StatusCode)
}

// Client is a typed HTTP client for the competition API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given base URL. No overall timeout is
// set: image generation legitimately takes tens of seconds, so deadline
// control belongs to the caller's context.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// Register submits a registration for the stall.
func (c *Client) Register(ctx context.Context, projectName, stallNo string) error {
	resp, err := c.postJSON(ctx, "/api/register", models.RegisterRequest{
		ProjectName: projectName,
		StallNo:     stallNo,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var body models.RegisterResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("decode register response: %w", err)
		}
		if !body.Success {
			return &APIError{StatusCode: resp.StatusCode, Detail: body.Detail}
		}
		return nil
	case http.StatusBadRequest:
		detail := readDetail(resp.Body)
		if strings.Contains(strings.ToLower(detail), "stall") {
			return fmt.Errorf("%s: %w", detail, ErrStallTaken)
		}
		return &APIError{StatusCode: resp.StatusCode, Detail: detail}
	case http.StatusUnprocessableEntity:
		return ErrMalformedInput
	default:
		return &APIError{StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)}
	}
}

// CheckQuota queries the authoritative generation counts for a stall.
func (c *Client) CheckQuota(ctx context.Context, stallNo string) (models.QuotaResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/check-generation-limit/"+stallNo, nil)
	if err != nil {
		return models.QuotaResponse{}, fmt.Errorf("build quota request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return models.QuotaResponse{}, fmt.Errorf("check generation limit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.QuotaResponse{}, &APIError{StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	var quota models.QuotaResponse
	if err := json.NewDecoder(resp.Body).Decode(&quota); err != nil {
		return models.QuotaResponse{}, fmt.Errorf("decode quota response: %w", err)
	}
	return quota, nil
}

// Generate submits a prompt for the stall and returns the image URL with
// the authoritative remaining count.
func (c *Client) Generate(ctx context.Context, stallNo, prompt string) (models.GenerateResponse, error) {
	resp, err := c.postJSON(ctx, "/generate-image", models.GenerateRequest{
		Prompt:  prompt,
		StallNo: stallNo,
	})
	if err != nil {
		return models.GenerateResponse{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var body models.GenerateResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return models.GenerateResponse{}, fmt.Errorf("decode generate response: %w", err)
		}
		return body, nil
	case http.StatusTooManyRequests:
		detail := readDetail(resp.Body)
		if detail == "" {
			return models.GenerateResponse{}, ErrQuotaExceeded
		}
		return models.GenerateResponse{}, fmt.Errorf("%s: %w", detail, ErrQuotaExceeded)
	case http.StatusUnprocessableEntity:
		return models.GenerateResponse{}, ErrMalformedInput
	default:
		return models.GenerateResponse{}, &APIError{StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)}
	}
}

func (c *Client) postJSON(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", path, err)
	}
	return resp, nil
}

// readDetail pulls the detail string out of an error envelope, tolerating
// bodies that are not the expected JSON.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 1<<16))
	if err != nil {
		return ""
	}
	var body models.ErrorResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Detail
}
