// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/makerfest/stallgen/apiclient"
	"github.com/makerfest/stallgen/identity"
	"github.com/makerfest/stallgen/models"
)

// State is the UI-visible session state.
type State int

const (
	StateBooting      State = iota
	StateUnregistered       // no identity, registration form shown
	StateQuotaUnknown       // registered, waiting for the first quota response
	StateReady              // registered, quota known, generation form enabled
	StateGenerating         // generation request in flight
	StateResult             // a generated image is held for viewing
	StateExhausted          // no generations left; terminal for the session
)

func (s State) String() string {
	switch s {
	case StateBooting:
		return "booting"
	case StateUnregistered:
		return "unregistered"
	case StateQuotaUnknown:
		return "quota-unknown"
	case StateReady:
		return "ready"
	case StateGenerating:
		return "generating"
	case StateResult:
		return "result"
	case StateExhausted:
		return "exhausted"
	}
	return "unknown"
}

// Backend is the slice of the competition API the session needs.
// *apiclient.Client satisfies it; tests substitute fakes.
type Backend interface {
	Register(ctx context.Context, projectName, stallNo string) error
	CheckQuota(ctx context.Context, stallNo string) (models.QuotaResponse, error)
	Generate(ctx context.Context, stallNo, prompt string) (models.GenerateResponse, error)
}

// FieldError is a validation or conflict error scoped to a single input
// field, rendered next to the field rather than as a general notice.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

var (
	// ErrProjectNameRequired surfaces as a general notice, not a field error.
	ErrProjectNameRequired = errors.New("project name is required")

	// ErrPromptRequired: generation submitted with an empty prompt.
	ErrPromptRequired = errors.New("prompt is required")

	// ErrBusy: a submission for this session is already in flight.
	ErrBusy = errors.New("another request is already in flight")

	// ErrNotRegistered: the operation needs a registered stall.
	ErrNotRegistered = errors.New("stall is not registered")

	// ErrQuotaNotReady: generation attempted before the first
	// authoritative quota response.
	ErrQuotaNotReady = errors.New("generation limit not confirmed yet")

	// ErrExhausted: no generations left; checked locally before any
	// network call is made.
	ErrExhausted = errors.New("no generations remaining")

	// ErrResultHeld: a result is on screen; generating again requires
	// the explicit generate-another action first.
	ErrResultHeld = errors.New("a result is already held; start a new generation first")
)

// Result is a generated image held by the session until the participant
// views it or generates another.
type Result struct {
	ImageURL string
	Prompt   string
	At       time.Time
}

// DefaultQuotaPlaceholder seeds the quota total shown before the first
// authoritative response. The server value always overwrites it.
const DefaultQuotaPlaceholder = 3

// Session composes the identity store, the quota tracker, and the
// registration/generation workflows into one state machine.
//
// All exported methods are safe for concurrent use, but the session
// models a single participant at one kiosk: at most one registration and
// one generation are allowed in flight, enforced with ErrBusy.
type Session struct {
	store   identity.Store
	backend Backend
	logger  *slog.Logger
	tracker *quotaTracker

	mu          sync.Mutex
	state       State
	stallNo     string
	lastPrompt  string
	lastResult  *Result
	registering bool
	generating  bool
}

// New creates a session in the booting state. Call Boot next.
func New(store identity.Store, backend Backend, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		store:   store,
		backend: backend,
		logger:  logger,
		tracker: newQuotaTracker(DefaultQuotaPlaceholder),
		state:   StateBooting,
	}
}

// Boot loads the persisted identity and resolves the initial state.
// With an identity present it immediately runs the first quota refresh,
// so the generation form is never enabled on unconfirmed numbers.
func (s *Session) Boot(ctx context.Context) State {
	stallNo, err := s.store.Load()
	if err != nil {
		// An unreadable store degrades to unregistered, by contract.
		s.logger.Warn("identity store unavailable", "error", err)
		stallNo = ""
	}

	s.mu.Lock()
	if stallNo == "" {
		s.state = StateUnregistered
		s.mu.Unlock()
		return StateUnregistered
	}
	s.stallNo = stallNo
	s.state = StateQuotaUnknown
	s.mu.Unlock()

	// First refresh; on failure the state stays quota-unknown and the
	// participant can retry via the UI.
	if err := s.RefreshQuota(ctx); err != nil {
		s.logger.Warn("initial quota refresh failed", "stall_no", stallNo, "error", err)
	}

	return s.State()
}

// Register validates and submits a registration, persists the identity
// on success, and moves the session to the quota-unknown state.
func (s *Session) Register(ctx context.Context, projectName, stallNo string) error {
	projectName = strings.TrimSpace(projectName)
	stallNo = strings.TrimSpace(stallNo)

	// Pre-flight validation never reaches the network.
	if stallNo == "" {
		return &FieldError{Field: "stallNo", Message: "Stall number is required"}
	}
	if projectName == "" {
		return ErrProjectNameRequired
	}

	s.mu.Lock()
	if s.stallNo != "" {
		s.mu.Unlock()
		return fmt.Errorf("stall %s already registered on this kiosk", s.stallNo)
	}
	if s.registering {
		s.mu.Unlock()
		return ErrBusy
	}
	s.registering = true
	s.mu.Unlock()

	err := s.backend.Register(ctx, projectName, stallNo)

	s.mu.Lock()
	s.registering = false
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, apiclient.ErrStallTaken) {
			// Conflict is scoped to the stall number field.
			return &FieldError{Field: "stallNo", Message: err.Error()}
		}
		return err
	}

	s.stallNo = stallNo
	s.state = StateQuotaUnknown
	s.mu.Unlock()

	// Identity is authoritative once the server accepted it; a failed
	// save only costs persistence across restarts.
	if err := s.store.Save(stallNo); err != nil {
		s.logger.Warn("failed to persist stall identity", "stall_no", stallNo, "error", err)
	}

	s.logger.Info("stall registered", "stall_no", stallNo, "project", projectName)

	if err := s.RefreshQuota(ctx); err != nil {
		s.logger.Warn("quota refresh after registration failed", "stall_no", stallNo, "error", err)
	}

	return nil
}

// RefreshQuota queries the authoritative counts and overwrites the local
// cache if no later-started request has already done so. Failures leave
// the previous quota in place; the caller decides whether to surface
// them (boot and post-registration refreshes do not).
func (s *Session) RefreshQuota(ctx context.Context) error {
	s.mu.Lock()
	stallNo := s.stallNo
	s.mu.Unlock()
	if stallNo == "" {
		return ErrNotRegistered
	}

	seq := s.tracker.begin()
	quota, err := s.backend.CheckQuota(ctx, stallNo)
	if err != nil {
		s.logger.Warn("quota refresh failed, keeping cached counts", "stall_no", stallNo, "error", err)
		return err
	}

	if !s.tracker.apply(seq, quota.TotalGenerations, quota.UsedGenerations) {
		s.logger.Debug("discarded stale quota response", "stall_no", stallNo, "seq", seq)
		return nil
	}

	s.resolveQuotaState()
	return nil
}

// Generate submits a prompt under quota control. On success the session
// holds the result and the form stays locked until GenerateAnother.
func (s *Session) Generate(ctx context.Context, prompt string) (*Result, error) {
	prompt = strings.TrimSpace(prompt)

	s.mu.Lock()
	if s.stallNo == "" {
		s.mu.Unlock()
		return nil, ErrNotRegistered
	}
	if s.generating {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if s.lastResult != nil {
		s.mu.Unlock()
		return nil, ErrResultHeld
	}
	if prompt == "" {
		s.mu.Unlock()
		return nil, ErrPromptRequired
	}

	quota := s.tracker.current()
	if !quota.Known {
		s.mu.Unlock()
		return nil, ErrQuotaNotReady
	}
	// Cheap short-circuit; the server check at submission time is the
	// real enforcement.
	if quota.Remaining <= 0 {
		s.state = StateExhausted
		s.mu.Unlock()
		return nil, ErrExhausted
	}

	stallNo := s.stallNo
	s.generating = true
	s.state = StateGenerating
	s.lastPrompt = prompt
	s.mu.Unlock()

	seq := s.tracker.begin()
	resp, err := s.backend.Generate(ctx, stallNo, prompt)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false

	if err != nil {
		if errors.Is(err, apiclient.ErrQuotaExceeded) {
			// Another device on the same stall won the race. The server
			// answer is authoritative: force the cache to zero.
			s.tracker.forceExhausted(seq)
			s.state = StateExhausted
			return nil, err
		}
		// Prompt stays in lastPrompt so the participant can resubmit
		// without retyping.
		s.state = StateReady
		return nil, err
	}

	s.tracker.applyRemaining(seq, resp.RemainingGenerations)
	s.lastResult = &Result{ImageURL: resp.ImageURL, Prompt: prompt, At: time.Now()}
	s.state = StateResult

	s.logger.Info("generation succeeded",
		"stall_no", stallNo,
		"remaining", resp.RemainingGenerations,
	)

	return s.lastResult, nil
}

// GenerateAnother is the explicit action that releases the held result
// and re-derives the state from the latest authoritative quota.
func (s *Session) GenerateAnother() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateResult {
		return s.state
	}

	s.lastResult = nil
	s.lastPrompt = ""
	if s.tracker.current().Remaining > 0 {
		s.state = StateReady
	} else {
		s.state = StateExhausted
	}
	return s.state
}

// resolveQuotaState recomputes the state after an authoritative quota
// update, without disturbing an in-flight generation or a held result.
func (s *Session) resolveQuotaState() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateGenerating || s.state == StateResult || s.state == StateUnregistered || s.state == StateBooting {
		return
	}
	if s.tracker.current().Remaining > 0 {
		s.state = StateReady
	} else {
		s.state = StateExhausted
	}
}

// State returns the current UI-visible state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Registered reports whether an identity is present. Views that require
// registration redirect to the registration entry point when false.
func (s *Session) Registered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stallNo != ""
}

// StallNo returns the registered stall number, or "".
func (s *Session) StallNo() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stallNo
}

// Quota returns the cached quota.
func (s *Session) Quota() Quota {
	return s.tracker.current()
}

// LastResult returns the held result, or nil.
func (s *Session) LastResult() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}

// LastPrompt returns the most recently submitted prompt text, preserved
// across failed attempts for resubmission.
func (s *Session) LastPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPrompt
}
