// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrEmptyStallNo is returned when Save is called with a blank stall number.
var ErrEmptyStallNo = errors.New("stall number must not be empty")

// Store persists the registered stall number across sessions.
//
// Load returns the saved stall number, or "" when none has been saved.
// A missing identity is not an error; only an unreadable store is.
type Store interface {
	Load() (string, error)
	Save(stallNo string) error
}

// record is the on-disk document. SavedAt is informational only.
type record struct {
	StallNo string    `json:"stallNo"`
	SavedAt time.Time `json:"savedAt"`
}

// FileStore keeps the stall number in a JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore rooted at dir. An empty dir uses the
// user config directory. The directory is created if needed; failure to
// do so is returned so the caller can fall back to a MemStore.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "stallgen")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStore{path: filepath.Join(dir, "stall.json")}, nil
}

// Load reads the saved stall number. A missing or corrupt file reads as
// no identity, never as a failure that blocks the workflow.
func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		slog.Warn("identity file unreadable, treating as unregistered", "path", s.path, "error", err)
		return "", nil
	}

	return strings.TrimSpace(rec.StallNo), nil
}

// Save writes the stall number durably. The write goes through a temp
// file and rename so a crash never leaves a half-written identity.
func (s *FileStore) Save(stallNo string) error {
	stallNo = strings.TrimSpace(stallNo)
	if stallNo == "" {
		return ErrEmptyStallNo
	}

	data, err := json.Marshal(record{StallNo: stallNo, SavedAt: time.Now()})
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// MemStore holds the identity in memory only. It is the degraded mode
// for environments without usable storage: the workflow still runs, the
// identity is simply lost on restart.
type MemStore struct {
	mu      sync.Mutex
	stallNo string
}

func (s *MemStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stallNo, nil
}

func (s *MemStore) Save(stallNo string) error {
	stallNo = strings.TrimSpace(stallNo)
	if stallNo == "" {
		return ErrEmptyStallNo
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stallNo = stallNo
	return nil
}
