// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import "sync"

// Quota is the locally cached generation allowance for the stall.
// Known is false until the first authoritative response arrives.
type Quota struct {
	Total     int
	Used      int
	Remaining int
	Known     bool
}

// quotaTracker caches the authoritative counts and arbitrates between
// responses that resolve out of order. Every network operation that can
// produce an authoritative update takes a sequence number at start;
// an update is applied only if no later-started operation has already
// applied one, so the latest request always wins.
//
// The tracker only ever overwrites the cache wholesale from a server
// response. Nothing here increments or decrements counts locally.
type quotaTracker struct {
	mu         sync.Mutex
	quota      Quota
	nextSeq    uint64
	appliedSeq uint64
}

func newQuotaTracker(placeholderTotal int) *quotaTracker {
	// Conservative placeholder: the total is a guess until the server
	// confirms it, and remaining starts at zero so nothing is enabled
	// before the first authoritative response.
	return &quotaTracker{
		quota: Quota{Total: placeholderTotal, Remaining: 0, Known: false},
	}
}

// begin allocates a sequence number for a new authoritative request.
func (t *quotaTracker) begin() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextSeq++
	return t.nextSeq
}

// apply overwrites the cache from a full {total, used} response.
// Returns false if a later-started request already applied, in which
// case this response is stale and discarded.
func (t *quotaTracker) apply(seq uint64, total, used int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if seq <= t.appliedSeq {
		return false
	}
	t.appliedSeq = seq

	remaining := total - used
	if remaining < 0 {
		remaining = 0
	}
	t.quota = Quota{Total: total, Used: used, Remaining: remaining, Known: true}
	return true
}

// applyRemaining overwrites the cache from a response that carries only
// the remaining count (the generation response). The total is kept from
// the last full update and used is derived.
func (t *quotaTracker) applyRemaining(seq uint64, remaining int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if seq <= t.appliedSeq {
		return false
	}
	t.appliedSeq = seq

	if remaining < 0 {
		remaining = 0
	}
	total := t.quota.Total
	if remaining > total {
		total = remaining
	}
	t.quota = Quota{Total: total, Used: total - remaining, Remaining: remaining, Known: true}
	return true
}

// forceExhausted pins remaining to zero. Used when the server answers a
// generation attempt with a quota-exceeded response: that answer is
// authoritative regardless of what the cache said.
func (t *quotaTracker) forceExhausted(seq uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if seq > t.appliedSeq {
		t.appliedSeq = seq
	}
	t.quota.Remaining = 0
	t.quota.Used = t.quota.Total
	t.quota.Known = true
}

func (t *quotaTracker) current() Quota {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.quota
}
