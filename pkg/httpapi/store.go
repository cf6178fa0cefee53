// Copyright 2026 © The Parley Authors
// SPDX-License-Identifier: Apache-2.0

package httpapi

import (
	"sync"

	"github.com/parley-ai/parley/pkg/interview"
)

// Entry is the server-side state of one live session: the session itself
// plus the question the candidate is currently expected to answer. The mutex
// serializes handlers working on the same session; each handler holds it for
// the whole request so the plan cursor, interaction log, and pending question
// move together.
type Entry struct {
	mu      sync.Mutex
	Session *interview.Session
	// PendingQuestion is the last question handed out, empty when none is
	// outstanding. Answers submitted without a pending question are recorded
	// against "(unspecified)".
	PendingQuestion string
}

// SessionStore holds live sessions. Implementations must be safe for
// concurrent use; the returned Entry is shared, and handlers serialize
// per-session access through the Entry mutex.
type SessionStore interface {
	Get(id string) (*Entry, bool)
	Put(e *Entry)
	Remove(id string)
	Len() int
}

// MemoryStore is the in-process SessionStore.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*Entry)}
}

// Get implements SessionStore.
func (m *MemoryStore) Get(id string) (*Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	return e, ok
}

// Put implements SessionStore.
func (m *MemoryStore) Put(e *Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.Session.ID] = e
}

// Remove implements SessionStore.
func (m *MemoryStore) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
}

// Len implements SessionStore.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
