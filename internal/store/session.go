// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

// Package store holds per-session conversation history for the chat
// engine. Sessions are process-lifetime only: there is no persistence
// backend and no eviction (history growth is unbounded).
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MessageRole identifies the sender of a message in a session.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Message is one turn in a session. Immutable once appended; timestamps
// are non-decreasing within a session.
type Message struct {
	Role      MessageRole
	Content   string
	Timestamp time.Time
}

// SessionStore is the process-wide mapping from session id to ordered
// message history. All access is serialized behind a single mutex, which
// also gives any future eviction policy a single choke point.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string][]Message
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string][]Message)}
}

// Resolve returns a usable session id. An empty id generates a fresh
// unique one; an unknown id is adopted with an empty history; a known id
// is returned unchanged. In every case the session exists afterwards.
func (s *SessionStore) Resolve(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = newSessionID()
	}
	if _, ok := s.sessions[id]; !ok {
		s.sessions[id] = []Message{}
	}
	return id
}

// Append adds msg to the end of the session's history.
func (s *SessionStore) Append(id string, msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = append(s.sessions[id], msg)
}

// History returns a copy of the full history in chronological order.
func (s *SessionStore) History(id string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sessions[id]...)
}

// Recent returns a copy of the last n messages in chronological order.
func (s *SessionStore) Recent(id string, n int) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.sessions[id]
	if n < 0 {
		n = 0
	}
	if len(history) > n {
		history = history[len(history)-n:]
	}
	return append([]Message(nil), history...)
}

// Len reports the number of messages in the session.
func (s *SessionStore) Len(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions[id])
}

// newSessionID builds the "chat_" prefixed random hex token format.
func newSessionID() string {
	u := uuid.New()
	return fmt.Sprintf("chat_%x", u[:])
}
