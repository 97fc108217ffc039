// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

package chat

import (
	"strings"
	"time"

	"github.com/cropsense-dev/cropsense/internal/store"
	cserr "github.com/cropsense-dev/cropsense/pkg/errors"
)

// DefaultRecentWindow is how many trailing messages a chat turn echoes
// back as context. Classification always uses the full history.
const DefaultRecentWindow = 10

// Result is the outcome of one chat turn.
type Result struct {
	SessionID string
	Reply     string
	Context   []store.Message
}

// Engine orchestrates the session store, intent classifier, and reply
// generator for each incoming message. Construct one at process start
// and share it; the store serializes concurrent sessions.
type Engine struct {
	store        *store.SessionStore
	recentWindow int
}

// NewEngine creates an Engine over st. recentWindow <= 0 falls back to
// DefaultRecentWindow.
func NewEngine(st *store.SessionStore, recentWindow int) *Engine {
	if recentWindow <= 0 {
		recentWindow = DefaultRecentWindow
	}
	return &Engine{store: st, recentWindow: recentWindow}
}

// Handle processes one chat turn: resolve or create the session, append
// the trimmed user message, classify the raw message, generate a reply
// against the full history, append the assistant message, and return the
// resolved id with the trailing context slice.
//
// The HTTP boundary rejects blank messages before calling in; the guard
// here keeps the invariant enforceable on the engine itself.
func (e *Engine) Handle(sessionID, message string) (*Result, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return nil, cserr.New(cserr.CodeChatMessageEmpty, "message must not be empty",
			cserr.FieldSessionID(sessionID))
	}

	id := e.store.Resolve(sessionID)

	e.store.Append(id, store.Message{
		Role:      store.MessageRoleUser,
		Content:   trimmed,
		Timestamp: time.Now(),
	})

	// Intent is detected on the raw message; the reply sees the full
	// history including the turn just appended.
	intent := Classify(message)
	reply := Generate(intent, message, e.store.History(id))

	e.store.Append(id, store.Message{
		Role:      store.MessageRoleAssistant,
		Content:   reply,
		Timestamp: time.Now(),
	})

	return &Result{
		SessionID: id,
		Reply:     reply,
		Context:   e.store.Recent(id, e.recentWindow),
	}, nil
}
