// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

package server

import (
	"context"
	"image"

	"github.com/cropsense-dev/cropsense/internal/scorer"
	cserr "github.com/cropsense-dev/cropsense/pkg/errors"
)

// Services holds dependencies injected into route handlers.
// Each field is an interface so subsystems can be mocked in tests.
// Use NewServices constructor to ensure all required services are provided.
type Services struct {
	chat  ChatService
	score ScoreService
}

// NewServices creates a Services instance with validation.
// Returns an error if any required service is nil.
func NewServices(chat ChatService, score ScoreService) (*Services, error) {
	if chat == nil {
		return nil, cserr.New(cserr.CodeServerConfigInvalid, "chat service is required")
	}
	if score == nil {
		return nil, cserr.New(cserr.CodeServerConfigInvalid, "score service is required")
	}
	return &Services{chat: chat, score: score}, nil
}

// Chat returns the chat service.
func (s *Services) Chat() ChatService {
	return s.chat
}

// Score returns the score service.
func (s *Services) Score() ScoreService {
	return s.score
}

// ChatService processes one chat turn for the REST handlers.
type ChatService interface {
	Handle(ctx context.Context, sessionID, message string) (*ChatTurn, error)
}

// ScoreService runs the full scoring pipeline (normalize + score) on a
// decoded image.
type ScoreService interface {
	ScoreImage(ctx context.Context, img image.Image) (*scorer.Result, error)
}

// ChatMessage is the REST representation of one conversation turn.
// Timestamp is float unix seconds; front-ends rely on that format.
type ChatMessage struct {
	Role      string  `json:"role" doc:"Message sender (user or assistant)"`
	Content   string  `json:"content" doc:"Message text"`
	Timestamp float64 `json:"timestamp" doc:"Unix timestamp in seconds"`
}

// ChatTurn is the REST representation of a completed chat turn.
type ChatTurn struct {
	SessionID string        `json:"sessionId" doc:"Resolved session identifier"`
	Reply     string        `json:"reply" doc:"Assistant reply"`
	Context   []ChatMessage `json:"context" doc:"Trailing conversation context (up to last 10 messages)"`
}

// NewServicesForTest creates a Services instance for testing.
// It delegates to NewServices to enforce the same validation invariants
// as production code. Panics if any required service is nil.
func NewServicesForTest(chat ChatService, score ScoreService) *Services {
	svc, err := NewServices(chat, score)
	if err != nil {
		panic(err)
	}
	return svc
}
