// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cropsense-dev/cropsense/internal/chat"
	"github.com/cropsense-dev/cropsense/internal/imaging"
	"github.com/cropsense-dev/cropsense/internal/scorer"
	cserr "github.com/cropsense-dev/cropsense/pkg/errors"
)

// RegisterServices sets the service dependencies and registers REST routes.
func (s *Server) RegisterServices(svc *Services) {
	s.services = svc
	s.registerRoutes()
}

func (s *Server) registerRoutes() {
	// Consumer chatbot endpoint
	huma.Register(s.api, huma.Operation{
		OperationID: "consumer-chat",
		Method:      http.MethodPost,
		Path:        "/consumer/chat",
		Summary:     "Chat with agriculture assistant chatbot",
		Tags:        []string{"consumer"},
	}, s.handleConsumerChat)

	// Frontend chat adapter with crop score filtering
	huma.Register(s.api, huma.Operation{
		OperationID: "frontend-chat",
		Method:      http.MethodPost,
		Path:        "/chat",
		Summary:     "Chat adapter for the web frontend",
		Tags:        []string{"frontend"},
	}, s.handleFrontendChat)

	// Data-URL scoring endpoint
	huma.Register(s.api, huma.Operation{
		OperationID: "score-image",
		Method:      http.MethodPost,
		Path:        "/score",
		Summary:     "Score a base64-encoded crop image",
		Tags:        []string{"frontend"},
	}, s.handleScoreImage)

	// Multipart upload bypasses huma; registered directly on the router.
	s.registerUploadRoute()
}

// --- Request/Response types for huma ---

type consumerChatInput struct {
	Body struct {
		SessionID string `json:"sessionId,omitempty" doc:"Existing session to continue"`
		Message   string `json:"message" doc:"User message"`
	}
}
type consumerChatOutput struct {
	Body ChatTurn
}

type frontendChatInput struct {
	Body struct {
		Question string            `json:"question" doc:"User question"`
		UserID   *int64            `json:"userId,omitempty" doc:"Stable user identifier for session continuity"`
		Crops    []chat.CropRecord `json:"crops,omitempty" doc:"Caller-supplied crop records for score filtering"`
	}
}
type frontendChatOutput struct {
	Body struct {
		Reply    string            `json:"reply" doc:"Assistant reply"`
		Products []chat.CropRecord `json:"products" doc:"Crops matching an AI score filter question"`
	}
}

type scoreImageInput struct {
	Body struct {
		Image string `json:"image" doc:"Data URL (data:image/...;base64,...) or raw base64 image bytes"`
	}
}
type scoreImageOutput struct {
	Body struct {
		AiScore      float64        `json:"ai_score" doc:"Quality score between 0 and 100"`
		QualityLabel string         `json:"quality_label" doc:"Excellent, Good, Fair, or Poor"`
		Details      scorer.Details `json:"details" doc:"Scoring method and normalized dimensions"`
	}
}

// --- Handlers ---

func (s *Server) handleConsumerChat(ctx context.Context, input *consumerChatInput) (*consumerChatOutput, error) {
	if strings.TrimSpace(input.Body.Message) == "" {
		return nil, huma.Error400BadRequest("Message must not be empty.")
	}

	turn, err := s.services.Chat().Handle(ctx, input.Body.SessionID, input.Body.Message)
	if err != nil {
		return nil, apiError(err)
	}
	return &consumerChatOutput{Body: *turn}, nil
}

func (s *Server) handleFrontendChat(ctx context.Context, input *frontendChatInput) (*frontendChatOutput, error) {
	question := strings.TrimSpace(input.Body.Question)
	if question == "" {
		return nil, huma.Error400BadRequest("Field 'question' must not be empty.")
	}

	// A stable user id maps to a stable session so context survives turns.
	sessionID := ""
	if input.Body.UserID != nil {
		sessionID = fmt.Sprintf("user_%d", *input.Body.UserID)
	}

	turn, err := s.services.Chat().Handle(ctx, sessionID, question)
	if err != nil {
		return nil, apiError(err)
	}

	out := &frontendChatOutput{}
	out.Body.Reply = turn.Reply
	out.Body.Products = []chat.CropRecord{}

	// Crop filtering overrides the chatbot reply but never touches
	// session state.
	if reply, matched, ok := chat.FilterCropsByScore(question, input.Body.Crops); ok {
		out.Body.Reply = reply
		out.Body.Products = matched
	}
	return out, nil
}

func (s *Server) handleScoreImage(ctx context.Context, input *scoreImageInput) (*scoreImageOutput, error) {
	if input.Body.Image == "" {
		return nil, huma.Error400BadRequest("Field 'image' is required.")
	}

	data, err := decodeDataURL(input.Body.Image)
	if err != nil {
		return nil, apiError(err)
	}
	if int64(len(data)) > s.cfg.MaxImageBytes {
		return nil, huma.Error400BadRequest(fmt.Sprintf(
			"File too large. Max size is %d MB.", s.cfg.MaxImageBytes/(1024*1024)))
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apiError(err)
	}

	result, err := s.services.Score().ScoreImage(ctx, img)
	if err != nil {
		return nil, apiError(err)
	}

	out := &scoreImageOutput{}
	out.Body.AiScore = result.Score
	out.Body.QualityLabel = result.QualityLabel
	out.Body.Details = result.Details
	return out, nil
}

// decodeDataURL extracts the base64 payload from a Data URL
// ("data:image/jpeg;base64,AAAA...") or decodes raw base64 directly.
func decodeDataURL(payload string) ([]byte, error) {
	b64 := payload
	if idx := strings.Index(payload, ","); idx >= 0 {
		b64 = payload[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, cserr.Wrap(err, cserr.CodeImageDecodeInvalid, "invalid base64 image data")
	}
	return data, nil
}

// apiError maps a coded core error onto the corresponding huma status error.
func apiError(err error) error {
	return huma.NewError(cserr.HTTPStatus(err), err.Error())
}
