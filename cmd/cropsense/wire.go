// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

package main

import (
	"context"
	"image"

	"github.com/cropsense-dev/cropsense/internal/chat"
	"github.com/cropsense-dev/cropsense/internal/config"
	"github.com/cropsense-dev/cropsense/internal/imaging"
	"github.com/cropsense-dev/cropsense/internal/scorer"
	"github.com/cropsense-dev/cropsense/internal/server"
	"github.com/cropsense-dev/cropsense/internal/store"
	cserr "github.com/cropsense-dev/cropsense/pkg/errors"
)

// Gateway holds all wired subsystems.
type Gateway struct {
	Server   *server.Server
	Sessions *store.SessionStore
	Engine   *chat.Engine
	Scorer   scorer.Scorer
}

// WireGateway creates all subsystems and wires them together: session
// store → chat engine, scoring backend → pipeline, both behind the HTTP
// service interfaces.
func WireGateway(cfg *config.Config) (*Gateway, error) {
	sessions := store.NewSessionStore()
	engine := chat.NewEngine(sessions, cfg.Sessions.RecentWindow)

	sc, err := scorer.New(scorer.Config{
		Backend:   cfg.Scoring.Backend,
		ModelPath: cfg.Scoring.ModelPath,
	})
	if err != nil {
		return nil, cserr.Wrapf(err, cserr.CodeCLISetupFailure, "creating scorer")
	}

	services, err := server.NewServices(
		&chatServiceAdapter{engine: engine},
		&scoreServiceAdapter{scorer: sc},
	)
	if err != nil {
		return nil, cserr.Wrapf(err, cserr.CodeCLISetupFailure, "creating services")
	}

	srv, err := server.New(server.Config{
		ListenAddr:    cfg.Server.Listen,
		CORSOrigins:   cfg.Server.CORSOrigins,
		MaxImageBytes: cfg.Scoring.MaxImageBytes,
	})
	if err != nil {
		return nil, cserr.Wrapf(err, cserr.CodeCLISetupFailure, "creating server")
	}
	srv.RegisterServices(services)

	return &Gateway{
		Server:   srv,
		Sessions: sessions,
		Engine:   engine,
		Scorer:   sc,
	}, nil
}

// Start runs the HTTP server and blocks until the context is cancelled.
func (gw *Gateway) Start(ctx context.Context) error {
	return gw.Server.Start(ctx)
}

// --- Service adapters ---

// chatServiceAdapter bridges the chat engine to the server's ChatService.
type chatServiceAdapter struct {
	engine *chat.Engine
}

func (a *chatServiceAdapter) Handle(_ context.Context, sessionID, message string) (*server.ChatTurn, error) {
	result, err := a.engine.Handle(sessionID, message)
	if err != nil {
		return nil, err
	}

	ctxMsgs := make([]server.ChatMessage, len(result.Context))
	for i, msg := range result.Context {
		ctxMsgs[i] = server.ChatMessage{
			Role:      string(msg.Role),
			Content:   msg.Content,
			Timestamp: float64(msg.Timestamp.UnixNano()) / 1e9,
		}
	}

	return &server.ChatTurn{
		SessionID: result.SessionID,
		Reply:     result.Reply,
		Context:   ctxMsgs,
	}, nil
}

// scoreServiceAdapter runs the preprocessing + scoring pipeline behind
// the server's ScoreService.
type scoreServiceAdapter struct {
	scorer scorer.Scorer
}

func (a *scoreServiceAdapter) ScoreImage(_ context.Context, img image.Image) (*scorer.Result, error) {
	arr, err := imaging.Normalize(img)
	if err != nil {
		return nil, err
	}
	return a.scorer.Score(arr)
}
