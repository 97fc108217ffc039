// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cropsense-dev/cropsense/internal/config"
	cserr "github.com/cropsense-dev/cropsense/pkg/errors"
)

func newViperWithDefaults() *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(newViperWithDefaults())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5001", cfg.Server.Listen)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "heuristic", cfg.Scoring.Backend)
	assert.Equal(t, "", cfg.Scoring.ModelPath)
	assert.Equal(t, int64(5*1024*1024), cfg.Scoring.MaxImageBytes)
	assert.Equal(t, 10, cfg.Sessions.RecentWindow)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cropsense.yaml")
	content := `
server:
  listen: "127.0.0.1:8080"
  cors_origins:
    - "https://app.example.com"
scoring:
  backend: model
  model_path: /models/crop.onnx
sessions:
  recent_window: 6
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Listen)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "model", cfg.Scoring.Backend)
	assert.Equal(t, "/models/crop.onnx", cfg.Scoring.ModelPath)
	assert.Equal(t, 6, cfg.Sessions.RecentWindow)
	// Unset keys keep their defaults.
	assert.Equal(t, int64(5*1024*1024), cfg.Scoring.MaxImageBytes)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.True(t, cserr.HasCode(err, cserr.CodeConfigLoadReadFailure))
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CROPSENSE_SERVER_LISTEN", "127.0.0.1:9999")
	t.Setenv("CROPSENSE_SCORING_BACKEND", "heuristic")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Listen)
}

func TestValidate_InvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(v *viper.Viper)
		wantText string
	}{
		{
			name:     "unknown backend",
			mutate:   func(v *viper.Viper) { v.Set("scoring.backend", "quantum") },
			wantText: "scoring.backend",
		},
		{
			name:     "model backend without path",
			mutate:   func(v *viper.Viper) { v.Set("scoring.backend", "model") },
			wantText: "scoring.model_path",
		},
		{
			name:     "listen without port",
			mutate:   func(v *viper.Viper) { v.Set("server.listen", "localhost") },
			wantText: "server.listen",
		},
		{
			name:     "port out of range",
			mutate:   func(v *viper.Viper) { v.Set("server.listen", "0.0.0.0:99999") },
			wantText: "server.listen port",
		},
		{
			name:     "non-positive image cap",
			mutate:   func(v *viper.Viper) { v.Set("scoring.max_image_bytes", 0) },
			wantText: "scoring.max_image_bytes",
		},
		{
			name:     "non-positive recent window",
			mutate:   func(v *viper.Viper) { v.Set("sessions.recent_window", -1) },
			wantText: "sessions.recent_window",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViperWithDefaults()
			tt.mutate(v)

			cfg, err := config.FromViper(v)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, cserr.HasCode(err, cserr.CodeConfigValidateInvalidValue))
			assert.Contains(t, err.Error(), tt.wantText)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	v := newViperWithDefaults()
	v.Set("scoring.backend", "quantum")
	v.Set("sessions.recent_window", 0)

	_, err := config.FromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scoring.backend")
	assert.Contains(t, err.Error(), "sessions.recent_window")
}

func TestValidate_EmptyHostIsValid(t *testing.T) {
	v := newViperWithDefaults()
	v.Set("server.listen", ":5001")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, ":5001", cfg.Server.Listen)
}
