// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

package config

import (
	"errors"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	cserr "github.com/cropsense-dev/cropsense/pkg/errors"
)

// Config is the top-level CropSense configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
	Sessions SessionsConfig `mapstructure:"sessions"`
}

// ServerConfig controls how the gateway listens for connections.
type ServerConfig struct {
	Listen      string   `mapstructure:"listen"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// ScoringConfig selects and parameterizes the scoring backend.
type ScoringConfig struct {
	Backend       string `mapstructure:"backend"`
	ModelPath     string `mapstructure:"model_path"`
	MaxImageBytes int64  `mapstructure:"max_image_bytes"`
}

// SessionsConfig controls chat session behavior.
type SessionsConfig struct {
	RecentWindow int `mapstructure:"recent_window"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.listen", "0.0.0.0:5001")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("scoring.backend", "heuristic")
	v.SetDefault("scoring.model_path", "")
	v.SetDefault("scoring.max_image_bytes", 5*1024*1024)
	v.SetDefault("sessions.recent_window", 10)
}

// SetupEnv binds CROPSENSE_-prefixed environment variables.
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix("CROPSENSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads configuration from the given path (or defaults) with
// environment variable overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	SetDefaults(v)
	SetupEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, cserr.Errorf(cserr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	return FromViper(v)
}

// FromViper unmarshals and validates a Config out of an initialized viper.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, cserr.Errorf(cserr.CodeConfigValidateInvalidValue, "unmarshalling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, cserr.Errorf(cserr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}

	return &cfg, nil
}

// Validate checks the configuration for logical errors, collecting all
// issues rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateScoring()...)
	errs = append(errs, c.validateSessions()...)

	return errs
}

func (c *Config) validateServer() []error {
	var errs []error

	if c.Server.Listen == "" {
		errs = append(errs, cserr.Errorf(cserr.CodeConfigValidateInvalidValue, "config: server.listen must not be empty"))
		return errs
	}

	host, portStr, err := net.SplitHostPort(c.Server.Listen)
	if err != nil {
		errs = append(errs, cserr.Errorf(cserr.CodeConfigValidateInvalidValue,
			"config: server.listen must be a valid host:port address, got %q: %w",
			c.Server.Listen, err,
		))
		return errs
	}
	_ = host // empty host (":5001") is valid

	port, err := strconv.Atoi(portStr)
	if err != nil {
		errs = append(errs, cserr.Errorf(cserr.CodeConfigValidateInvalidValue,
			"config: server.listen port must be a number, got %q", portStr))
	} else if port < 1 || port > 65535 {
		errs = append(errs, cserr.Errorf(cserr.CodeConfigValidateInvalidValue,
			"config: server.listen port must be between 1 and 65535, got %d", port))
	}

	return errs
}

func (c *Config) validateScoring() []error {
	var errs []error

	validBackends := map[string]bool{"heuristic": true, "model": true}
	if !validBackends[c.Scoring.Backend] {
		errs = append(errs, cserr.Errorf(cserr.CodeConfigValidateInvalidValue,
			"config: scoring.backend must be one of [heuristic, model], got %q",
			c.Scoring.Backend,
		))
	}

	if c.Scoring.Backend == "model" && c.Scoring.ModelPath == "" {
		errs = append(errs, cserr.Errorf(cserr.CodeConfigValidateInvalidValue,
			"config: scoring.model_path must be set when scoring.backend is \"model\""))
	}

	if c.Scoring.MaxImageBytes <= 0 {
		errs = append(errs, cserr.Errorf(cserr.CodeConfigValidateInvalidValue,
			"config: scoring.max_image_bytes must be greater than 0, got %d",
			c.Scoring.MaxImageBytes,
		))
	}

	return errs
}

func (c *Config) validateSessions() []error {
	var errs []error

	if c.Sessions.RecentWindow <= 0 {
		errs = append(errs, cserr.Errorf(cserr.CodeConfigValidateInvalidValue,
			"config: sessions.recent_window must be greater than 0, got %d",
			c.Sessions.RecentWindow,
		))
	}

	return errs
}
