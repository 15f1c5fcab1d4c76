// Copyright 2025 Tastetrail Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// ParserHost is the base URL for the intent-parsing chat service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	ParserHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "bge-m3", "text-embedding-3-small"
	EmbeddingModel string

	// ParserModel is the model identifier to use for intent parsing.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	ParserModel string

	// EmbeddingRateLimit caps embedding API calls per second.
	// Zero or negative disables rate limiting.
	// Default: 10
	EmbeddingRateLimit float64

	// MaxIntents caps how many steps the parser may return for one query.
	// Longer parses are truncated. Default: 4
	MaxIntents int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithParserHost sets the intent parser service host URL.
func WithParserHost(host string) ConfigOption {
	return func(c *Config) {
		c.ParserHost = host
	}
}

// WithHost sets both embedding and parser hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.ParserHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithParserModel sets the parser model identifier.
func WithParserModel(model string) ConfigOption {
	return func(c *Config) {
		c.ParserModel = model
	}
}

// WithEmbeddingRateLimit sets the embedding calls-per-second cap.
func WithEmbeddingRateLimit(rps float64) ConfigOption {
	return func(c *Config) {
		c.EmbeddingRateLimit = rps
	}
}

// WithMaxIntents sets the maximum number of steps per parsed query.
func WithMaxIntents(max int) ConfigOption {
	return func(c *Config) {
		c.MaxIntents = max
	}
}

// DefaultConfig returns a Config with sensible defaults for local OpenAI-compatible services.
// By default, both embedding and parser use the same host.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:      defaultHost,
		ParserHost:         defaultHost,
		EmbeddingModel:     "bge-m3",
		ParserModel:        "qwen2.5:3b",
		EmbeddingRateLimit: 10,
		MaxIntents:         4,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//   cfg := NewConfig(
//       WithHost("http://localhost:11434/v1"),
//       WithEmbeddingModel("text-embedding-3-small"),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
	if c.ParserHost != "" && !strings.HasSuffix(c.ParserHost, "/v1") {
		c.ParserHost = strings.TrimSuffix(c.ParserHost, "/")
		c.ParserHost = c.ParserHost + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.ParserHost == "" {
		return errors.New("ai config: ParserHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.ParserModel == "" {
		return errors.New("ai config: ParserModel is required")
	}
	if c.MaxIntents < 1 {
		return errors.New("ai config: MaxIntents must be at least 1")
	}
	return nil
}
