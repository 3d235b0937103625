// Copyright 2025 Hirelens Authors
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
	"time"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// TranslatorHost is the base URL for the translation service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	TranslatorHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// TranslatorModel is the model identifier to use for translation.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	TranslatorModel string

	// TranslationTTL is how long cached translations stay valid.
	// Default: 168h (one week).
	TranslationTTL time.Duration

	// MaxInputChars caps the text length sent to the translation model.
	// Longer input is truncated before the call. Default: 4000.
	MaxInputChars int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithTranslatorHost sets the translation service host URL.
func WithTranslatorHost(host string) ConfigOption {
	return func(c *Config) {
		c.TranslatorHost = host
	}
}

// WithHost sets both embedding and translator hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.TranslatorHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithTranslatorModel sets the translation model identifier.
func WithTranslatorModel(model string) ConfigOption {
	return func(c *Config) {
		c.TranslatorModel = model
	}
}

// WithTranslationTTL sets how long cached translations stay valid.
func WithTranslationTTL(ttl time.Duration) ConfigOption {
	return func(c *Config) {
		c.TranslationTTL = ttl
	}
}

// WithMaxInputChars sets the translation input length cap.
func WithMaxInputChars(n int) ConfigOption {
	return func(c *Config) {
		c.MaxInputChars = n
	}
}

// DefaultConfig returns a Config with sensible defaults for local OpenAI-compatible services.
// By default, both embedding and translation use the same host.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:   defaultHost,
		TranslatorHost:  defaultHost,
		EmbeddingModel:  "embeddinggemma",
		TranslatorModel: "qwen2.5:3b",
		TranslationTTL:  168 * time.Hour,
		MaxInputChars:   4000,
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
	if c.TranslatorHost != "" && !strings.HasSuffix(c.TranslatorHost, "/v1") {
		c.TranslatorHost = strings.TrimSuffix(c.TranslatorHost, "/")
		c.TranslatorHost = c.TranslatorHost + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.TranslatorHost == "" {
		return errors.New("ai config: TranslatorHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.TranslatorModel == "" {
		return errors.New("ai config: TranslatorModel is required")
	}
	if c.MaxInputChars < 1 {
		return errors.New("ai config: MaxInputChars must be positive")
	}
	return nil
}
