// Copyright 2025 CodeBang Labs
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

// Config holds configuration for the embedding provider.
type Config struct {
	// Host is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server
	Host string

	// Model is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	Model string

	// MaxInputBytes is the provider's per-text size limit.
	// Longer inputs fail with ErrInvalidInput. Default: 32768
	MaxInputBytes int

	// MaxRetries is the maximum number of retry attempts after a
	// rate-limited call. Default: 3
	MaxRetries int

	// RetryBaseDelay is the base delay for exponential backoff.
	// Default: 1s
	RetryBaseDelay time.Duration

	// PoolSize bounds the parallelism of batch embedding sub-requests.
	// Default: 4
	PoolSize int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the embedding service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the embedding model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithMaxInputBytes sets the per-text size limit.
func WithMaxInputBytes(n int) ConfigOption {
	return func(c *Config) {
		c.MaxInputBytes = n
	}
}

// WithMaxRetries sets the retry bound for rate-limited calls.
func WithMaxRetries(n int) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = n
	}
}

// WithRetryBaseDelay sets the base delay for exponential backoff.
func WithRetryBaseDelay(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.RetryBaseDelay = d
	}
}

// WithPoolSize sets the batch embedding worker pool size.
func WithPoolSize(n int) ConfigOption {
	return func(c *Config) {
		c.PoolSize = n
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services.
func DefaultConfig() *Config {
	return &Config{
		Host:           "http://localhost:11434/v1",
		Model:          "embeddinggemma",
		MaxInputBytes:  32768,
		MaxRetries:     3,
		RetryBaseDelay: 1 * time.Second,
		PoolSize:       4,
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options. This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434/v1"),
//	    ai.WithModel("text-embedding-3-small"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to the host if missing, which is
// required by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return errors.New("ai config: Host is required")
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.MaxInputBytes < 1 {
		return errors.New("ai config: MaxInputBytes must be positive")
	}
	if c.MaxRetries < 0 {
		return errors.New("ai config: MaxRetries cannot be negative")
	}
	if c.RetryBaseDelay < 0 {
		return errors.New("ai config: RetryBaseDelay cannot be negative")
	}
	if c.PoolSize < 1 {
		return errors.New("ai config: PoolSize must be positive")
	}
	return nil
}
