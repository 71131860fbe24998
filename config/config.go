// Copyright 2025 The agentcore Authors
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

// Package config loads the {apiKey, provider, apiBaseURL, model,
// providerOptions, retryConfig} record the provider dispatcher needs to
// build an adapter, from a YAML file with ${VAR} environment expansion.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/arkwright/agentcore/internal/retry"
)

// ProviderName identifies which of the four adapters to build.
type ProviderName string

const (
	ProviderAnthropic       ProviderName = "anthropic"
	ProviderOpenAIResponses ProviderName = "openai_responses"
	ProviderOpenAIChat      ProviderName = "openai_chat"
	ProviderGemini          ProviderName = "gemini"
)

// RetryConfig is the YAML-facing mirror of retry.Config, expressed in
// seconds the way the rest of this module's configuration surface is.
type RetryConfig struct {
	Enabled         *bool   `yaml:"enabled,omitempty"`
	MaxRetries      int     `yaml:"max_retries,omitempty"`
	InitialDelay    float64 `yaml:"initial_delay,omitempty"`
	MaxDelay        float64 `yaml:"max_delay,omitempty"`
	ExponentialBase float64 `yaml:"exponential_base,omitempty"`
}

// ToRetryConfig converts the YAML record into retry.Config, applying
// retry.DefaultConfig for zero-valued fields.
func (r RetryConfig) ToRetryConfig() retry.Config {
	cfg := retry.DefaultConfig()
	if r.Enabled != nil {
		cfg.Enabled = *r.Enabled
	}
	if r.MaxRetries > 0 {
		cfg.MaxRetries = r.MaxRetries
	}
	if r.InitialDelay > 0 {
		cfg.InitialDelay = time.Duration(r.InitialDelay * float64(time.Second))
	}
	if r.MaxDelay > 0 {
		cfg.MaxDelay = time.Duration(r.MaxDelay * float64(time.Second))
	}
	if r.ExponentialBase > 0 {
		cfg.ExponentialBase = r.ExponentialBase
	}
	return cfg
}

// ProviderConfig is the record a provider.Dispatcher is built from.
type ProviderConfig struct {
	Provider        ProviderName      `yaml:"provider"`
	APIKey          string            `yaml:"api_key,omitempty"`
	APIBaseURL      string            `yaml:"api_base_url,omitempty"`
	Model           string            `yaml:"model"`
	ProviderOptions map[string]string `yaml:"provider_options,omitempty"`
	Retry           RetryConfig       `yaml:"retry,omitempty"`
}

// Load reads and parses a ProviderConfig from a YAML file at path,
// expanding ${VAR} references in every string field against the process
// environment, then applying SetDefaults and Validate.
func Load(path string) (*ProviderConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	expanded := os.Expand(string(raw), os.Getenv)

	var cfg ProviderConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

// SetDefaults fills in the API key from the provider's conventional
// environment variable when unset, and the default base URL per provider.
func (c *ProviderConfig) SetDefaults() {
	if c.APIKey == "" {
		c.APIKey = apiKeyFromEnv(c.Provider)
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultBaseURL(c.Provider)
	}
}

// Validate checks that the config names a supported provider, a model, and
// an API key; every provider requires one.
func (c *ProviderConfig) Validate() error {
	switch c.Provider {
	case ProviderAnthropic, ProviderOpenAIResponses, ProviderOpenAIChat, ProviderGemini:
	case "":
		return fmt.Errorf("provider is required")
	default:
		return fmt.Errorf("unsupported provider %q", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("api_key is required for provider %q", c.Provider)
	}
	return nil
}

func apiKeyFromEnv(provider ProviderName) string {
	switch provider {
	case ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	case ProviderOpenAIResponses, ProviderOpenAIChat:
		return os.Getenv("OPENAI_API_KEY")
	case ProviderGemini:
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("GOOGLE_API_KEY")
	default:
		return ""
	}
}

func defaultBaseURL(provider ProviderName) string {
	switch provider {
	case ProviderAnthropic:
		return "https://api.anthropic.com"
	case ProviderOpenAIResponses, ProviderOpenAIChat:
		return "https://api.openai.com"
	case ProviderGemini:
		return "https://generativelanguage.googleapis.com"
	default:
		return ""
	}
}

// LoadDotEnv loads .env.local then .env from the current directory into the
// process environment, for local development convenience. A missing file
// is not an error; a malformed one is.
func LoadDotEnv() error {
	for _, file := range []string{".env.local", ".env"} {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	return nil
}
