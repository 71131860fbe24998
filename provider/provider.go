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

// Package provider is the thin factory that turns a configuration record
// into one of the four wire adapters, and the LLMClient contract the agent
// loop depends on.
package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/arkwright/agentcore/internal/httpclient"
	"github.com/arkwright/agentcore/internal/retry"
	"github.com/arkwright/agentcore/message"
	"github.com/arkwright/agentcore/provider/anthropic"
	"github.com/arkwright/agentcore/provider/gemini"
	"github.com/arkwright/agentcore/provider/openaichat"
	"github.com/arkwright/agentcore/provider/openairesponses"
	"github.com/arkwright/agentcore/tool"
)

// Name identifies one of the four supported wire protocols.
type Name string

const (
	Anthropic       Name = "anthropic"
	OpenAIResponses Name = "openai_responses"
	OpenAIChat      Name = "openai_chat"
	Gemini          Name = "gemini"
)

// Config is the record a Dispatcher is built from.
type Config struct {
	Provider        Name
	APIKey          string
	APIBaseURL      string
	Model           string
	ProviderOptions map[string]string
	RetryConfig     retry.Config

	// Logger is the root logger each adapter derives its own
	// "provider/<name>" component logger from. Nil falls back to
	// slog.Default().
	Logger *slog.Logger
}

// LLMClient is the sole provider contract the agent loop depends on. A
// conforming implementation honors retry internally; callers never retry a
// generate call themselves.
type LLMClient interface {
	Generate(ctx context.Context, messages []message.Message, tools []tool.Tool) (message.LLMResponse, error)
}

// UnsupportedProviderError is raised at dispatcher construction time for an
// unrecognized provider tag. It is unrecoverable: the caller made a
// configuration mistake, not a transient failure.
type UnsupportedProviderError struct {
	Provider Name
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported provider: %q", e.Provider)
}

// Dispatcher wraps one adapter and exposes read-only introspection plus a
// mutable retry-observation hook.
type Dispatcher struct {
	client   LLMClient
	provider Name
	baseURL  string
	model    string

	// RetryCallback, when set, is invoked once per retry attempt the
	// underlying adapter's HTTP call makes.
	RetryCallback retry.OnRetryFunc
}

// New builds a Dispatcher for cfg.Provider, or returns
// *UnsupportedProviderError for an unrecognized tag.
func New(cfg Config) (*Dispatcher, error) {
	if cfg.RetryConfig == (retry.Config{}) {
		cfg.RetryConfig = retry.DefaultConfig()
	}

	d := &Dispatcher{provider: cfg.Provider, baseURL: cfg.APIBaseURL, model: cfg.Model}

	hc := httpclient.New(&http.Client{Timeout: 120 * time.Second}, cfg.RetryConfig, nil)
	hc.OnRetry = func(attempt int, err error) {
		if d.RetryCallback != nil {
			d.RetryCallback(attempt, err)
		}
	}

	switch cfg.Provider {
	case Anthropic:
		hc.HeaderParser = httpclient.ParseAnthropicHeaders
		d.client = anthropic.New(anthropic.Config{
			APIKey: cfg.APIKey, BaseURL: cfg.APIBaseURL, Model: cfg.Model, Logger: cfg.Logger,
		}, hc)
	case OpenAIResponses:
		hc.HeaderParser = httpclient.ParseOpenAIHeaders
		d.client = openairesponses.New(openairesponses.Config{
			APIKey: cfg.APIKey, BaseURL: cfg.APIBaseURL, Model: cfg.Model, Logger: cfg.Logger,
		}, hc)
	case OpenAIChat:
		hc.HeaderParser = httpclient.ParseOpenAIHeaders
		d.client = openaichat.New(openaichat.Config{
			APIKey: cfg.APIKey, BaseURL: cfg.APIBaseURL, Model: cfg.Model, Logger: cfg.Logger,
		}, hc)
	case Gemini:
		hc.HeaderParser = httpclient.ParseGeminiHeaders
		d.client = gemini.New(gemini.Config{
			APIKey: cfg.APIKey, BaseURL: cfg.APIBaseURL, Model: cfg.Model, Logger: cfg.Logger,
		}, hc)
	default:
		return nil, &UnsupportedProviderError{Provider: cfg.Provider}
	}

	return d, nil
}

// Provider returns the configured provider tag.
func (d *Dispatcher) Provider() Name { return d.provider }

// APIBaseURL returns the configured base URL.
func (d *Dispatcher) APIBaseURL() string { return d.baseURL }

// Model returns the configured model name.
func (d *Dispatcher) Model() string { return d.model }

// Generate delegates to the underlying adapter.
func (d *Dispatcher) Generate(ctx context.Context, messages []message.Message, tools []tool.Tool) (message.LLMResponse, error) {
	return d.client.Generate(ctx, messages, tools)
}
