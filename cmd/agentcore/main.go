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

// Command agentcore is a minimal driver for the agent loop.
//
// Usage:
//
//	agentcore run --config config.yaml --message "what's the weather in Tokyo?"
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/arkwright/agentcore/agent"
	"github.com/arkwright/agentcore/config"
	"github.com/arkwright/agentcore/internal/metrics"
	"github.com/arkwright/agentcore/internal/obslog"
	"github.com/arkwright/agentcore/internal/tokencount"
	"github.com/arkwright/agentcore/message"
	"github.com/arkwright/agentcore/provider"
	"github.com/arkwright/agentcore/summarizer"
	"github.com/arkwright/agentcore/tool"
	"github.com/arkwright/agentcore/tool/example"
)

// CLI defines the command-line interface.
type CLI struct {
	Run RunCmd `cmd:"" help:"Run the agent loop against a single user message."`

	LogLevel string `help:"Log level (debug, info, warn, error)." default:"info"`
}

// RunCmd drives one agent loop invocation to completion, printing each
// event as it arrives.
type RunCmd struct {
	Config  string `short:"c" required:"" help:"Path to provider config YAML." type:"path"`
	Message string `short:"m" required:"" help:"User message to send."`
	System  string `short:"s" default:"You are a helpful assistant." help:"System prompt."`

	TokenLimit int `name:"token-limit" help:"Token budget before the conversation is compressed." default:"0"`
	MaxSteps   int `name:"max-steps" help:"Maximum observe-think-act steps before giving up." default:"0"`

	Tools     bool `help:"Register the example echo and weather tools."`
	NoMetrics bool `name:"no-metrics" help:"Disable the Prometheus metrics registry."`
}

func (c *RunCmd) Run(cli *CLI) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("Shutting down...")
		cancel()
	}()

	logger := slog.Default()

	if err := config.LoadDotEnv(); err != nil {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load(c.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dispatcher, err := provider.New(provider.Config{
		Provider:        provider.Name(cfg.Provider),
		APIKey:          cfg.APIKey,
		APIBaseURL:      cfg.APIBaseURL,
		Model:           cfg.Model,
		ProviderOptions: cfg.ProviderOptions,
		RetryConfig:     cfg.Retry.ToRetryConfig(),
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("build provider: %w", err)
	}

	var m *metrics.Metrics
	if !c.NoMetrics {
		m = metrics.New("agentcore")
	}
	dispatcher.RetryCallback = func(attempt int, retryErr error) {
		m.RecordRetry(string(dispatcher.Provider()))
		slog.Warn("retrying provider call", "attempt", attempt, "error", retryErr)
	}

	counter, err := tokencount.NewCounter(cfg.Model)
	if err != nil {
		return fmt.Errorf("build token counter: %w", err)
	}

	var tools []tool.Tool
	if c.Tools {
		echoTool, err := example.NewEcho()
		if err != nil {
			return fmt.Errorf("build echo tool: %w", err)
		}
		weatherTool, err := example.NewWeather()
		if err != nil {
			return fmt.Errorf("build weather tool: %w", err)
		}
		tools = []tool.Tool{echoTool, weatherTool}
	}

	state := agent.New(dispatcher, c.System, tools, summarizer.New(counter, m, logger), agent.Options{
		TokenLimit: c.TokenLimit,
		MaxSteps:   c.MaxSteps,
		Metrics:    m,
		Logger:     logger,
		Provider:   string(dispatcher.Provider()),
		Model:      dispatcher.Model(),
	})
	state.AddUserMessage(c.Message)

	events, final := state.Run(ctx)
	for ev, err := range events {
		if err != nil {
			return fmt.Errorf("agent loop: %w", err)
		}
		printEvent(ev)
	}

	fmt.Println("\n--- final answer ---")
	fmt.Println(final())
	return nil
}

func printEvent(ev *message.AgentMessageEvent) {
	switch ev.Type {
	case message.EventThinking:
		fmt.Printf("[thinking] %s\n", ev.Content)
	case message.EventToolCall:
		fmt.Printf("[tool_call] %s(%v)\n", ev.ToolCall.Function.Name, ev.ToolCall.Function.Arguments)
	case message.EventToolResult:
		if ev.Result.Success {
			fmt.Printf("[tool_result] %s -> %s\n", ev.ToolCall.Function.Name, ev.Result.Content)
		} else {
			fmt.Printf("[tool_result] %s -> error: %s\n", ev.ToolCall.Function.Name, ev.Result.Error)
		}
	case message.EventAssistantMessage:
		fmt.Printf("[assistant] %s\n", ev.Content)
	case message.EventSummarized:
		fmt.Printf("[summarized] %d -> %d tokens\n", ev.BeforeTokens, ev.AfterTokens)
	case message.EventCancelled:
		fmt.Println("[cancelled]")
	}
}

func main() {
	cli := CLI{}
	kctx := kong.Parse(&cli,
		kong.Name("agentcore"),
		kong.Description("A minimal provider-neutral LLM agent loop"),
		kong.UsageOnError(),
	)

	logger := obslog.New(cli.LogLevel)
	slog.SetDefault(logger)

	err := kctx.Run(&cli)
	kctx.FatalIfErrorf(err)
}
