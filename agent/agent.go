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

// Package agent implements the observe-think-act loop: it drives an
// LLMClient and a set of tools through successive steps, compressing
// context via a Summarizer and honoring cooperative cancellation, emitting
// a stream of AgentMessageEvents along the way.
package agent

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/google/uuid"

	"github.com/arkwright/agentcore/cancel"
	"github.com/arkwright/agentcore/internal/metrics"
	"github.com/arkwright/agentcore/internal/obslog"
	"github.com/arkwright/agentcore/message"
	"github.com/arkwright/agentcore/summarizer"
	"github.com/arkwright/agentcore/tool"
)

const (
	defaultTokenLimit = 80000
	defaultMaxSteps   = 50
)

// LLMClient is the sole provider contract the loop depends on.
type LLMClient interface {
	Generate(ctx context.Context, messages []message.Message, tools []tool.Tool) (message.LLMResponse, error)
}

// Options configures a new AgentState. Zero values fall back to the
// defaults named in the per-step algorithm.
type Options struct {
	TokenLimit int
	MaxSteps   int
	Metrics    *metrics.Metrics

	// Logger is the root logger this loop derives its "agent" component
	// logger from. Nil falls back to slog.Default().
	Logger *slog.Logger

	// Provider and Model label metrics only; they don't affect behavior.
	Provider string
	Model    string
}

// AgentState is the mutable state one run loop owns: the conversation so
// far, the tools available to it, and the bookkeeping the summarizer and
// cancellation logic need between steps.
type AgentState struct {
	llm   LLMClient
	tools []tool.Tool

	Messages   []message.Message
	tokenLimit int
	maxSteps   int

	apiTotalTokens     int
	skipNextTokenCheck bool

	summarizer *summarizer.Summarizer
	metrics    *metrics.Metrics
	rootLogger *slog.Logger
	logger     *slog.Logger
	provider   string
	model      string
}

// New seeds messages with the given system prompt and returns a fresh
// AgentState ready to accept user input and run.
func New(llm LLMClient, systemPrompt string, tools []tool.Tool, counter *summarizer.Summarizer, opts Options) *AgentState {
	tokenLimit := opts.TokenLimit
	if tokenLimit == 0 {
		tokenLimit = defaultTokenLimit
	}
	maxSteps := opts.MaxSteps
	if maxSteps == 0 {
		maxSteps = defaultMaxSteps
	}

	return &AgentState{
		llm:        llm,
		tools:      tools,
		Messages:   []message.Message{message.NewSystemMessage(systemPrompt)},
		tokenLimit: tokenLimit,
		maxSteps:   maxSteps,
		summarizer: counter,
		metrics:    opts.Metrics,
		rootLogger: opts.Logger,
		logger:     obslog.ForComponent(opts.Logger, "agent"),
		provider:   opts.Provider,
		model:      opts.Model,
	}
}

// AddUserMessage appends a user-role message to the conversation. Callers
// must do this between runs, never while a Run is in progress.
func (s *AgentState) AddUserMessage(text string) {
	s.Messages = append(s.Messages, message.NewUserMessage(text))
}

// Run drives the agent loop to completion, returning a lazy, finite,
// non-restartable sequence of events and an accessor for the final answer
// string that's only meaningful once the sequence has been fully consumed.
// ctx is the cooperative cancellation signal: canceling it stops the loop
// at its next checkpoint, never mid-tool-execution.
func (s *AgentState) Run(ctx context.Context) (iter.Seq2[*message.AgentMessageEvent, error], func() string) {
	var final string
	seq := func(yield func(*message.AgentMessageEvent, error) bool) {
		final = s.run(ctx, yield)
	}
	return seq, func() string { return final }
}

func (s *AgentState) run(ctx context.Context, yield func(*message.AgentMessageEvent, error) bool) string {
	for step := 0; step < s.maxSteps; step++ {
		if ctx.Err() != nil {
			return s.cancelled(yield)
		}

		rebuilt, debounce, event := s.summarizer.Summarize(ctx, s.llm, s.Messages, s.tokenLimit, s.apiTotalTokens, s.skipNextTokenCheck)
		s.Messages = rebuilt
		s.skipNextTokenCheck = debounce
		if event != nil {
			if !yield(event, nil) {
				return ""
			}
		}

		s.metrics.RecordStep(s.provider)
		resp, err := cancel.GenerateWithSignal(ctx, s.llm, s.Messages, s.tools)
		if err != nil {
			if ctx.Err() != nil {
				return s.cancelled(yield)
			}
			yield(nil, err)
			return ""
		}

		if resp.Usage != nil {
			s.apiTotalTokens = resp.Usage.TotalTokens
			s.metrics.RecordTokenUsage(s.provider, s.model, resp.Usage.TotalTokens)
		}

		for i, tc := range resp.ToolCalls {
			if tc.CallID == "" {
				tc.CallID = uuid.NewString()
				s.logger.Warn("provider supplied no tool call id, synthesizing one", "tool", tc.Function.Name, "call_id", tc.CallID)
				resp.ToolCalls[i] = tc
			}
		}

		s.Messages = append(s.Messages, message.NewAssistantMessage(resp.Content, resp.Thinking, resp.ReasoningItems, resp.ToolCalls))

		if resp.Thinking != "" {
			if !yield(message.ThinkingEvent(resp.Thinking), nil) {
				return ""
			}
		}
		if resp.Content != "" && len(resp.ToolCalls) == 0 {
			if !yield(message.AssistantMessageEvent(resp.Content), nil) {
				return ""
			}
		}
		if len(resp.ToolCalls) == 0 {
			return resp.Content
		}

		if ctx.Err() != nil {
			return s.cancelled(yield)
		}

		for _, tc := range resp.ToolCalls {
			if !yield(message.ToolCallEvent(tc), nil) {
				return ""
			}

			result := tool.Execute(ctx, s.tools, tc.Function.Name, tc.Function.Arguments, s.rootLogger)
			s.metrics.RecordToolCall(tc.Function.Name, result.Success)

			if !yield(message.ToolResultEvent(tc, result), nil) {
				return ""
			}

			content := result.Content
			if !result.Success {
				content = "Error: " + result.Error
			}
			s.Messages = append(s.Messages, message.NewToolMessage(tc.CallID, tc.Function.Name, content))

			if ctx.Err() != nil {
				return s.cancelled(yield)
			}
		}
	}

	return fmt.Sprintf("Task couldn't be completed after %d steps.", s.maxSteps)
}

func (s *AgentState) cancelled(yield func(*message.AgentMessageEvent, error) bool) string {
	s.Messages = cancel.CleanupIncompleteMessages(s.Messages)
	yield(message.CancelledEvent(), nil)
	return cancel.CancelledAnswer
}
