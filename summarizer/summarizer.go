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

// Package summarizer bounds conversation growth by compressing the oldest
// rounds of a message list into one synthetic summary message, calling the
// agent's own LLM client to produce the compressed text.
package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arkwright/agentcore/internal/metrics"
	"github.com/arkwright/agentcore/internal/obslog"
	"github.com/arkwright/agentcore/internal/tokencount"
	"github.com/arkwright/agentcore/message"
	"github.com/arkwright/agentcore/tool"
)

// RetainedRounds is the number of most-recent rounds summarization never
// compresses, regardless of token pressure.
const RetainedRounds = 3

// perMessageOverhead approximates a message envelope's token cost (role,
// delimiters) beyond its raw text content.
const perMessageOverhead = 4

const compressionSystemPrompt = "You write concise English summaries of conversation history. " +
	"Summarize the following conversation in 2000 words or fewer. " +
	"If a previous context summary is included, integrate it rather than discarding it. " +
	"Respond with only the summary text."

const maxToolResultChars = 500

// LLMClient is the subset of provider.LLMClient the summarizer needs: one
// generate call, used with no tools, to produce compressed text.
type LLMClient interface {
	Generate(ctx context.Context, messages []message.Message, tools []tool.Tool) (message.LLMResponse, error)
}

// Summarizer inspects a message list and, when estimated or
// provider-reported token usage crosses tokenLimit, compresses the oldest
// rounds into a single summary message.
type Summarizer struct {
	counter *tokencount.Counter
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New builds a Summarizer that estimates token cost with counter.
// logger is the root logger to derive the "summarizer" component logger
// from; nil falls back to slog.Default().
func New(counter *tokencount.Counter, m *metrics.Metrics, logger *slog.Logger) *Summarizer {
	return &Summarizer{counter: counter, metrics: m, logger: obslog.ForComponent(logger, "summarizer")}
}

// EstimateTokens approximates the token cost of messages: each message's
// content (and, for assistant messages, a tool-call summary line)
// contributes its counted tokens plus perMessageOverhead.
func (s *Summarizer) EstimateTokens(messages []message.Message) int {
	total := 0
	for _, m := range messages {
		total += perMessageOverhead
		total += s.counter.Count(m.Content)
		if len(m.ToolCalls) > 0 {
			total += s.counter.Count(toolCallsLine(m.ToolCalls))
		}
	}
	return total
}

// Summarize runs one summarization attempt against messages using client
// (the agent's own LLM, called with no tools), honoring the debounce flag.
// It returns the (possibly rewritten) message list, the updated debounce
// flag, and an event to yield, or nil if no compression occurred.
func (s *Summarizer) Summarize(
	ctx context.Context,
	client LLMClient,
	messages []message.Message,
	tokenLimit int,
	apiTotalTokens int,
	skipNextTokenCheck bool,
) ([]message.Message, bool, *message.AgentMessageEvent) {
	if skipNextTokenCheck {
		return messages, false, nil
	}

	beforeTokens := s.EstimateTokens(messages)
	if beforeTokens <= tokenLimit && apiTotalTokens <= tokenLimit {
		return messages, false, nil
	}

	rounds := partitionRounds(messages)
	if len(rounds) <= RetainedRounds {
		return messages, false, nil
	}

	s.logger.Debug("compressing conversation", "before_tokens", beforeTokens, "token_limit", tokenLimit, "rounds", len(rounds))

	k := len(rounds) - RetainedRounds
	toCompress := rounds[:k]
	kept := rounds[k:]

	existingSummary, gathered := extractExistingSummary(toCompress)
	input := buildCompressionInput(existingSummary, gathered)

	resp, err := client.Generate(ctx, []message.Message{
		message.NewSystemMessage(compressionSystemPrompt),
		message.NewUserMessage(input),
	}, nil)
	if err != nil {
		s.logger.Warn("summarization generate call failed, leaving conversation uncompressed", "error", err)
		return messages, true, nil
	}
	if strings.TrimSpace(resp.Content) == "" {
		s.logger.Warn("summarization returned an empty reply, leaving conversation uncompressed")
		return messages, true, nil
	}

	summaryMsg := message.Message{
		Role: message.RoleUser,
		Content: fmt.Sprintf("%s\n\nThe following is a summary of our previous conversation, not a new user request.\n\n%s",
			message.SummaryPrefix, strings.TrimSpace(resp.Content)),
	}

	rebuilt := []message.Message{messages[0], summaryMsg}
	for _, round := range kept {
		rebuilt = append(rebuilt, round...)
	}

	afterTokens := s.EstimateTokens(rebuilt)
	s.metrics.RecordSummarization()
	s.logger.Debug("compressed conversation", "before_tokens", beforeTokens, "after_tokens", afterTokens, "rounds_compressed", k)

	return rebuilt, true, message.SummarizedEvent(beforeTokens, afterTokens)
}

// partitionRounds splits messages[1:] (excluding the system message at
// index 0) into rounds, where each user-role message starts a new round
// that runs up to but excluding the next user-role message.
func partitionRounds(messages []message.Message) [][]message.Message {
	if len(messages) <= 1 {
		return nil
	}

	var rounds [][]message.Message
	var current []message.Message
	for _, m := range messages[1:] {
		if m.Role == message.RoleUser && len(current) > 0 {
			rounds = append(rounds, current)
			current = nil
		}
		current = append(current, m)
	}
	if len(current) > 0 {
		rounds = append(rounds, current)
	}
	return rounds
}

// extractExistingSummary pulls a prior summary message's body (if any) out
// of the rounds being compressed, and returns the remaining messages to
// gather into the compression input in round order.
func extractExistingSummary(rounds [][]message.Message) (string, []message.Message) {
	var existing string
	var gathered []message.Message
	for _, round := range rounds {
		for _, m := range round {
			if m.IsSummary() {
				existing = strings.TrimPrefix(m.Content, message.SummaryPrefix)
				existing = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(existing),
					"The following is a summary of our previous conversation, not a new user request."))
				continue
			}
			gathered = append(gathered, m)
		}
	}
	return existing, gathered
}

func buildCompressionInput(existingSummary string, gathered []message.Message) string {
	var b strings.Builder
	if existingSummary != "" {
		b.WriteString("Previous Context Summary:\n")
		b.WriteString(existingSummary)
		b.WriteString("\n\n")
	}

	for _, m := range gathered {
		switch m.Role {
		case message.RoleUser:
			b.WriteString("User: ")
			b.WriteString(m.Content)
			b.WriteString("\n")
		case message.RoleAssistant:
			b.WriteString("Assistant: ")
			b.WriteString(m.Content)
			b.WriteString("\n")
			if len(m.ToolCalls) > 0 {
				b.WriteString("Tools called: ")
				b.WriteString(toolCallsLine(m.ToolCalls))
				b.WriteString("\n")
			}
		case message.RoleTool:
			b.WriteString("Tool result: ")
			b.WriteString(truncate(m.Content, maxToolResultChars))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func toolCallsLine(calls []message.ToolCall) string {
	names := make([]string, len(calls))
	for i, c := range calls {
		names[i] = c.Function.Name
	}
	return strings.Join(names, ", ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
