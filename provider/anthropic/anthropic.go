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

// Package anthropic adapts the canonical message model to and from the
// Anthropic Messages API wire format: a top-level system string, a
// content-block array per turn, and tool results folded into user-role
// tool_result blocks.
package anthropic

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arkwright/agentcore/internal/httpclient"
	"github.com/arkwright/agentcore/internal/obslog"
	"github.com/arkwright/agentcore/internal/tracing"
	"github.com/arkwright/agentcore/message"
	"github.com/arkwright/agentcore/tool"
)

const defaultMaxTokens = 4096

// Config configures one Anthropic adapter instance.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxTokens  int
	APIVersion string

	// Logger is the root logger this adapter derives its own
	// "provider/anthropic" component logger from. Nil falls back to
	// slog.Default().
	Logger *slog.Logger
}

// Adapter is the Anthropic Messages API LLMClient.
type Adapter struct {
	cfg    Config
	hc     *httpclient.Client
	logger *slog.Logger
}

// New builds an Adapter. hc's HeaderParser should already be
// httpclient.ParseAnthropicHeaders.
func New(cfg Config, hc *httpclient.Client) *Adapter {
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2023-06-01"
	}
	return &Adapter{cfg: cfg, hc: hc, logger: obslog.ForComponent(cfg.Logger, "provider/anthropic")}
}

type wireRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []wireMessage   `json:"messages"`
	Tools     []map[string]any `json:"tools,omitempty"`
}

type wireMessage struct {
	Role    string       `json:"role"`
	Content []wireBlock  `json:"content"`
}

type wireBlock struct {
	Type      string         `json:"type"`
	Text      string         `json:"text,omitempty"`
	Thinking  string         `json:"thinking,omitempty"`
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name,omitempty"`
	Input     map[string]any `json:"input,omitempty"`
	ToolUseID string         `json:"tool_use_id,omitempty"`
	Content   string         `json:"content,omitempty"`
	IsError   bool           `json:"is_error,omitempty"`
}

type wireResponse struct {
	ID         string      `json:"id"`
	StopReason string      `json:"stop_reason"`
	Content    []wireBlock `json:"content"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Encode translates canonical messages and tools into the Anthropic wire
// request shape: the sole system message (if any) is lifted into the
// top-level system field; every other message becomes one content-bearing
// turn.
func Encode(cfg Config, messages []message.Message, tools []tool.Tool) wireRequest {
	req := wireRequest{Model: cfg.Model, MaxTokens: cfg.MaxTokens}

	for _, m := range messages {
		switch m.Role {
		case message.RoleSystem:
			if req.System != "" {
				req.System += "\n\n"
			}
			req.System += m.Content
		case message.RoleAssistant:
			var blocks []wireBlock
			if m.Thinking != "" {
				blocks = append(blocks, wireBlock{Type: "thinking", Thinking: m.Thinking})
			}
			if m.Content != "" {
				blocks = append(blocks, wireBlock{Type: "text", Text: m.Content})
			}
			for _, tc := range m.ToolCalls {
				blocks = append(blocks, wireBlock{
					Type:  "tool_use",
					ID:    callID(tc),
					Name:  tc.Function.Name,
					Input: tc.Function.Arguments,
				})
			}
			req.Messages = append(req.Messages, wireMessage{Role: "assistant", Content: blocks})
		case message.RoleTool:
			req.Messages = append(req.Messages, wireMessage{
				Role: "user",
				Content: []wireBlock{{
					Type:      "tool_result",
					ToolUseID: m.CallID,
					Content:   m.Content,
				}},
			})
		default: // user
			req.Messages = append(req.Messages, wireMessage{
				Role:    "user",
				Content: []wireBlock{{Type: "text", Text: m.Content}},
			})
		}
	}

	for _, t := range tools {
		req.Tools = append(req.Tools, t.ToAnthropicSchema())
	}
	return req
}

func callID(tc message.ToolCall) string {
	if tc.CallID != "" {
		return tc.CallID
	}
	return tc.ID
}

// Decode translates an Anthropic Messages API response into the canonical
// LLMResponse. Text and thinking blocks are concatenated in wire order;
// tool_use blocks become ToolCalls with CallID and ID set to the same wire
// id, since Anthropic does not distinguish the two.
func Decode(resp wireResponse) message.LLMResponse {
	out := message.LLMResponse{
		FinishReason: finishReason(resp.StopReason),
		ResponseID:   resp.ID,
		Usage: &message.TokenUsage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}

	for _, b := range resp.Content {
		switch b.Type {
		case "text":
			out.Content += b.Text
		case "thinking":
			out.Thinking += b.Thinking
		case "tool_use":
			out.ToolCalls = append(out.ToolCalls, message.ToolCall{
				CallID: b.ID,
				ID:     b.ID,
				Type:   "function",
				Function: message.FunctionCall{
					Name:      b.Name,
					Arguments: b.Input,
				},
			})
		}
	}
	return out
}

func finishReason(stopReason string) message.FinishReason {
	switch stopReason {
	case "end_turn", "stop_sequence":
		return message.FinishReasonStop
	case "max_tokens":
		return message.FinishReasonLength
	case "tool_use":
		return message.FinishReasonToolCalls
	default:
		return message.FinishReasonStop
	}
}

// Generate issues one Anthropic Messages API call.
func (a *Adapter) Generate(ctx context.Context, messages []message.Message, tools []tool.Tool) (message.LLMResponse, error) {
	ctx, span := tracing.StartGenerate(ctx, "anthropic", a.cfg.Model)

	req := Encode(a.cfg, messages, tools)
	headers := map[string]string{
		"x-api-key":         a.cfg.APIKey,
		"anthropic-version": a.cfg.APIVersion,
	}

	a.logger.Debug("sending generate request", "model", a.cfg.Model, "messages", len(req.Messages), "tools", len(req.Tools))

	var resp wireResponse
	url := a.cfg.BaseURL + "/v1/messages"
	err := a.hc.PostJSON(ctx, url, headers, req, &resp)
	if err != nil {
		a.logger.Error("generate request failed", "model", a.cfg.Model, "error", err)
		tracing.Finish(span, "", err)
		return message.LLMResponse{}, fmt.Errorf("anthropic: generate: %w", err)
	}

	out := Decode(resp)
	a.logger.Debug("received generate response", "finish_reason", out.FinishReason, "tool_calls", len(out.ToolCalls), "total_tokens", out.Usage.TotalTokens)
	tracing.Finish(span, string(out.FinishReason), nil)
	return out, nil
}
