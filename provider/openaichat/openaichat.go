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

// Package openaichat adapts the canonical message model to and from
// OpenAI's Chat Completions API: a flat messages array of
// {role, content, tool_calls?, tool_call_id?} objects, the most
// conventional of the four wire shapes this module speaks.
package openaichat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/arkwright/agentcore/internal/httpclient"
	"github.com/arkwright/agentcore/internal/obslog"
	"github.com/arkwright/agentcore/internal/tracing"
	"github.com/arkwright/agentcore/message"
	"github.com/arkwright/agentcore/tool"
)

// Config configures one Chat Completions adapter instance.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	// Logger is the root logger this adapter derives its own
	// "provider/openai_chat" component logger from. Nil falls back to
	// slog.Default().
	Logger *slog.Logger
}

// Adapter is the OpenAI Chat Completions API LLMClient.
type Adapter struct {
	cfg    Config
	hc     *httpclient.Client
	logger *slog.Logger
}

// New builds an Adapter. hc's HeaderParser should already be
// httpclient.ParseOpenAIHeaders.
func New(cfg Config, hc *httpclient.Client) *Adapter {
	return &Adapter{cfg: cfg, hc: hc, logger: obslog.ForComponent(cfg.Logger, "provider/openai_chat")}
}

type wireToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type wireMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	Name       string         `json:"name,omitempty"`
}

type wireRequest struct {
	Model    string           `json:"model"`
	Messages []wireMessage    `json:"messages"`
	Tools    []map[string]any `json:"tools,omitempty"`
}

type wireChoice struct {
	Message      wireMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type wireResponse struct {
	ID      string       `json:"id"`
	Choices []wireChoice `json:"choices"`
	Usage   struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Encode translates canonical messages and tools into a Chat Completions
// request. System, user, assistant, and tool messages each map to one wire
// message, in order; tool call arguments are JSON-stringified.
func Encode(cfg Config, messages []message.Message, tools []tool.Tool) wireRequest {
	req := wireRequest{Model: cfg.Model}

	for _, m := range messages {
		switch m.Role {
		case message.RoleSystem:
			req.Messages = append(req.Messages, wireMessage{Role: "system", Content: m.Content})
		case message.RoleAssistant:
			wm := wireMessage{Role: "assistant", Content: m.Content}
			for _, tc := range m.ToolCalls {
				args, _ := json.Marshal(tc.Function.Arguments)
				wm.ToolCalls = append(wm.ToolCalls, wireToolCall{
					ID:   callID(tc),
					Type: "function",
					Function: struct {
						Name      string `json:"name"`
						Arguments string `json:"arguments"`
					}{Name: tc.Function.Name, Arguments: string(args)},
				})
			}
			req.Messages = append(req.Messages, wm)
		case message.RoleTool:
			req.Messages = append(req.Messages, wireMessage{
				Role:       "tool",
				Content:    m.Content,
				ToolCallID: m.CallID,
				Name:       m.Name,
			})
		default: // user
			req.Messages = append(req.Messages, wireMessage{Role: "user", Content: m.Content})
		}
	}

	for _, t := range tools {
		req.Tools = append(req.Tools, t.ToOpenAISchema())
	}
	return req
}

func callID(tc message.ToolCall) string {
	if tc.CallID != "" {
		return tc.CallID
	}
	return tc.ID
}

// Decode translates a Chat Completions response into the canonical
// LLMResponse. Only the first choice is considered; non-function tool
// calls (there are none defined by this API today) would be ignored.
// Reasoning is never populated: Chat Completions carries no reasoning
// channel.
func Decode(resp wireResponse) message.LLMResponse {
	out := message.LLMResponse{
		ResponseID: resp.ID,
		Usage: &message.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	if len(resp.Choices) == 0 {
		out.FinishReason = message.FinishReasonStop
		return out
	}

	choice := resp.Choices[0]
	out.Content = choice.Message.Content
	out.FinishReason = finishReason(choice.FinishReason)

	for _, tc := range choice.Message.ToolCalls {
		if tc.Type != "function" && tc.Type != "" {
			continue
		}
		var args map[string]any
		_ = json.Unmarshal([]byte(tc.Function.Arguments), &args)
		out.ToolCalls = append(out.ToolCalls, message.ToolCall{
			CallID: tc.ID,
			ID:     tc.ID,
			Type:   "function",
			Function: message.FunctionCall{
				Name:      tc.Function.Name,
				Arguments: args,
			},
		})
	}
	return out
}

func finishReason(reason string) message.FinishReason {
	switch reason {
	case "stop":
		return message.FinishReasonStop
	case "length":
		return message.FinishReasonLength
	case "tool_calls":
		return message.FinishReasonToolCalls
	case "content_filter":
		return message.FinishReasonError
	default:
		return message.FinishReasonStop
	}
}

// Generate issues one Chat Completions API call.
func (a *Adapter) Generate(ctx context.Context, messages []message.Message, tools []tool.Tool) (message.LLMResponse, error) {
	ctx, span := tracing.StartGenerate(ctx, "openai_chat", a.cfg.Model)

	req := Encode(a.cfg, messages, tools)
	headers := map[string]string{"Authorization": "Bearer " + a.cfg.APIKey}

	a.logger.Debug("sending generate request", "model", a.cfg.Model, "messages", len(req.Messages), "tools", len(req.Tools))

	var resp wireResponse
	url := a.cfg.BaseURL + "/v1/chat/completions"
	err := a.hc.PostJSON(ctx, url, headers, req, &resp)
	if err != nil {
		a.logger.Error("generate request failed", "model", a.cfg.Model, "error", err)
		tracing.Finish(span, "", err)
		return message.LLMResponse{}, fmt.Errorf("openaichat: generate: %w", err)
	}

	out := Decode(resp)
	a.logger.Debug("received generate response", "finish_reason", out.FinishReason, "tool_calls", len(out.ToolCalls), "total_tokens", out.Usage.TotalTokens)
	tracing.Finish(span, string(out.FinishReason), nil)
	return out, nil
}
