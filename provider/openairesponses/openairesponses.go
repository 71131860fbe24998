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

// Package openairesponses adapts the canonical message model to and from
// OpenAI's Responses API: a flat, typed "input"/"output" item array rather
// than a role/content message list. One canonical assistant message can
// expand into several items — reasoning, then function_call, then an
// optional message item — always in that order.
package openairesponses

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

// Config configures one OpenAI Responses adapter instance.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	// Logger is the root logger this adapter derives its own
	// "provider/openai_responses" component logger from. Nil falls back to
	// slog.Default().
	Logger *slog.Logger
}

// Adapter is the OpenAI Responses API LLMClient.
type Adapter struct {
	cfg    Config
	hc     *httpclient.Client
	logger *slog.Logger
}

// New builds an Adapter. hc's HeaderParser should already be
// httpclient.ParseOpenAIHeaders.
func New(cfg Config, hc *httpclient.Client) *Adapter {
	return &Adapter{cfg: cfg, hc: hc, logger: obslog.ForComponent(cfg.Logger, "provider/openai_responses")}
}

type item struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Role      string          `json:"role,omitempty"`
	Content   []contentPart   `json:"content,omitempty"`
	Summary   []summaryPart   `json:"summary,omitempty"`
	CallID    string          `json:"call_id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Arguments string          `json:"arguments,omitempty"`
	Output    string          `json:"output,omitempty"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type summaryPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type wireRequest struct {
	Model        string           `json:"model"`
	Instructions string           `json:"instructions,omitempty"`
	Input        []item           `json:"input"`
	Tools        []map[string]any `json:"tools,omitempty"`
}

type wireResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Output []item `json:"output"`
	Usage  struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Encode translates canonical messages and tools into a Responses API
// request. The (at most one, by convention) system message is lifted into
// the top-level instructions field.
func Encode(cfg Config, messages []message.Message, tools []tool.Tool) wireRequest {
	req := wireRequest{Model: cfg.Model}

	for _, m := range messages {
		switch m.Role {
		case message.RoleSystem:
			if req.Instructions != "" {
				req.Instructions += "\n\n"
			}
			req.Instructions += m.Content
		case message.RoleAssistant:
			for _, r := range m.ReasoningItems {
				req.Input = append(req.Input, item{
					Type:    "reasoning",
					ID:      r.ID,
					Summary: []summaryPart{{Type: "summary_text", Text: r.Summary}},
				})
			}
			for _, tc := range m.ToolCalls {
				args, _ := json.Marshal(tc.Function.Arguments)
				req.Input = append(req.Input, item{
					Type:      "function_call",
					ID:        tc.ID,
					CallID:    tc.CallID,
					Name:      tc.Function.Name,
					Arguments: string(args),
				})
			}
			if m.Content != "" {
				req.Input = append(req.Input, item{
					Type:    "message",
					Role:    "assistant",
					Content: []contentPart{{Type: "output_text", Text: m.Content}},
				})
			}
		case message.RoleTool:
			req.Input = append(req.Input, item{
				Type:   "function_call_output",
				CallID: m.CallID,
				Output: m.Content,
			})
		default: // user
			req.Input = append(req.Input, item{
				Type:    "message",
				Role:    "user",
				Content: []contentPart{{Type: "input_text", Text: m.Content}},
			})
		}
	}

	for _, t := range tools {
		req.Tools = append(req.Tools, t.ToResponsesSchema())
	}
	return req
}

// Decode translates a Responses API response into the canonical
// LLMResponse, preserving reasoning item IDs and both of a function_call
// item's identifiers so the turn can be replayed verbatim.
func Decode(resp wireResponse) message.LLMResponse {
	out := message.LLMResponse{
		FinishReason: finishReason(resp.Status),
		ResponseID:   resp.ID,
		Usage: &message.TokenUsage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}

	for _, it := range resp.Output {
		switch it.Type {
		case "reasoning":
			summary := ""
			if len(it.Summary) > 0 {
				summary = it.Summary[0].Text
			}
			out.ReasoningItems = append(out.ReasoningItems, message.ReasoningItem{ID: it.ID, Summary: summary})
			out.Thinking += summary
		case "message":
			for _, c := range it.Content {
				out.Content += c.Text
			}
		case "function_call":
			var args map[string]any
			_ = json.Unmarshal([]byte(it.Arguments), &args)
			out.ToolCalls = append(out.ToolCalls, message.ToolCall{
				CallID: it.CallID,
				ID:     it.ID,
				Type:   "function",
				Function: message.FunctionCall{
					Name:      it.Name,
					Arguments: args,
				},
			})
		}
	}
	if len(out.ToolCalls) > 0 && out.FinishReason == message.FinishReasonStop {
		out.FinishReason = message.FinishReasonToolCalls
	}
	return out
}

func finishReason(status string) message.FinishReason {
	switch status {
	case "completed":
		return message.FinishReasonStop
	case "incomplete":
		return message.FinishReasonLength
	case "failed":
		return message.FinishReasonError
	case "cancelled":
		return message.FinishReasonCancelled
	default:
		return message.FinishReasonStop
	}
}

// Generate issues one Responses API call.
func (a *Adapter) Generate(ctx context.Context, messages []message.Message, tools []tool.Tool) (message.LLMResponse, error) {
	ctx, span := tracing.StartGenerate(ctx, "openai_responses", a.cfg.Model)

	req := Encode(a.cfg, messages, tools)
	headers := map[string]string{"Authorization": "Bearer " + a.cfg.APIKey}

	a.logger.Debug("sending generate request", "model", a.cfg.Model, "input_items", len(req.Input), "tools", len(req.Tools))

	var resp wireResponse
	url := a.cfg.BaseURL + "/v1/responses"
	err := a.hc.PostJSON(ctx, url, headers, req, &resp)
	if err != nil {
		a.logger.Error("generate request failed", "model", a.cfg.Model, "error", err)
		tracing.Finish(span, "", err)
		return message.LLMResponse{}, fmt.Errorf("openairesponses: generate: %w", err)
	}

	out := Decode(resp)
	a.logger.Debug("received generate response", "finish_reason", out.FinishReason, "tool_calls", len(out.ToolCalls), "total_tokens", out.Usage.TotalTokens)
	tracing.Finish(span, string(out.FinishReason), nil)
	return out, nil
}
