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

// Package gemini adapts the canonical message model to and from the Google
// Gemini generateContent wire format: a top-level systemInstruction, a
// contents array of {role, parts}, and loosely-typed parts that fold text,
// thinking, functionCall, and functionResponse into one map shape.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arkwright/agentcore/internal/httpclient"
	"github.com/arkwright/agentcore/internal/obslog"
	"github.com/arkwright/agentcore/internal/tracing"
	"github.com/arkwright/agentcore/message"
	"github.com/arkwright/agentcore/tool"
)

// Config configures one Gemini adapter instance.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	// Logger is the root logger this adapter derives its own
	// "provider/gemini" component logger from. Nil falls back to
	// slog.Default().
	Logger *slog.Logger

	// now, when set, replaces time.Now for ID synthesis. Tests set it for
	// deterministic fallback call IDs; production leaves it nil.
	now func() int64
}

// Adapter is the Gemini generateContent API LLMClient.
type Adapter struct {
	cfg     Config
	hc      *httpclient.Client
	nowUnix func() int64
	logger  *slog.Logger
}

// New builds an Adapter. hc's HeaderParser should already be
// httpclient.ParseGeminiHeaders.
func New(cfg Config, hc *httpclient.Client) *Adapter {
	now := cfg.now
	if now == nil {
		now = defaultNow
	}
	return &Adapter{cfg: cfg, hc: hc, nowUnix: now, logger: obslog.ForComponent(cfg.Logger, "provider/gemini")}
}

// part is a raw map so one Go type can express text, thought, functionCall,
// and functionResponse shapes without a tagged union.
type part map[string]any

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type functionDeclaration struct {
	Name                 string         `json:"name"`
	Description          string         `json:"description,omitempty"`
	ParametersJSONSchema map[string]any `json:"parametersJsonSchema,omitempty"`
}

type toolSet struct {
	FunctionDeclarations []functionDeclaration `json:"functionDeclarations"`
}

type wireRequest struct {
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Contents          []content `json:"contents"`
	Tools             []toolSet `json:"tools,omitempty"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type wireResponse struct {
	Candidates    []candidate    `json:"candidates"`
	UsageMetadata usageMetadata `json:"usageMetadata"`
}

func defaultNow() int64 { return time.Now().Unix() }

// Encode translates canonical messages and tools into a generateContent
// request. The system message is lifted into systemInstruction; assistant
// becomes the "model" role, user and tool both become "user".
func Encode(cfg Config, messages []message.Message, tools []tool.Tool) wireRequest {
	var req wireRequest

	for _, m := range messages {
		switch m.Role {
		case message.RoleSystem:
			sys := req.SystemInstruction
			if sys == nil {
				sys = &content{}
				req.SystemInstruction = sys
			}
			sys.Parts = append(sys.Parts, part{"text": m.Content})
		case message.RoleAssistant:
			var parts []part
			if m.Thinking != "" {
				parts = append(parts, part{"text": m.Thinking, "thought": true})
			}
			if m.Content != "" {
				parts = append(parts, part{"text": m.Content})
			}
			for _, tc := range m.ToolCalls {
				parts = append(parts, part{
					"functionCall": map[string]any{
						"name": tc.Function.Name,
						"args": tc.Function.Arguments,
						"id":   callID(tc),
					},
				})
			}
			if len(parts) == 0 {
				parts = append(parts, part{"text": ""})
			}
			req.Contents = append(req.Contents, content{Role: "model", Parts: parts})
		case message.RoleTool:
			req.Contents = append(req.Contents, content{
				Role: "user",
				Parts: []part{{
					"functionResponse": map[string]any{
						"name": m.Name,
						"response": map[string]any{
							"result": m.Content,
						},
					},
				}},
			})
		default: // user
			text := m.Content
			parts := []part{{"text": text}}
			req.Contents = append(req.Contents, content{Role: "user", Parts: parts})
		}
	}

	for _, t := range tools {
		schema := t.ToGeminiSchema()
		req.Tools = append(req.Tools, toolSet{FunctionDeclarations: []functionDeclaration{{
			Name:                 asString(schema["name"]),
			Description:          asString(schema["description"]),
			ParametersJSONSchema: asMap(schema["parametersJsonSchema"]),
		}}})
	}
	return req
}

func callID(tc message.ToolCall) string {
	if tc.CallID != "" {
		return tc.CallID
	}
	return tc.ID
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// Decode translates a generateContent response into the canonical
// LLMResponse. Only the first candidate is considered. Tool calls whose
// wire functionCall omits an id are assigned a synthesized
// gemini_call_{timestamp}_{partIndex} id, since Gemini does not always
// issue one.
func (a *Adapter) Decode(resp wireResponse) message.LLMResponse {
	out := message.LLMResponse{
		Usage: &message.TokenUsage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		},
	}
	if len(resp.Candidates) == 0 {
		out.FinishReason = message.FinishReasonStop
		return out
	}

	cand := resp.Candidates[0]
	out.FinishReason = finishReason(cand.FinishReason)

	ts := a.nowUnix()
	for i, p := range cand.Content.Parts {
		if thought, _ := p["thought"].(bool); thought {
			if text, ok := p["text"].(string); ok {
				out.Thinking += text
			}
			continue
		}
		if text, ok := p["text"].(string); ok {
			out.Content += text
			continue
		}
		if fc, ok := p["functionCall"].(map[string]any); ok {
			id, _ := fc["id"].(string)
			if id == "" {
				id = fmt.Sprintf("gemini_call_%d_%d", ts, i)
			}
			args, _ := fc["args"].(map[string]any)
			out.ToolCalls = append(out.ToolCalls, message.ToolCall{
				CallID: id,
				ID:     id,
				Type:   "function",
				Function: message.FunctionCall{
					Name:      asString(fc["name"]),
					Arguments: args,
				},
			})
		}
	}
	if len(out.ToolCalls) > 0 {
		out.FinishReason = message.FinishReasonToolCalls
	}
	return out
}

func finishReason(reason string) message.FinishReason {
	switch reason {
	case "STOP":
		return message.FinishReasonStop
	case "MAX_TOKENS":
		return message.FinishReasonLength
	case "SAFETY", "RECITATION", "OTHER":
		return message.FinishReasonError
	case "":
		return message.FinishReasonStop
	default:
		return message.FinishReasonStop
	}
}

// Generate issues one generateContent API call.
func (a *Adapter) Generate(ctx context.Context, messages []message.Message, tools []tool.Tool) (message.LLMResponse, error) {
	ctx, span := tracing.StartGenerate(ctx, "gemini", a.cfg.Model)

	req := Encode(a.cfg, messages, tools)
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", a.cfg.BaseURL, a.cfg.Model, a.cfg.APIKey)

	a.logger.Debug("sending generate request", "model", a.cfg.Model, "contents", len(req.Contents), "tools", len(req.Tools))

	var resp wireResponse
	err := a.hc.PostJSON(ctx, url, nil, req, &resp)
	if err != nil {
		a.logger.Error("generate request failed", "model", a.cfg.Model, "error", err)
		tracing.Finish(span, "", err)
		return message.LLMResponse{}, fmt.Errorf("gemini: generate: %w", err)
	}

	out := a.Decode(resp)
	a.logger.Debug("received generate response", "finish_reason", out.FinishReason, "tool_calls", len(out.ToolCalls), "total_tokens", out.Usage.TotalTokens)
	tracing.Finish(span, string(out.FinishReason), nil)
	return out, nil
}
