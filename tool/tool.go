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

// Package tool defines the contract a capability exposes to the agent loop,
// and the four provider-specific declaration shapes an adapter needs to
// advertise it in a generate call.
package tool

import (
	"context"

	"github.com/arkwright/agentcore/message"
)

// Tool is a single invocable capability. Name, Description, and Parameters
// describe it to a model; Execute performs it.
type Tool interface {
	Name() string
	Description() string

	// Parameters is the tool's input shape as a JSON Schema object
	// (top-level "type":"object"). A parameterless tool returns nil.
	Parameters() map[string]any

	// Execute runs the tool against already-decoded arguments. A returned
	// error is treated identically to a panic by the executor: both are
	// folded into ToolResult{Success:false}, never propagated to the loop.
	Execute(ctx context.Context, args map[string]any) (message.ToolResult, error)

	// ToAnthropicSchema renders the tool as an Anthropic Messages tool
	// declaration: {name, description, input_schema}.
	ToAnthropicSchema() map[string]any

	// ToOpenAISchema renders the tool as a Chat Completions tool
	// declaration: the nested {type:"function", function:{name,
	// description, parameters}} form.
	ToOpenAISchema() map[string]any

	// ToResponsesSchema renders the tool as an OpenAI Responses tool
	// declaration: the flat {type:"function", name, description,
	// parameters, strict:null} form.
	ToResponsesSchema() map[string]any

	// ToGeminiSchema renders the tool as a Gemini functionDeclaration:
	// {name, description, parametersJsonSchema}.
	ToGeminiSchema() map[string]any
}

// SchemaViews implements Name, Description, Parameters, and the four
// schema-view methods generically from a name/description/parameters
// triple. Embed it in a concrete Tool so only Execute needs writing.
type SchemaViews struct {
	ToolName        string
	ToolDescription string
	ToolParameters  map[string]any
}

func (v SchemaViews) Name() string              { return v.ToolName }
func (v SchemaViews) Description() string       { return v.ToolDescription }
func (v SchemaViews) Parameters() map[string]any { return v.ToolParameters }

func (v SchemaViews) ToAnthropicSchema() map[string]any {
	return map[string]any{
		"name":         v.ToolName,
		"description":  v.ToolDescription,
		"input_schema": v.ToolParameters,
	}
}

func (v SchemaViews) ToOpenAISchema() map[string]any {
	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        v.ToolName,
			"description": v.ToolDescription,
			"parameters":  v.ToolParameters,
		},
	}
}

func (v SchemaViews) ToResponsesSchema() map[string]any {
	return map[string]any{
		"type":        "function",
		"name":        v.ToolName,
		"description": v.ToolDescription,
		"parameters":  v.ToolParameters,
		"strict":      nil,
	}
}

func (v SchemaViews) ToGeminiSchema() map[string]any {
	return map[string]any{
		"name":                 v.ToolName,
		"description":          v.ToolDescription,
		"parametersJsonSchema": v.ToolParameters,
	}
}
