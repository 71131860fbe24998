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

// Package example provides two self-contained sample tools — echo and
// weather — useful for exercising the agent loop without any external
// dependency.
package example

import (
	"context"

	"github.com/arkwright/agentcore/message"
	"github.com/arkwright/agentcore/tool"
	"github.com/arkwright/agentcore/tool/schema"
)

// EchoArgs is the echo tool's input shape.
type EchoArgs struct {
	Text string `json:"text" jsonschema:"required,description=Text to echo back"`
}

// Echo is the trivial in-memory tool: it returns its input verbatim,
// useful for exercising the tool-call loop without side effects.
type Echo struct {
	tool.SchemaViews
}

// NewEcho builds an Echo tool with its schema derived from EchoArgs.
func NewEcho() (*Echo, error) {
	params, err := schema.FromStruct[EchoArgs]()
	if err != nil {
		return nil, err
	}
	return &Echo{SchemaViews: tool.SchemaViews{
		ToolName:        "echo",
		ToolDescription: "Echo back the given text",
		ToolParameters:  params,
	}}, nil
}

// Execute returns args.Text unchanged.
func (e *Echo) Execute(ctx context.Context, args map[string]any) (message.ToolResult, error) {
	a, err := schema.Bind[EchoArgs](args)
	if err != nil {
		return message.ToolResult{}, err
	}
	return message.ToolResult{Success: true, Content: a.Text}, nil
}
