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

package tool

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/arkwright/agentcore/internal/obslog"
	"github.com/arkwright/agentcore/message"
)

// Execute is the agent loop's single trust boundary between arbitrary tool
// code and everything else: a tool must not be able to kill the agent.
//
// It looks up name in tools, invokes its Execute with args, and folds any
// panic or returned error into a failed ToolResult rather than letting it
// propagate. logger may be nil; pass the root logger, not a component
// logger, since Execute tags its own lines under "tool".
func Execute(ctx context.Context, tools []Tool, name string, args map[string]any, logger *slog.Logger) (result message.ToolResult) {
	log := obslog.ForComponent(logger, "tool")

	var target Tool
	for _, t := range tools {
		if t.Name() == name {
			target = t
			break
		}
	}
	if target == nil {
		log.Warn("unknown tool requested", "tool", name)
		return message.ToolResult{
			Success: false,
			Error:   fmt.Sprintf("Unknown tool: %s", name),
		}
	}

	log.Debug("executing tool", "tool", name, "args", args)

	defer func() {
		if r := recover(); r != nil {
			log.Error("tool panicked", "tool", name, "panic", r)
			result = message.ToolResult{
				Success: false,
				Error: fmt.Sprintf(
					"Tool execution failed: %s: %v\n\nTraceback:\n%s",
					name, r, debug.Stack(),
				),
			}
		}
	}()

	res, err := target.Execute(ctx, args)
	if err != nil {
		log.Warn("tool returned error", "tool", name, "error", err)
		return message.ToolResult{
			Success: false,
			Error:   fmt.Sprintf("Tool execution failed: %s: %v\n\nTraceback:\n%s", name, err, debug.Stack()),
		}
	}
	log.Debug("tool completed", "tool", name, "success", res.Success)
	return res
}
