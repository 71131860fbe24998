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

// Package cancel implements the agent loop's cooperative cancellation:
// message-list cleanup after an aborted turn, and a provider call raced
// against the caller's context so cancellation doesn't have to wait for
// network I/O to finish.
package cancel

import (
	"context"

	"github.com/arkwright/agentcore/message"
	"github.com/arkwright/agentcore/tool"
)

// CancelledAnswer is the final-answer string the loop returns whenever a
// cancellation checkpoint fires.
const CancelledAnswer = "Task cancelled by user."

// CleanupIncompleteMessages truncates messages to end before the last
// assistant-role message, removing both that incomplete turn and any tool
// results that followed it. If no assistant message exists, messages is
// returned unchanged.
func CleanupIncompleteMessages(messages []message.Message) []message.Message {
	lastAssistant := -1
	for i, m := range messages {
		if m.Role == message.RoleAssistant {
			lastAssistant = i
		}
	}
	if lastAssistant == -1 {
		return messages
	}
	return messages[:lastAssistant]
}

// Client is the subset of provider.LLMClient GenerateWithSignal races
// against ctx.
type Client interface {
	Generate(ctx context.Context, messages []message.Message, tools []tool.Tool) (message.LLMResponse, error)
}

// GenerateWithSignal calls client.Generate, returning ctx.Err() immediately
// if ctx is already cancelled without waiting on the call at all, and
// racing the call's completion against ctx's cancellation otherwise. The
// agent loop appends no assistant message unless this returns successfully,
// so a cancellation mid-call needs no further cleanup of its own.
func GenerateWithSignal(ctx context.Context, client Client, messages []message.Message, tools []tool.Tool) (message.LLMResponse, error) {
	if err := ctx.Err(); err != nil {
		return message.LLMResponse{}, err
	}

	type result struct {
		resp message.LLMResponse
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := client.Generate(ctx, messages, tools)
		done <- result{resp, err}
	}()

	select {
	case <-ctx.Done():
		return message.LLMResponse{}, ctx.Err()
	case r := <-done:
		return r.resp, r.err
	}
}
