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

// Package message defines the canonical, provider-neutral representation of
// a conversation turn. Every provider adapter translates to and from this
// shape; nothing outside the provider package should need to know which
// wire protocol produced a Message.
package message

// Role identifies who authored a Message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// SummaryPrefix marks the content of a synthetic context-summary message.
// It is a stable textual contract: the summarizer uses it both to write a
// new summary message and to recognize (and fold into) an existing one.
const SummaryPrefix = "[Context Summary]"

// Message is the canonical unit of conversation. Content is usually plain
// text; Blocks holds an ordered sequence of opaque, provider-specific
// content blocks for messages a wire decode produced that don't reduce
// cleanly to a string (adapters are free to leave Blocks nil and use
// Content exclusively, which is what every adapter in this module does).
type Message struct {
	Role    Role
	Content string
	Blocks  []ContentBlock

	// Thinking is the concatenated reasoning text, kept for display only.
	Thinking string

	// ReasoningItems preserves per-block reasoning IDs so a provider that
	// requires them on round-trip (OpenAI Responses) can be replayed.
	ReasoningItems []ReasoningItem

	// ToolCalls is non-nil only on assistant messages that invoked tools.
	ToolCalls []ToolCall

	// CallID links a tool-role message back to the ToolCall it answers.
	CallID string

	// Name is the tool name, set on tool-role messages.
	Name string
}

// ContentBlock is an opaque, provider-specific content fragment. It exists
// so adapters can pattern-match freely on decoded wire content without the
// canonical model needing to know every provider's block vocabulary; none
// of the four adapters in this module currently populate it.
type ContentBlock struct {
	Type string
	Data map[string]any
}

// ReasoningItem preserves a single reasoning block's identity across a
// round-trip to providers (OpenAI Responses) that require retained
// reasoning items to be replayed verbatim on the next turn.
type ReasoningItem struct {
	ID      string
	Summary string
}

// ToolCall is a single tool invocation requested by the assistant.
//
// CallID is the correlation ID: it is what a subsequent tool-role Message
// references to carry that call's result. ID is a second, provider-issued
// item identifier that only the OpenAI Responses wire format distinguishes
// from CallID; every other adapter collapses the two (or, for Gemini,
// synthesizes one when the provider omits it).
type ToolCall struct {
	CallID   string
	ID       string
	Type     string
	Function FunctionCall
}

// FunctionCall is the name/arguments pair carried by a ToolCall.
// Arguments is always a parsed mapping, never a raw JSON string.
type FunctionCall struct {
	Name      string
	Arguments map[string]any
}

// TokenUsage reports the provider's own accounting for one generate call.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// FinishReason is an advisory, lossy-across-providers summary of why
// generation stopped. Callers should not branch control flow on it; the
// agent loop itself only ever branches on whether ToolCalls is non-nil.
type FinishReason string

const (
	FinishReasonStop      FinishReason = "stop"
	FinishReasonLength    FinishReason = "length"
	FinishReasonToolCalls FinishReason = "tool_calls"
	FinishReasonError     FinishReason = "error"
	FinishReasonCancelled FinishReason = "cancelled"
)

// LLMResponse is the canonical decoded model output. Fields the provider
// didn't populate are always zero values (nil slices, empty strings),
// never left as Go's "missing" — there's no wire-level distinction in this
// model between "absent" and "not provided".
type LLMResponse struct {
	Content        string
	Thinking       string
	ReasoningItems []ReasoningItem
	ToolCalls      []ToolCall
	FinishReason   FinishReason
	Usage          *TokenUsage
	ResponseID     string
}

// ToolResult is what a Tool execution (successful or not) produces.
type ToolResult struct {
	Success bool
	Content string
	Error   string
}

// NewSystemMessage constructs a system-role Message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage constructs a user-role Message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage constructs an assistant-role Message carrying the
// given text, reasoning, and tool calls from one LLMResponse.
func NewAssistantMessage(content, thinking string, reasoningItems []ReasoningItem, toolCalls []ToolCall) Message {
	return Message{
		Role:           RoleAssistant,
		Content:        content,
		Thinking:       thinking,
		ReasoningItems: reasoningItems,
		ToolCalls:      toolCalls,
	}
}

// NewToolMessage constructs a tool-role Message carrying the result of one
// tool call back into the conversation.
func NewToolMessage(callID, name, content string) Message {
	return Message{Role: RoleTool, Content: content, CallID: callID, Name: name}
}

// IsSummary reports whether m is a synthetic context-summary message: a
// user-role message whose content begins with SummaryPrefix.
func (m Message) IsSummary() bool {
	return m.Role == RoleUser && hasPrefix(m.Content, SummaryPrefix)
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
