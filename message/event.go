package message

// EventType tags the variant carried by an AgentMessageEvent.
type EventType string

const (
	EventThinking         EventType = "thinking"
	EventToolCall         EventType = "tool_call"
	EventToolResult       EventType = "tool_result"
	EventAssistantMessage EventType = "assistant_message"
	EventCancelled        EventType = "cancelled"
	EventSummarized       EventType = "summarized"
)

// AgentMessageEvent is one step of the agent loop's observable trace. Only
// the field(s) relevant to Type are populated; the rest are zero values.
type AgentMessageEvent struct {
	Type EventType

	// Thinking / AssistantMessage payload.
	Content string

	// ToolCall / ToolResult payload.
	ToolCall *ToolCall
	Result   *ToolResult

	// Summarized payload.
	BeforeTokens int
	AfterTokens  int
}

// ThinkingEvent builds a "thinking" event.
func ThinkingEvent(content string) *AgentMessageEvent {
	return &AgentMessageEvent{Type: EventThinking, Content: content}
}

// ToolCallEvent builds a "tool_call" event.
func ToolCallEvent(tc ToolCall) *AgentMessageEvent {
	return &AgentMessageEvent{Type: EventToolCall, ToolCall: &tc}
}

// ToolResultEvent builds a "tool_result" event.
func ToolResultEvent(tc ToolCall, result ToolResult) *AgentMessageEvent {
	return &AgentMessageEvent{Type: EventToolResult, ToolCall: &tc, Result: &result}
}

// AssistantMessageEvent builds an "assistant_message" event.
func AssistantMessageEvent(content string) *AgentMessageEvent {
	return &AgentMessageEvent{Type: EventAssistantMessage, Content: content}
}

// CancelledEvent builds a "cancelled" event.
func CancelledEvent() *AgentMessageEvent {
	return &AgentMessageEvent{Type: EventCancelled}
}

// SummarizedEvent builds a "summarized" event.
func SummarizedEvent(beforeTokens, afterTokens int) *AgentMessageEvent {
	return &AgentMessageEvent{Type: EventSummarized, BeforeTokens: beforeTokens, AfterTokens: afterTokens}
}
