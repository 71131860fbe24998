package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkwright/agentcore/internal/tokencount"
	"github.com/arkwright/agentcore/message"
	"github.com/arkwright/agentcore/summarizer"
	"github.com/arkwright/agentcore/tool"
)

type scriptedLLM struct {
	responses []message.LLMResponse
	call      int
	onCall    func(n int)
}

func (l *scriptedLLM) Generate(ctx context.Context, messages []message.Message, tools []tool.Tool) (message.LLMResponse, error) {
	resp := l.responses[l.call]
	if l.onCall != nil {
		l.onCall(l.call)
	}
	l.call++
	return resp, nil
}

type weatherTool struct {
	tool.SchemaViews
	called bool
}

func newWeatherTool() *weatherTool {
	return &weatherTool{SchemaViews: tool.SchemaViews{ToolName: "get_weather", ToolDescription: "weather lookup"}}
}

func (w *weatherTool) Execute(ctx context.Context, args map[string]any) (message.ToolResult, error) {
	w.called = true
	return message.ToolResult{Success: true, Content: "sunny 25C"}, nil
}

func newTestSummarizer(t *testing.T) *summarizer.Summarizer {
	t.Helper()
	counter, err := tokencount.NewCounter("gpt-4")
	require.NoError(t, err)
	return summarizer.New(counter, nil, nil)
}

func TestRun_ToolCallThenFinalAnswer(t *testing.T) {
	w := newWeatherTool()
	llm := &scriptedLLM{responses: []message.LLMResponse{
		{ToolCalls: []message.ToolCall{{CallID: "c1", Function: message.FunctionCall{Name: "get_weather", Arguments: map[string]any{"city": "北京"}}}}},
		{Content: "北京 sunny 25C"},
	}}

	state := New(llm, "S", []tool.Tool{w}, newTestSummarizer(t), Options{})
	state.AddUserMessage("北京天气")

	seq, final := state.Run(context.Background())

	var types []message.EventType
	for ev, err := range seq {
		require.NoError(t, err)
		types = append(types, ev.Type)
	}

	assert.Equal(t, []message.EventType{message.EventToolCall, message.EventToolResult, message.EventAssistantMessage}, types)
	assert.Equal(t, "北京 sunny 25C", final())
	assert.True(t, w.called)
	require.Len(t, state.Messages, 5)
	assert.Equal(t, message.RoleSystem, state.Messages[0].Role)
	assert.Equal(t, message.RoleUser, state.Messages[1].Role)
	assert.Equal(t, message.RoleAssistant, state.Messages[2].Role)
	assert.Equal(t, message.RoleTool, state.Messages[3].Role)
	assert.Equal(t, message.RoleAssistant, state.Messages[4].Role)
}

func TestRun_CancellationAfterGenerateCleansUpIncompleteTurn(t *testing.T) {
	w := newWeatherTool()
	ctx, cancel := context.WithCancel(context.Background())

	llm := &scriptedLLM{
		responses: []message.LLMResponse{
			{ToolCalls: []message.ToolCall{{CallID: "c1", Function: message.FunctionCall{Name: "get_weather"}}}},
		},
		onCall: func(n int) { cancel() },
	}

	state := New(llm, "S", []tool.Tool{w}, newTestSummarizer(t), Options{})
	state.AddUserMessage("北京天气")

	seq, final := state.Run(ctx)

	var types []message.EventType
	for ev, err := range seq {
		require.NoError(t, err)
		types = append(types, ev.Type)
	}

	assert.Equal(t, []message.EventType{message.EventCancelled}, types)
	assert.Equal(t, "Task cancelled by user.", final())
	assert.False(t, w.called)
	require.Len(t, state.Messages, 2)
	assert.Equal(t, message.RoleSystem, state.Messages[0].Role)
	assert.Equal(t, message.RoleUser, state.Messages[1].Role)
}

func TestRun_AlreadyCancelledAtEntryCallsProviderNever(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	llm := &scriptedLLM{responses: []message.LLMResponse{{Content: "should not happen"}}}
	state := New(llm, "S", nil, newTestSummarizer(t), Options{})
	state.AddUserMessage("hi")

	seq, final := state.Run(ctx)

	var events []*message.AgentMessageEvent
	for ev, err := range seq {
		require.NoError(t, err)
		events = append(events, ev)
	}

	require.Len(t, events, 1)
	assert.Equal(t, message.EventCancelled, events[0].Type)
	assert.Equal(t, "Task cancelled by user.", final())
	assert.Equal(t, 0, llm.call)
}

func TestRun_UnknownToolYieldsFailedResultAndContinues(t *testing.T) {
	llm := &scriptedLLM{responses: []message.LLMResponse{
		{ToolCalls: []message.ToolCall{{CallID: "c1", Function: message.FunctionCall{Name: "nonexistent"}}}},
		{Content: "done"},
	}}

	state := New(llm, "S", nil, newTestSummarizer(t), Options{})
	state.AddUserMessage("hi")

	seq, final := state.Run(context.Background())

	var lastResult *message.ToolResult
	for ev, err := range seq {
		require.NoError(t, err)
		if ev.Type == message.EventToolResult {
			lastResult = ev.Result
		}
	}

	require.NotNil(t, lastResult)
	assert.False(t, lastResult.Success)
	assert.True(t, strings.HasPrefix(lastResult.Error, "Unknown tool:"))
	assert.Equal(t, "done", final())
}

func TestRun_StepCapReturnsExhaustionMessage(t *testing.T) {
	responses := make([]message.LLMResponse, 0, defaultMaxSteps+1)
	for i := 0; i < defaultMaxSteps+1; i++ {
		responses = append(responses, message.LLMResponse{
			ToolCalls: []message.ToolCall{{CallID: "c", Function: message.FunctionCall{Name: "noop"}}},
		})
	}
	llm := &scriptedLLM{responses: responses}

	noop := &weatherTool{SchemaViews: tool.SchemaViews{ToolName: "noop"}}
	state := New(llm, "S", []tool.Tool{noop}, newTestSummarizer(t), Options{})
	state.AddUserMessage("go")

	seq, final := state.Run(context.Background())
	for _, err := range seq {
		require.NoError(t, err)
	}

	assert.Equal(t, "Task couldn't be completed after 50 steps.", final())
}
