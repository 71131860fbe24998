package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkwright/agentcore/internal/httpclient"
	"github.com/arkwright/agentcore/internal/retry"
	"github.com/arkwright/agentcore/message"
)

func TestEncode_LiftsSystemMessageAndEncodesToolCalls(t *testing.T) {
	msgs := []message.Message{
		message.NewSystemMessage("be terse"),
		message.NewUserMessage("what's the weather?"),
		message.NewAssistantMessage("", "", nil, []message.ToolCall{
			{CallID: "call_1", Function: message.FunctionCall{Name: "weather", Arguments: map[string]any{"city": "nyc"}}},
		}),
		message.NewToolMessage("call_1", "weather", `{"tempF":72}`),
	}

	req := Encode(Config{Model: "claude-3-5-sonnet-20241022", MaxTokens: 1024}, msgs, nil)

	assert.Equal(t, "be terse", req.System)
	require.Len(t, req.Messages, 3)
	assert.Equal(t, "user", req.Messages[0].Role)
	assert.Equal(t, "assistant", req.Messages[1].Role)
	require.Len(t, req.Messages[1].Content, 1)
	assert.Equal(t, "tool_use", req.Messages[1].Content[0].Type)
	assert.Equal(t, "call_1", req.Messages[1].Content[0].ID)
	assert.Equal(t, "user", req.Messages[2].Role)
	assert.Equal(t, "tool_result", req.Messages[2].Content[0].Type)
	assert.Equal(t, "call_1", req.Messages[2].Content[0].ToolUseID)
}

func TestDecode_ExtractsTextThinkingAndToolUse(t *testing.T) {
	resp := wireResponse{
		ID:         "msg_123",
		StopReason: "tool_use",
		Content: []wireBlock{
			{Type: "thinking", Thinking: "considering..."},
			{Type: "text", Text: "here you go"},
			{Type: "tool_use", ID: "toolu_1", Name: "weather", Input: map[string]any{"city": "nyc"}},
		},
	}
	resp.Usage.InputTokens = 10
	resp.Usage.OutputTokens = 5

	out := Decode(resp)

	assert.Equal(t, "here you go", out.Content)
	assert.Equal(t, "considering...", out.Thinking)
	assert.Equal(t, message.FinishReasonToolCalls, out.FinishReason)
	require.Len(t, out.ToolCalls, 1)
	assert.Equal(t, "toolu_1", out.ToolCalls[0].CallID)
	assert.Equal(t, "toolu_1", out.ToolCalls[0].ID)
	assert.Equal(t, 15, out.Usage.TotalTokens)
}

func TestGenerate_RoundTripsThroughHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		var req wireRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-3-5-sonnet-20241022", req.Model)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(wireResponse{
			ID:         "msg_1",
			StopReason: "end_turn",
			Content:    []wireBlock{{Type: "text", Text: "hi there"}},
		})
	}))
	defer server.Close()

	hc := httpclient.New(server.Client(), retry.DefaultConfig(), nil)
	adapter := New(Config{APIKey: "test-key", BaseURL: server.URL, Model: "claude-3-5-sonnet-20241022"}, hc)

	out, err := adapter.Generate(context.Background(), []message.Message{message.NewUserMessage("hi")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "hi there", out.Content)
	assert.Equal(t, message.FinishReasonStop, out.FinishReason)
}
