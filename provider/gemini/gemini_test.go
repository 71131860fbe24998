package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkwright/agentcore/internal/httpclient"
	"github.com/arkwright/agentcore/internal/retry"
	"github.com/arkwright/agentcore/message"
)

func TestEncode_LiftsSystemAndMapsRoles(t *testing.T) {
	msgs := []message.Message{
		message.NewSystemMessage("be terse"),
		message.NewUserMessage("what's the weather?"),
		message.NewAssistantMessage("", "thinking...", nil, []message.ToolCall{
			{CallID: "call_1", Function: message.FunctionCall{Name: "weather", Arguments: map[string]any{"city": "nyc"}}},
		}),
		message.NewToolMessage("call_1", "weather", `{"tempF":72}`),
	}

	req := Encode(Config{Model: "gemini-2.0-flash"}, msgs, nil)

	require.NotNil(t, req.SystemInstruction)
	assert.Equal(t, "be terse", req.SystemInstruction.Parts[0]["text"])
	require.Len(t, req.Contents, 3)
	assert.Equal(t, "user", req.Contents[0].Role)
	assert.Equal(t, "model", req.Contents[1].Role)
	assert.Equal(t, true, req.Contents[1].Parts[0]["thought"])
	fc, ok := req.Contents[1].Parts[1]["functionCall"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "weather", fc["name"])
	assert.Equal(t, "call_1", fc["id"])
	assert.Equal(t, "user", req.Contents[2].Role)
	fr, ok := req.Contents[2].Parts[0]["functionResponse"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "weather", fr["name"])
}

func TestDecode_SynthesizesIDWhenMissing(t *testing.T) {
	adapter := New(Config{Model: "gemini-2.0-flash", now: func() int64 { return 42 }}, nil)

	resp := wireResponse{
		Candidates: []candidate{{
			FinishReason: "STOP",
			Content: content{
				Parts: []part{
					{"text": "thinking...", "thought": true},
					{"text": "here you go"},
					{"functionCall": map[string]any{"name": "weather", "args": map[string]any{"city": "nyc"}}},
				},
			},
		}},
	}

	out := adapter.Decode(resp)

	assert.Equal(t, "here you go", out.Content)
	assert.Equal(t, "thinking...", out.Thinking)
	require.Len(t, out.ToolCalls, 1)
	assert.Equal(t, "gemini_call_42_2", out.ToolCalls[0].ID)
	assert.Equal(t, message.FinishReasonToolCalls, out.FinishReason)
}

func TestDecode_UsesProviderIDWhenPresent(t *testing.T) {
	adapter := New(Config{Model: "gemini-2.0-flash", now: func() int64 { return 42 }}, nil)

	resp := wireResponse{Candidates: []candidate{{
		Content: content{Parts: []part{{"functionCall": map[string]any{"id": "fc_real", "name": "weather"}}}},
	}}}

	out := adapter.Decode(resp)
	require.Len(t, out.ToolCalls, 1)
	assert.Equal(t, "fc_real", out.ToolCalls[0].ID)
}

func TestGenerate_RoundTripsThroughHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "key=test-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"finishReason":"STOP","content":{"role":"model","parts":[{"text":"hi there"}]}}]}`))
	}))
	defer server.Close()

	hc := httpclient.New(server.Client(), retry.DefaultConfig(), nil)
	adapter := New(Config{APIKey: "test-key", BaseURL: server.URL, Model: "gemini-2.0-flash"}, hc)

	out, err := adapter.Generate(context.Background(), []message.Message{message.NewUserMessage("hi")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "hi there", out.Content)
}
