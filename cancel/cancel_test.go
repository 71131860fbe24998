package cancel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkwright/agentcore/message"
	"github.com/arkwright/agentcore/tool"
)

func TestCleanupIncompleteMessages_TruncatesBeforeLastAssistant(t *testing.T) {
	msgs := []message.Message{
		message.NewSystemMessage("S"),
		message.NewUserMessage("q1"),
		message.NewAssistantMessage("a1", "", nil, nil),
		message.NewUserMessage("q2"),
		message.NewAssistantMessage("", "", nil, []message.ToolCall{{CallID: "c"}}),
		message.NewToolMessage("c", "t", "partial"),
	}

	cleaned := CleanupIncompleteMessages(msgs)

	require.Len(t, cleaned, 4)
	assert.Equal(t, "q2", cleaned[3].Content)
}

func TestCleanupIncompleteMessages_NoAssistantMessageIsUnchanged(t *testing.T) {
	msgs := []message.Message{message.NewSystemMessage("S"), message.NewUserMessage("q1")}
	assert.Equal(t, msgs, CleanupIncompleteMessages(msgs))
}

type slowClient struct {
	delay time.Duration
	resp  message.LLMResponse
}

func (c *slowClient) Generate(ctx context.Context, messages []message.Message, tools []tool.Tool) (message.LLMResponse, error) {
	select {
	case <-time.After(c.delay):
		return c.resp, nil
	case <-ctx.Done():
		return message.LLMResponse{}, ctx.Err()
	}
}

func TestGenerateWithSignal_RejectsSynchronouslyWhenAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &slowClient{delay: time.Hour}
	_, err := GenerateWithSignal(ctx, client, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateWithSignal_RacesCancellationDuringCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &slowClient{delay: time.Hour}

	errCh := make(chan error, 1)
	go func() {
		_, err := GenerateWithSignal(ctx, client, nil, nil)
		errCh <- err
	}()

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("GenerateWithSignal did not observe cancellation promptly")
	}
}

func TestGenerateWithSignal_ReturnsSuccessfully(t *testing.T) {
	client := &slowClient{resp: message.LLMResponse{Content: "hi"}}
	out, err := GenerateWithSignal(context.Background(), client, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", out.Content)
}
