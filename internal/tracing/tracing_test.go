package tracing

import (
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTestProvider(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return recorder
}

func TestStartGenerate_Finish_Success(t *testing.T) {
	recorder := withTestProvider(t)

	ctx, span := StartGenerate(t.Context(), "anthropic", "claude-3-5-sonnet")
	assert.NotNil(t, ctx)
	Finish(span, "stop", nil)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "provider.generate", spans[0].Name())

	var sawGenerateID bool
	for _, attr := range spans[0].Attributes() {
		if attr.Key == "generate_id" {
			sawGenerateID = true
			assert.NotEmpty(t, attr.Value.AsString())
		}
	}
	assert.True(t, sawGenerateID, "expected a generate_id attribute")
}

func TestStartGenerate_Finish_Error(t *testing.T) {
	recorder := withTestProvider(t)

	_, span := StartGenerate(t.Context(), "openai", "gpt-4o")
	Finish(span, "", errors.New("boom"))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.NotEmpty(t, spans[0].Events())
}
