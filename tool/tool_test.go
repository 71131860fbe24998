package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaViews(t *testing.T) {
	v := SchemaViews{
		ToolName:        "get_weather",
		ToolDescription: "fetch current weather",
		ToolParameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{"city": map[string]any{"type": "string"}},
			"required":   []string{"city"},
		},
	}

	anthropic := v.ToAnthropicSchema()
	assert.Equal(t, "get_weather", anthropic["name"])
	assert.Equal(t, v.ToolParameters, anthropic["input_schema"])

	openai := v.ToOpenAISchema()
	assert.Equal(t, "function", openai["type"])
	fn := openai["function"].(map[string]any)
	assert.Equal(t, "get_weather", fn["name"])
	assert.Equal(t, v.ToolParameters, fn["parameters"])

	responses := v.ToResponsesSchema()
	assert.Equal(t, "function", responses["type"])
	assert.Equal(t, "get_weather", responses["name"])
	assert.Nil(t, responses["strict"])
	assert.Contains(t, responses, "strict")

	gemini := v.ToGeminiSchema()
	assert.Equal(t, "get_weather", gemini["name"])
	assert.Equal(t, v.ToolParameters, gemini["parametersJsonSchema"])
}
