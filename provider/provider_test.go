package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_BuildsAdapterPerProvider(t *testing.T) {
	for _, name := range []Name{Anthropic, OpenAIResponses, OpenAIChat, Gemini} {
		d, err := New(Config{Provider: name, APIKey: "k", Model: "m", APIBaseURL: "http://localhost"})
		require.NoError(t, err, name)
		assert.Equal(t, name, d.Provider())
		assert.Equal(t, "m", d.Model())
	}
}

func TestNew_RejectsUnsupportedProvider(t *testing.T) {
	_, err := New(Config{Provider: "bedrock"})
	require.Error(t, err)
	var unsupported *UnsupportedProviderError
	assert.ErrorAs(t, err, &unsupported)
}
