package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "provider.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_ExpandsEnvAndAppliesDefaults(t *testing.T) {
	t.Setenv("TEST_AGENTCORE_KEY", "sk-test-123")

	path := writeTempConfig(t, `
provider: anthropic
model: claude-3-5-sonnet-20241022
api_key: ${TEST_AGENTCORE_KEY}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "sk-test-123", cfg.APIKey)
	assert.Equal(t, "https://api.anthropic.com", cfg.APIBaseURL)
}

func TestLoad_MissingAPIKeyFallsBackToEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	path := writeTempConfig(t, `
provider: openai_chat
model: gpt-4o
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.APIKey)
}

func TestLoad_RejectsUnsupportedProvider(t *testing.T) {
	path := writeTempConfig(t, `
provider: bedrock
model: whatever
api_key: x
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider")
}

func TestLoad_RejectsMissingAPIKey(t *testing.T) {
	path := writeTempConfig(t, `
provider: gemini
model: gemini-2.0-flash
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key is required")
}

func TestRetryConfig_ToRetryConfig_Defaults(t *testing.T) {
	cfg := RetryConfig{}
	rc := cfg.ToRetryConfig()
	assert.True(t, rc.Enabled)
	assert.Equal(t, 5, rc.MaxRetries)
}

func TestRetryConfig_ToRetryConfig_Overrides(t *testing.T) {
	disabled := false
	cfg := RetryConfig{Enabled: &disabled, MaxRetries: 2, InitialDelay: 0.5}
	rc := cfg.ToRetryConfig()
	assert.False(t, rc.Enabled)
	assert.Equal(t, 2, rc.MaxRetries)
}
