package obslog

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelWarn,
		"":        slog.LevelWarn,
	}
	for input, want := range cases {
		assert.Equal(t, want, ParseLevel(input), "input=%q", input)
	}
}

func TestForComponent_HandlesNilRoot(t *testing.T) {
	logger := ForComponent(nil, "agent")
	assert.NotNil(t, logger)
}
