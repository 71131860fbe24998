package example

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEcho_ReturnsTextUnchanged(t *testing.T) {
	e, err := NewEcho()
	require.NoError(t, err)

	res, err := e.Execute(context.Background(), map[string]any{"text": "hello"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "hello", res.Content)
}

func TestEcho_SchemaRequiresText(t *testing.T) {
	e, err := NewEcho()
	require.NoError(t, err)
	required, _ := e.Parameters()["required"].([]any)
	assert.Contains(t, required, "text")
}

func TestWeather_KnownCityInCelsius(t *testing.T) {
	w, err := NewWeather()
	require.NoError(t, err)

	res, err := w.Execute(context.Background(), map[string]any{"city": "Beijing"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Beijing: 22°C, sunny", res.Content)
}

func TestWeather_KnownCityInFahrenheit(t *testing.T) {
	w, err := NewWeather()
	require.NoError(t, err)

	res, err := w.Execute(context.Background(), map[string]any{"city": "London", "units": "fahrenheit"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "London: 57°F, rainy", res.Content)
}

func TestWeather_UnknownCityFallsBackToDefault(t *testing.T) {
	w, err := NewWeather()
	require.NoError(t, err)

	res, err := w.Execute(context.Background(), map[string]any{"city": "Atlantis"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Atlantis: 20°C, clear", res.Content)
}

func TestWeather_MissingCityFails(t *testing.T) {
	w, err := NewWeather()
	require.NoError(t, err)

	res, err := w.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "city is required", res.Error)
}

func TestWeather_NameAndDescription(t *testing.T) {
	w, err := NewWeather()
	require.NoError(t, err)
	assert.Equal(t, "get_weather", w.Name())
	assert.NotEmpty(t, w.Description())
}
