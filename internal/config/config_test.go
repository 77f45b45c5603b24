package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STATE_TABLE", "greeting-state")
	t.Setenv("PARAM_PREFIX", "/greeting")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "greeting-state", cfg.StateTable)
	require.Equal(t, "/greeting", cfg.ParamPrefix)
	require.Equal(t, 168*time.Hour, cfg.SessionTTL)
	require.True(t, cfg.UseParamStore)
	require.Equal(t, ":8080", cfg.LocalAddr)
	require.Empty(t, cfg.DynamoEndpoint)
	require.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STATE_TABLE", "greeting-state")
	t.Setenv("PARAM_PREFIX", "/greeting")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("USE_PARAM_STORE", "false")
	t.Setenv("DYNAMODB_ENDPOINT", "http://localhost:8000")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 2*time.Hour, cfg.SessionTTL)
	require.False(t, cfg.UseParamStore)
	require.Equal(t, "http://localhost:8000", cfg.DynamoEndpoint)
	require.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("STATE_TABLE", "")
	t.Setenv("PARAM_PREFIX", "/greeting")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "STATE_TABLE")
}

func TestSlogLevel_Unknown(t *testing.T) {
	require.Equal(t, slog.LevelInfo, (&Config{LogLevel: "loud"}).SlogLevel())
	require.Equal(t, slog.LevelWarn, (&Config{LogLevel: "warning"}).SlogLevel())
}
