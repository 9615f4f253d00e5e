package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, time.Second, cfg.Execution.MinDelay.Std())
	assert.Equal(t, 2*time.Second, cfg.Execution.MaxDelay.Std())
	assert.Equal(t, time.Second, cfg.Push.SnapshotInterval.Std())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9090
  request_delay: 50ms
execution:
  min_delay: 100ms
  max_delay: 200ms
push:
  snapshot_interval: 250ms
log:
  level: debug
  format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr())
	assert.Equal(t, 50*time.Millisecond, cfg.Server.RequestDelay.Std())
	assert.Equal(t, 100*time.Millisecond, cfg.Execution.MinDelay.Std())
	assert.Equal(t, 200*time.Millisecond, cfg.Execution.MaxDelay.Std())
	assert.Equal(t, 250*time.Millisecond, cfg.Push.SnapshotInterval.Std())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_HOST", "10.0.0.1")
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.1:3000", cfg.Server.Addr())
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "bad duration",
			content: `
execution:
  min_delay: soon
`,
		},
		{
			name: "max below min",
			content: `
execution:
  min_delay: 2s
  max_delay: 1s
`,
		},
		{
			name: "bad port",
			content: `
server:
  port: 70000
`,
		},
		{
			name: "zero snapshot interval",
			content: `
push:
  snapshot_interval: 0s
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
