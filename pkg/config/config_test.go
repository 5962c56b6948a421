package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/rectsweep/pkg/config"
)

const (
	testPort            = 9000
	testMaxObstructions = 64
	testWorkers         = 4
	megabyte            = 1000 * 1000
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rectsweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	// Test loading with no config file (should use defaults).
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 512, cfg.Server.MaxObstructions)
	assert.Equal(t, 256, cfg.Server.CacheEntries)
	assert.Equal(t, 4096, cfg.Server.MaxVerifyRects)
	assert.Equal(t, int64(megabyte), cfg.Server.MaxBodyBytes())
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, config.OutputTable, cfg.Output.Format)
	assert.Equal(t, config.LogFormatText, cfg.Logging.Format)
	assert.Zero(t, cfg.Visible.Workers)
}

func TestDefaultMatchesLoad(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, cfg, config.Default())
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
server:
  port: 9000
  max_obstructions: 64
  max_body_size: "256KiB"
  verify: true
output:
  format: grid
  no_color: true
visible:
  workers: 4
logging:
  level: debug
  format: json
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, testPort, cfg.Server.Port)
	assert.Equal(t, testMaxObstructions, cfg.Server.MaxObstructions)
	assert.Equal(t, int64(256*1024), cfg.Server.MaxBodyBytes())
	assert.True(t, cfg.Server.Verify)
	assert.Equal(t, config.OutputGrid, cfg.Output.Format)
	assert.True(t, cfg.Output.NoColor)
	assert.Equal(t, testWorkers, cfg.Visible.Workers)

	level, err := cfg.Logging.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("RECTSWEEP_SERVER_PORT", "9090")
	t.Setenv("RECTSWEEP_OUTPUT_FORMAT", "json")
	t.Setenv("RECTSWEEP_TELEMETRY_OTLP_ENDPOINT", "collector:4317")

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, config.OutputJSON, cfg.Output.Format)
	assert.Equal(t, "collector:4317", cfg.Telemetry.OTLPEndpoint)
}

func TestTimeDurationParsing(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
server:
  read_timeout: "15s"
  write_timeout: "1m"
  idle_timeout: "2m"
  shutdown_timeout: "500ms"
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Server.IdleTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Server.ShutdownTimeout)
}

func TestValidateConfig_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"port zero", "server:\n  port: 0\n", config.ErrInvalidPort},
		{"port too large", "server:\n  port: 70000\n", config.ErrInvalidPort},
		{"max obstructions", "server:\n  max_obstructions: 0\n", config.ErrInvalidMaxObstructions},
		{"body size", "server:\n  max_body_size: lots\n", config.ErrInvalidBodyLimit},
		{"log level", "logging:\n  level: chatty\n", config.ErrInvalidLogLevel},
		{"log format", "logging:\n  format: xml\n", config.ErrInvalidLogFormat},
		{"output format", "output:\n  format: svg\n", config.ErrInvalidOutputFormat},
		{"workers", "visible:\n  workers: -1\n", config.ErrInvalidWorkers},
		{"cache entries", "server:\n  cache_entries: -1\n", config.ErrInvalidCacheEntries},
		{"max verify rects", "server:\n  max_verify_rects: 0\n", config.ErrInvalidMaxVerifyRects},
		{"sample ratio", "telemetry:\n  sample_ratio: 1.5\n", config.ErrInvalidSampleRatio},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tc.content))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidateOutputFormat(t *testing.T) {
	t.Parallel()

	for _, format := range []string{config.OutputTable, config.OutputJSON, config.OutputYAML, config.OutputGrid} {
		require.NoError(t, config.ValidateOutputFormat(format))
	}

	require.ErrorIs(t, config.ValidateOutputFormat("html"), config.ErrInvalidOutputFormat)
}
