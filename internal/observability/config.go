// Package observability provides OpenTelemetry-based tracing, metrics, and
// structured logging for the rectsweep CLI and HTTP server.
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Sumatoshi-tech/rectsweep/pkg/config"
)

// AppMode identifies the application execution mode.
type AppMode string

const (
	// ModeCLI is the one-shot command mode.
	ModeCLI AppMode = "cli"
	// ModeServe is the HTTP server mode.
	ModeServe AppMode = "serve"
)

const (
	// defaultServiceName is the default OTel service name.
	defaultServiceName = "rectsweep"

	defaultShutdownTimeout = 5 * time.Second
)

// Config holds all observability configuration.
type Config struct {
	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the semantic version of the running binary.
	ServiceVersion string

	// Environment is the deployment environment (e.g. "production", "dev").
	Environment string

	// Mode identifies how the binary was launched.
	Mode AppMode

	// OTLPEndpoint is the OTLP gRPC collector address (e.g. "localhost:4317").
	// Empty disables export.
	OTLPEndpoint string

	// OTLPHeaders are additional gRPC metadata headers for the OTLP exporter.
	OTLPHeaders map[string]string

	// OTLPInsecure disables TLS for the OTLP gRPC connection.
	OTLPInsecure bool

	// Prometheus attaches a Prometheus reader and exposes it as Providers.MetricsHandler.
	Prometheus bool

	// SampleRatio is the fraction of root traces kept. Zero and one both keep
	// every trace; child spans follow their parent either way.
	SampleRatio float64

	// LogLevel controls the minimum slog severity.
	LogLevel slog.Level

	// LogJSON enables JSON-formatted log output.
	LogJSON bool

	// LogWriter receives log output. Nil means stderr.
	LogWriter io.Writer

	// ShutdownTimeout bounds the final flush of exporters.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults for zero-config startup.
func DefaultConfig() Config {
	return Config{
		ServiceName:     defaultServiceName,
		Mode:            ModeCLI,
		LogLevel:        slog.LevelInfo,
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

// ConfigFrom derives the observability settings from the application config.
func ConfigFrom(app *config.Config, mode AppMode, version string) (Config, error) {
	level, err := app.Logging.SlogLevel()
	if err != nil {
		return Config{}, fmt.Errorf("logging: %w", err)
	}

	cfg := DefaultConfig()
	cfg.ServiceVersion = version
	cfg.Environment = app.Telemetry.Environment
	cfg.Mode = mode
	cfg.OTLPEndpoint = app.Telemetry.OTLPEndpoint
	cfg.OTLPHeaders = ParseOTLPHeaders(app.Telemetry.OTLPHeaders)
	cfg.OTLPInsecure = app.Telemetry.OTLPInsecure
	cfg.SampleRatio = app.Telemetry.SampleRatio
	cfg.LogLevel = level
	cfg.LogJSON = app.Logging.Format == config.LogFormatJSON
	cfg.Prometheus = mode == ModeServe

	return cfg, nil
}
