// Package config provides configuration loading and validation for rectsweep.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidPort            = errors.New("invalid server port")
	ErrInvalidMaxObstructions = errors.New("max obstructions must be positive")
	ErrInvalidBodyLimit       = errors.New("invalid max body size")
	ErrInvalidLogLevel        = errors.New("invalid log level")
	ErrInvalidLogFormat       = errors.New("invalid log format")
	ErrInvalidOutputFormat    = errors.New("invalid output format")
	ErrInvalidWorkers         = errors.New("visible workers must not be negative")
	ErrInvalidSampleRatio     = errors.New("sample ratio must be within [0, 1]")
	ErrInvalidCacheEntries    = errors.New("cache entries must not be negative")
	ErrInvalidMaxVerifyRects  = errors.New("max verify rects must be positive")
)

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
	OutputGrid  = "grid"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Default configuration values.
const (
	defaultPort            = 8080
	defaultHost            = "127.0.0.1"
	defaultMaxObstructions = 512
	defaultMaxBodySize     = "1MB"
	defaultCacheEntries    = 256
	defaultMaxVerifyRects  = 4096
	maxPort                = 65535
	envPrefix              = "RECTSWEEP"
	configName             = "rectsweep"
)

// Config holds all configuration for rectsweep.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Output    OutputConfig    `mapstructure:"output"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Visible   VisibleConfig   `mapstructure:"visible"`
}

// ServerConfig holds HTTP API configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	MaxBodySize     string        `mapstructure:"max_body_size"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Port            int           `mapstructure:"port"`
	MaxObstructions int           `mapstructure:"max_obstructions"`
	CacheEntries    int           `mapstructure:"cache_entries"`
	MaxVerifyRects  int           `mapstructure:"max_verify_rects"`
	Verify          bool          `mapstructure:"verify"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig holds CLI output configuration.
type OutputConfig struct {
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
	Verify  bool   `mapstructure:"verify"`
}

// TelemetryConfig holds OpenTelemetry export configuration.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	Environment  string  `mapstructure:"environment"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
}

// VisibleConfig holds layered visibility configuration.
type VisibleConfig struct {
	// Workers bounds concurrent per-layer decompositions; zero means unbounded.
	Workers int `mapstructure:"workers"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/rectsweep")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Config {
	viperCfg := viper.New()
	setDefaults(viperCfg)

	var config Config

	// Defaults are static and always decode.
	_ = viperCfg.Unmarshal(&config)

	return &config
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	// Server defaults.
	viperCfg.SetDefault("server.host", defaultHost)
	viperCfg.SetDefault("server.port", defaultPort)
	viperCfg.SetDefault("server.read_timeout", "10s")
	viperCfg.SetDefault("server.write_timeout", "30s")
	viperCfg.SetDefault("server.idle_timeout", "60s")
	viperCfg.SetDefault("server.shutdown_timeout", "5s")
	viperCfg.SetDefault("server.max_obstructions", defaultMaxObstructions)
	viperCfg.SetDefault("server.max_body_size", defaultMaxBodySize)
	viperCfg.SetDefault("server.verify", false)
	viperCfg.SetDefault("server.cache_entries", defaultCacheEntries)
	viperCfg.SetDefault("server.max_verify_rects", defaultMaxVerifyRects)

	// Logging defaults.
	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", LogFormatText)

	// Output defaults.
	viperCfg.SetDefault("output.format", OutputTable)
	viperCfg.SetDefault("output.no_color", false)
	viperCfg.SetDefault("output.verify", false)

	// Telemetry defaults.
	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
	viperCfg.SetDefault("telemetry.environment", "")

	// Visible defaults.
	viperCfg.SetDefault("visible.workers", 0)
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, config.Server.Port)
	}

	if config.Server.MaxObstructions <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxObstructions, config.Server.MaxObstructions)
	}

	if config.Server.CacheEntries < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCacheEntries, config.Server.CacheEntries)
	}

	if config.Server.MaxVerifyRects <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxVerifyRects, config.Server.MaxVerifyRects)
	}

	size, err := humanize.ParseBytes(config.Server.MaxBodySize)
	if err != nil || size == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidBodyLimit, config.Server.MaxBodySize)
	}

	_, err = config.Logging.SlogLevel()
	if err != nil {
		return err
	}

	switch config.Logging.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	err = ValidateOutputFormat(config.Output.Format)
	if err != nil {
		return err
	}

	if config.Visible.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, config.Visible.Workers)
	}

	if config.Telemetry.SampleRatio < 0 || config.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, config.Telemetry.SampleRatio)
	}

	return nil
}

// ValidateOutputFormat checks an output format name.
func ValidateOutputFormat(format string) error {
	switch format {
	case OutputTable, OutputJSON, OutputYAML, OutputGrid:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOutputFormat, format)
	}
}

// SlogLevel parses the configured level name.
func (lc LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(lc.Level))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, lc.Level)
	}

	return level, nil
}

// MaxBodyBytes returns the request body limit in bytes.
func (sc ServerConfig) MaxBodyBytes() int64 {
	size, err := humanize.ParseBytes(sc.MaxBodySize)
	if err != nil || size == 0 {
		size, _ = humanize.ParseBytes(defaultMaxBodySize)
	}

	if size > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(size)
}
