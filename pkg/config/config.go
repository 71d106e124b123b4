// Package config provides configuration loading and validation for the
// astdiff CLI. Settings come from defaults, an optional YAML file, and
// ASTDIFF_-prefixed environment variables, in ascending precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidMinPriority = errors.New("match min_priority must be positive")
	ErrInvalidMetric      = errors.New("match priority_metric must be height or size")
	ErrInvalidLogLevel    = errors.New("logging level must be debug, info, warn or error")
	ErrInvalidLogFormat   = errors.New("logging format must be text or json")
	ErrInvalidSampleRatio = errors.New("telemetry sample_ratio must be between 0 and 1")
)

// Config holds all configuration for the astdiff CLI.
type Config struct {
	Match     MatchConfig     `mapstructure:"match"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// MatchConfig holds matching-specific configuration.
type MatchConfig struct {
	// MinPriority is the smallest subtree height or size still matched.
	MinPriority int `mapstructure:"min_priority"`

	// PriorityMetric orders the matching queues: "height" or "size".
	PriorityMetric string `mapstructure:"priority_metric"`

	// FunctionType is the node type treated as a function scope.
	FunctionType string `mapstructure:"function_type"`

	// NameType is the node type carrying a function's name.
	NameType string `mapstructure:"name_type"`

	// Simplified selects the aggregated edit script by default.
	Simplified bool `mapstructure:"simplified"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds tracing-specific configuration.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	Environment  string  `mapstructure:"environment"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	DebugTrace   bool    `mapstructure:"debug_trace"`
}

// LoadConfig loads configuration from file and environment variables.
// An empty path searches the working directory, ./config and
// /etc/astdiff; a missing file there is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("astdiff")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/astdiff")
	}

	viperCfg.SetEnvPrefix("ASTDIFF")
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

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("match.min_priority", DefaultMatchMinPriority)
	viperCfg.SetDefault("match.priority_metric", DefaultMatchPriorityMetric)
	viperCfg.SetDefault("match.function_type", DefaultMatchFunctionType)
	viperCfg.SetDefault("match.name_type", DefaultMatchNameType)
	viperCfg.SetDefault("match.simplified", false)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultTelemetrySampleRatio)
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if config.Match.MinPriority <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMinPriority, config.Match.MinPriority)
	}

	switch config.Match.PriorityMetric {
	case "height", "size":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMetric, config.Match.PriorityMetric)
	}

	switch config.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	switch config.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if config.Telemetry.SampleRatio < 0 || config.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, config.Telemetry.SampleRatio)
	}

	return nil
}
