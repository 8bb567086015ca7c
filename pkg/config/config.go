// Package config provides configuration structures and loading logic for the
// sluice binary.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/sluiceio/sluice/pkg/guard"
	"github.com/sluiceio/sluice/pkg/logging"
)

// DefaultPath is the config file looked up when no --config flag is given.
const DefaultPath = "sluice.yaml"

// Config holds the global configuration for the sluice binary.
type Config struct {
	Guard     guard.Config    `yaml:"guard"`
	Logging   logging.Config  `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// TelemetryConfig holds configuration for OpenTelemetry export.
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	Insecure     bool   `yaml:"insecure"`
	Environment  string `yaml:"environment"`
}

// Default returns the configuration used when no file and no overrides are
// present.
func Default() *Config {
	return &Config{
		Guard: guard.Config{
			MaxInputLength: guard.DefaultMaxInputLength,
			Profile:        guard.DefaultProfile,
		},
		Logging: logging.Config{
			Level:   "info",
			Console: true,
		},
	}
}

// Load reads configuration from a file and applies environment variable
// overrides. Environment references inside the file ($VAR or ${VAR}) are
// expanded before parsing. An empty path skips the file and yields defaults
// plus overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		//nolint:gosec // Config file path is controlled by the operator
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("SLUICE_MAX_INPUT_LENGTH"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Guard.MaxInputLength = n
		}
	}
	if val := os.Getenv("SLUICE_PROFILE"); val != "" {
		cfg.Guard.Profile = val
	}
	if val := os.Getenv("SLUICE_PATTERN"); val != "" {
		cfg.Guard.Pattern = val
	}

	if val := os.Getenv("SLUICE_LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("SLUICE_LOG_DIR"); val != "" {
		cfg.Logging.Directory = val
	}
	if val := os.Getenv("SLUICE_LOG_PRETTY"); val == "true" {
		cfg.Logging.Pretty = true
	}

	if val := os.Getenv("SLUICE_OTLP_ENDPOINT"); val != "" {
		cfg.Telemetry.OTLPEndpoint = val
	}
	if val := os.Getenv("SLUICE_OTLP_INSECURE"); val == "true" {
		cfg.Telemetry.Insecure = true
	}
	if val := os.Getenv("SLUICE_ENVIRONMENT"); val != "" {
		cfg.Telemetry.Environment = val
	}
}

// Validate performs validation of the entire configuration.
func (c *Config) Validate() error {
	if err := c.Guard.Validate(); err != nil {
		return fmt.Errorf("guard configuration: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging configuration: %w", err)
	}

	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry configuration: %w", err)
	}

	return nil
}

// Validate performs validation of telemetry configuration.
func (c *TelemetryConfig) Validate() error {
	// Endpoint format is left to the exporter; an unreachable endpoint
	// surfaces at setup time.
	return nil
}

// LookupPath resolves the effective config file path: the explicit flag value
// when given, otherwise DefaultPath when such a file exists, otherwise empty.
func LookupPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return DefaultPath
	}
	return ""
}
