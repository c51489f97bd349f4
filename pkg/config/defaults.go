package config

import "os"

// Default values for configuration.
const (
	DefaultLogLevel = "warn"
	DefaultOutput   = "text"
	DefaultFormat   = "moquery"
)

// Environment variable names.
const (
	EnvFormat    = "SECPARSE_FORMAT"
	EnvLogLevel  = "SECPARSE_LOG_LEVEL"
	EnvDelimiter = "SECPARSE_DELIMITER"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Output:   DefaultOutput,
		Input: InputConfig{
			Format: DefaultFormat,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if format := os.Getenv(EnvFormat); format != "" {
		c.Input.Format = format
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = level
	}
	if delim := os.Getenv(EnvDelimiter); delim != "" {
		c.Input.Delimiter = delim
	}
}
