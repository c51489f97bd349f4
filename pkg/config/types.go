// Package config provides configuration loading and validation for secparse.
package config

import "regexp"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	LogLevel string      `yaml:"log_level" validate:"oneof=debug info warn error"`
	Output   string      `yaml:"output" validate:"oneof=text json"`
	Input    InputConfig `yaml:"input"`
	Retro    RetroConfig `yaml:"retro"`
}

// InputConfig controls how record dumps are normalized.
type InputConfig struct {
	// Format is the input encoding: moquery, text, xml, json or auto.
	Format string `yaml:"format" validate:"oneof=moquery text xml json auto"`

	// Delimiter replaces the record-start pattern of both text formats.
	// Empty keeps the per-format defaults.
	Delimiter string `yaml:"delimiter,omitempty"`

	// AllowEmpty keeps blank lines inside text records.
	AllowEmpty bool `yaml:"allow_empty"`

	// compiledDelimiter is the pre-compiled delimiter (populated during validation).
	compiledDelimiter *regexp.Regexp
}

// CompiledDelimiter returns the compiled delimiter, or nil if none is set.
func (i *InputConfig) CompiledDelimiter() *regexp.Regexp {
	return i.compiledDelimiter
}

// RetroConfig holds the default summary options.
type RetroConfig struct {
	Full      bool `yaml:"full"`
	Deletions bool `yaml:"deletions"`
	Space     bool `yaml:"space"`
	Month     bool `yaml:"month"`
}
