package validator

import (
	"github.com/erraggy/edmoas/edm"
	"github.com/erraggy/edmoas/internal/options"
)

// Option is a function that configures a validation operation
type Option func(*validateConfig) error

// validateConfig holds configuration for a validation operation
type validateConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	model    *edm.Model

	includeWarnings bool
	strictMode      bool
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*validateConfig, error) {
	cfg := &validateConfig{
		includeWarnings: true,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"must specify an input source (use WithFilePath or WithModel)",
		"must specify exactly one input source",
		cfg.filePath != nil, cfg.model != nil,
	); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithFilePath specifies a CSDL file as the input source
func WithFilePath(path string) Option {
	return func(cfg *validateConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithModel specifies an in-memory model as the input source
func WithModel(model *edm.Model) Option {
	return func(cfg *validateConfig) error {
		cfg.model = model
		return nil
	}
}

// WithIncludeWarnings enables or disables warnings
// Default: true
func WithIncludeWarnings(enabled bool) Option {
	return func(cfg *validateConfig) error {
		cfg.includeWarnings = enabled
		return nil
	}
}

// WithStrictMode reports warnings as errors
// Default: false
func WithStrictMode(enabled bool) Option {
	return func(cfg *validateConfig) error {
		cfg.strictMode = enabled
		return nil
	}
}
