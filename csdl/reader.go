package csdl

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/erraggy/edmoas/edm"
	"github.com/erraggy/edmoas/internal/options"
	"github.com/erraggy/edmoas/oaserrors"
)

// DefaultMaxInputSize is the largest document read unless overridden.
const DefaultMaxInputSize int64 = 64 << 20

// SourceFormat is the detected serialization of a CSDL document.
type SourceFormat string

const (
	// SourceFormatJSON is CSDL JSON.
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatYAML is the CSDL JSON structure written as YAML.
	SourceFormatYAML SourceFormat = "yaml"
)

// ReadResult holds a decoded model and facts about its source.
type ReadResult struct {
	// Model is the decoded model
	Model *edm.Model
	// SourcePath is the file path, or a placeholder for in-memory input
	SourcePath string
	// SourceFormat is the detected format
	SourceFormat SourceFormat
	// SourceSize is the size of the input in bytes
	SourceSize int64
	// LoadTime is the time taken to read and decode the input
	LoadTime time.Duration
}

// Option is a function that configures a read operation
type Option func(*readConfig) error

type readConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	reader   io.Reader
	data     []byte

	schemaCheck  bool
	maxInputSize int64
}

// WithFilePath reads the document from a file
func WithFilePath(path string) Option {
	return func(cfg *readConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader reads the document from r
func WithReader(r io.Reader) Option {
	return func(cfg *readConfig) error {
		if r == nil {
			return &oaserrors.ConfigError{Option: "WithReader", Message: "reader must not be nil"}
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes reads the document from data
func WithBytes(data []byte) Option {
	return func(cfg *readConfig) error {
		if data == nil {
			data = []byte{}
		}
		cfg.data = data
		return nil
	}
}

// WithSchemaCheck enables the embedded JSON Schema shape check
// Default: false
func WithSchemaCheck(enabled bool) Option {
	return func(cfg *readConfig) error {
		cfg.schemaCheck = enabled
		return nil
	}
}

// WithMaxInputSize limits the input size in bytes
// Default: DefaultMaxInputSize
func WithMaxInputSize(n int64) Option {
	return func(cfg *readConfig) error {
		if n <= 0 {
			return &oaserrors.ConfigError{Option: "WithMaxInputSize", Value: n, Message: "must be positive"}
		}
		cfg.maxInputSize = n
		return nil
	}
}

func applyOptions(opts ...Option) (*readConfig, error) {
	cfg := &readConfig{maxInputSize: DefaultMaxInputSize}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := options.ValidateSingleInputSource(
		"must specify an input source (use WithFilePath, WithReader, or WithBytes)",
		"must specify exactly one input source",
		cfg.filePath != nil, cfg.reader != nil, cfg.data != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadWithOptions reads a CSDL document using functional options.
//
// Example:
//
//	result, err := csdl.ReadWithOptions(
//	    csdl.WithFilePath("trippin.json"),
//	    csdl.WithSchemaCheck(true),
//	)
func ReadWithOptions(opts ...Option) (*ReadResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("csdl: invalid options: %w", err)
	}

	start := time.Now()
	data, sourcePath, err := cfg.load()
	if err != nil {
		return nil, fmt.Errorf("csdl: %w", err)
	}

	format := detectFormat(sourcePath, data)
	if cfg.schemaCheck {
		if err := checkShape(data, sourcePath); err != nil {
			return nil, fmt.Errorf("csdl: %w", err)
		}
	}

	model, err := decode(data, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("csdl: %w", err)
	}
	if cfg.filePath != nil {
		model.SourcePath = sourcePath
	}

	return &ReadResult{
		Model:        model,
		SourcePath:   sourcePath,
		SourceFormat: format,
		SourceSize:   int64(len(data)),
		LoadTime:     time.Since(start),
	}, nil
}

// ReadFile reads the CSDL document at path.
func ReadFile(path string) (*ReadResult, error) {
	return ReadWithOptions(WithFilePath(path))
}

// Read reads a CSDL document from r.
func Read(r io.Reader) (*ReadResult, error) {
	return ReadWithOptions(WithReader(r))
}

func (cfg *readConfig) load() ([]byte, string, error) {
	switch {
	case cfg.filePath != nil:
		path := *cfg.filePath
		info, err := os.Stat(path)
		if err != nil {
			return nil, path, err
		}
		if info.Size() > cfg.maxInputSize {
			return nil, path, &oaserrors.ResourceLimitError{
				ResourceType: "file_size",
				Limit:        cfg.maxInputSize,
				Actual:       info.Size(),
				Message:      path,
			}
		}
		data, err := os.ReadFile(path)
		return data, path, err
	case cfg.reader != nil:
		data, err := io.ReadAll(io.LimitReader(cfg.reader, cfg.maxInputSize+1))
		if err != nil {
			return nil, "reader", err
		}
		if int64(len(data)) > cfg.maxInputSize {
			return nil, "reader", &oaserrors.ResourceLimitError{
				ResourceType: "file_size",
				Limit:        cfg.maxInputSize,
				Message:      "input from reader",
			}
		}
		return data, "reader", nil
	default:
		if int64(len(cfg.data)) > cfg.maxInputSize {
			return nil, "bytes", &oaserrors.ResourceLimitError{
				ResourceType: "file_size",
				Limit:        cfg.maxInputSize,
				Actual:       int64(len(cfg.data)),
			}
		}
		return cfg.data, "bytes", nil
	}
}

// detectFormat uses the file extension when it is known and otherwise
// treats input starting with '{' as JSON.
func detectFormat(path string, data []byte) SourceFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SourceFormatJSON
	case ".yaml", ".yml":
		return SourceFormatYAML
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}
