package converter

import (
	"fmt"
	"io"
	"time"

	"github.com/erraggy/edmoas/csdl"
	"github.com/erraggy/edmoas/edm"
	"github.com/erraggy/edmoas/internal/options"
	"github.com/erraggy/edmoas/oaserrors"
	"github.com/erraggy/edmoas/openapi"
	"github.com/erraggy/edmoas/validator"
)

// ModelValidator decides whether a model may be converted. A false result
// carries the errors, in order, that become the error document.
type ModelValidator interface {
	ValidateModel(model *edm.Model) (bool, []error)
}

// Converter converts EDM models to OpenAPI documents.
type Converter struct {
	// Settings controls generation. New sets NewConvertSettings().
	Settings *ConvertSettings
	// Validator gates conversion when Settings.VerifyEdmModel is set
	Validator ModelValidator
	// Generators run in order to build a full document. Nil means
	// DefaultGenerators().
	Generators []Generator
	// Logger receives debug and warn entries. Nil discards them.
	Logger Logger
}

// New creates a Converter with default settings and the standard model
// validator.
func New() *Converter {
	return &Converter{
		Settings:  NewConvertSettings(),
		Validator: validator.New(),
		Logger:    NopLogger{},
	}
}

// ConversionResult contains the results of a conversion.
type ConversionResult struct {
	// Document is the generated document: a full document, or an error
	// document when the model failed verification
	Document *openapi.Document
	// Verified is true when the model was validated before conversion
	Verified bool
	// ModelErrors holds the validation errors carried by an error document
	ModelErrors []error
	// Stats summarizes the generated document
	Stats openapi.DocumentStats
	// LoadTime is the time taken to read the CSDL input, if any
	LoadTime time.Duration
	// SourcePath is the CSDL input path, "reader", or "" for a model
	SourcePath string
}

// HasModelErrors reports whether the document is an error document.
func (r *ConversionResult) HasModelErrors() bool {
	return len(r.ModelErrors) > 0
}

// Convert converts model using c's settings.
//
// A model that fails verification is not an error: the result is an error
// document listing the model errors. An error is returned only for absent
// arguments, invalid settings and generator defects.
func (c *Converter) Convert(model *edm.Model) (*openapi.Document, error) {
	result, err := c.convert(model)
	if err != nil {
		return nil, err
	}
	return result.Document, nil
}

func (c *Converter) convert(model *edm.Model) (*ConversionResult, error) {
	if model == nil {
		return nil, fmt.Errorf("converter: %w", oaserrors.NilArgument("model"))
	}
	if c.Settings == nil {
		return nil, fmt.Errorf("converter: %w", oaserrors.NilArgument("settings"))
	}
	if err := c.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("converter: %w", err)
	}
	logger := c.Logger
	if logger == nil {
		logger = NopLogger{}
	}

	result := &ConversionResult{SourcePath: model.SourcePath}
	if c.Settings.VerifyEdmModel {
		v := c.Validator
		if v == nil {
			v = validator.New()
		}
		result.Verified = true
		ok, errs := v.ValidateModel(model)
		if !ok {
			logger.Warn("model failed verification", "errors", len(errs))
			result.ModelErrors = errs
			result.Document = errorDocument(c.Settings.OpenAPIVersion, errs)
			result.Stats = result.Document.Stats()
			return result, nil
		}
		logger.Debug("model verified")
	}

	ctx, err := newContext(model, c.Settings, logger)
	if err != nil {
		return nil, err
	}
	generators := c.Generators
	if generators == nil {
		generators = DefaultGenerators()
	}
	doc, err := ctx.createDocument(generators)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Stats = doc.Stats()
	return result, nil
}

// Convert converts model with the default settings.
func Convert(model *edm.Model) (*openapi.Document, error) {
	return New().Convert(model)
}

// ConvertWithSettings converts model with settings. Settings are not
// modified.
func ConvertWithSettings(model *edm.Model, settings *ConvertSettings) (*openapi.Document, error) {
	if settings == nil {
		return nil, fmt.Errorf("converter: %w", oaserrors.NilArgument("settings"))
	}
	c := New()
	c.Settings = settings
	return c.Convert(model)
}

// ConvertWithMutation converts model with the default settings and then
// calls mutate, if not nil, on the assembled document.
func ConvertWithMutation(model *edm.Model, mutate func(*openapi.Document)) (*openapi.Document, error) {
	doc, err := Convert(model)
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(doc)
	}
	return doc, nil
}

// Option is a function that configures a conversion operation
type Option func(*convertConfig) error

// convertConfig holds configuration for a conversion operation
type convertConfig struct {
	// Input source (exactly one must be set)
	model    *edm.Model
	modelSet bool
	filePath *string
	reader   io.Reader

	settings   *ConvertSettings
	mutate     func(*openapi.Document)
	validator  ModelValidator
	generators []Generator
	logger     Logger
}

// ConvertWithOptions converts a model using functional options.
//
// Example:
//
//	result, err := converter.ConvertWithOptions(
//	    converter.WithFilePath("trippin.json"),
//	    converter.WithSettings(settings),
//	)
func ConvertWithOptions(opts ...Option) (*ConversionResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("converter: invalid options: %w", err)
	}

	model := cfg.model
	var loadTime time.Duration
	switch {
	case cfg.modelSet:
		if model == nil {
			return nil, fmt.Errorf("converter: %w", oaserrors.NilArgument("model"))
		}
	case cfg.filePath != nil:
		read, err := csdl.ReadFile(*cfg.filePath)
		if err != nil {
			return nil, fmt.Errorf("converter: %w", err)
		}
		model, loadTime = read.Model, read.LoadTime
	default:
		read, err := csdl.Read(cfg.reader)
		if err != nil {
			return nil, fmt.Errorf("converter: %w", err)
		}
		model, loadTime = read.Model, read.LoadTime
		model.SourcePath = read.SourcePath
	}

	c := New()
	c.Settings = cfg.settings
	if cfg.validator != nil {
		c.Validator = cfg.validator
	}
	if len(cfg.generators) > 0 {
		c.Generators = append(DefaultGenerators(), cfg.generators...)
	}
	if cfg.logger != nil {
		c.Logger = cfg.logger
	}

	result, err := c.convert(model)
	if err != nil {
		return nil, err
	}
	if cfg.mutate != nil {
		cfg.mutate(result.Document)
		result.Stats = result.Document.Stats()
	}
	result.LoadTime = loadTime
	return result, nil
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*convertConfig, error) {
	cfg := &convertConfig{settings: NewConvertSettings()}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := options.ValidateSingleInputSource(
		"must specify an input source (use WithModel, WithFilePath, or WithReader)",
		"must specify exactly one input source",
		cfg.modelSet, cfg.filePath != nil, cfg.reader != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithModel specifies an in-memory model as the input source
func WithModel(model *edm.Model) Option {
	return func(cfg *convertConfig) error {
		cfg.model = model
		cfg.modelSet = true
		return nil
	}
}

// WithFilePath specifies a CSDL JSON or YAML file as the input source
func WithFilePath(path string) Option {
	return func(cfg *convertConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader specifies a CSDL document stream as the input source
func WithReader(r io.Reader) Option {
	return func(cfg *convertConfig) error {
		if r == nil {
			return &oaserrors.ConfigError{Option: "WithReader", Message: "reader must not be nil"}
		}
		cfg.reader = r
		return nil
	}
}

// WithSettings sets the conversion settings
// Default: NewConvertSettings()
func WithSettings(settings *ConvertSettings) Option {
	return func(cfg *convertConfig) error {
		if settings == nil {
			return fmt.Errorf("WithSettings: %w", oaserrors.NilArgument("settings"))
		}
		cfg.settings = settings
		return nil
	}
}

// WithMutation sets a callback that runs on the assembled document
func WithMutation(mutate func(*openapi.Document)) Option {
	return func(cfg *convertConfig) error {
		cfg.mutate = mutate
		return nil
	}
}

// WithValidator replaces the model validator
// Default: validator.New()
func WithValidator(v ModelValidator) Option {
	return func(cfg *convertConfig) error {
		cfg.validator = v
		return nil
	}
}

// WithGenerator adds a generator that runs after the default generators
func WithGenerator(g Generator) Option {
	return func(cfg *convertConfig) error {
		if g == nil {
			return &oaserrors.ConfigError{Option: "WithGenerator", Message: "generator must not be nil"}
		}
		cfg.generators = append(cfg.generators, g)
		return nil
	}
}

// WithLogger sets the logger for conversion diagnostics
// Default: NopLogger
func WithLogger(logger Logger) Option {
	return func(cfg *convertConfig) error {
		cfg.logger = logger
		return nil
	}
}
