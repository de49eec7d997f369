package commands

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/erraggy/edmoas/converter"
	"github.com/erraggy/edmoas/internal/cliutil"
	"github.com/erraggy/edmoas/internal/fileutil"
	"github.com/erraggy/edmoas/oaserrors"
	"github.com/erraggy/edmoas/openapi"
)

// ErrModelInvalid is the cause of the *oaserrors.ValidationError returned
// when the model failed verification and its report was already written.
var ErrModelInvalid = errors.New("model failed verification")

// modelInvalid returns the error for a model whose errors were reported.
func modelInvalid(specPath string, errorCount int) error {
	return &oaserrors.ValidationError{
		Path:       FormatSpecPath(specPath),
		ErrorCount: errorCount,
		Cause:      ErrModelInvalid,
	}
}

// ConvertFlags contains flags for the convert command
type ConvertFlags struct {
	Output  string
	Format  string
	Quiet   bool
	Verbose bool

	SchemaCheck bool

	ServiceRoot      string
	OpenAPIVersion   string
	SemVerVersion    string
	PathPrefix       string
	OperationIDStyle string
	TopExample       int

	NoVerify             bool
	KeyAsSegment         bool
	UnqualifiedCall      bool
	NoOperationPaths     bool
	NoImportPaths        bool
	NoNavigationPaths    bool
	NoCountPaths         bool
	NoOperationIDs       bool
	EdmTypeExtension     bool
	IEEE754Compatible    bool
	Pagination           bool
	DiscriminatorValue   bool
	DerivedTypes         bool
	PrefixKeyWithType    bool
	PathParamsOnPathItem bool
	GeneratorExtension   bool
}

// SetupConvertFlags creates and configures a FlagSet for the convert command.
// Returns the FlagSet and a ConvertFlags struct with bound flag variables.
func SetupConvertFlags(d *Defaults) (*flag.FlagSet, *ConvertFlags) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	flags := &ConvertFlags{}

	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Format, "format", d.Format, "document format: json or yaml")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output the document, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output the document, no diagnostic messages")
	fs.BoolVar(&flags.Verbose, "verbose", d.Verbose, "log conversion steps to stderr")
	fs.BoolVar(&flags.SchemaCheck, "schema-check", d.SchemaCheck, "check the CSDL shape against the bundled JSON Schema before decoding")

	fs.StringVar(&flags.ServiceRoot, "service-root", d.ServiceRoot, "service root URL (servers[0].url)")
	fs.StringVar(&flags.OpenAPIVersion, "openapi-version", d.OpenAPIVersion, "target OpenAPI version (3.0.x or 3.1.x)")
	fs.StringVar(&flags.SemVerVersion, "semver", d.SemVerVersion, "info.version of the generated document")
	fs.StringVar(&flags.PathPrefix, "path-prefix", d.PathPrefix, "prefix prepended to every path (e.g. /odata)")
	fs.StringVar(&flags.OperationIDStyle, "operation-id-style", d.OperationIDStyle, "operation id style: dotted, camel or snake")
	fs.IntVar(&flags.TopExample, "top-example", converter.DefaultTopExample, "example value of the $top parameter")

	fs.BoolVar(&flags.NoVerify, "no-verify", d.NoVerify, "skip model verification")
	fs.BoolVar(&flags.KeyAsSegment, "key-as-segment", false, "address entities as /Set/{key} instead of /Set('{key}')")
	fs.BoolVar(&flags.UnqualifiedCall, "unqualified-call", false, "omit the namespace from bound operation segments")
	fs.BoolVar(&flags.NoOperationPaths, "no-operation-paths", false, "omit bound function and action paths")
	fs.BoolVar(&flags.NoImportPaths, "no-import-paths", false, "omit function and action import paths")
	fs.BoolVar(&flags.NoNavigationPaths, "no-navigation-paths", false, "omit navigation property paths")
	fs.BoolVar(&flags.NoCountPaths, "no-count-paths", false, "omit $count paths")
	fs.BoolVar(&flags.NoOperationIDs, "no-operation-ids", false, "omit operationId")
	fs.BoolVar(&flags.EdmTypeExtension, "edm-type-extension", false, "annotate primitive schemas with x-ms-edm-type")
	fs.BoolVar(&flags.IEEE754Compatible, "ieee754", false, "allow Edm.Int64 and Edm.Decimal values as strings")
	fs.BoolVar(&flags.Pagination, "pagination", false, "add @odata.nextLink to collection responses")
	fs.BoolVar(&flags.DiscriminatorValue, "discriminator-value", false, "add @odata.type discriminators to derived types")
	fs.BoolVar(&flags.DerivedTypes, "derived-types", false, "reference derived types in entity responses")
	fs.BoolVar(&flags.PrefixKeyWithType, "prefix-key-type", false, "name single key parameters after the entity type")
	fs.BoolVar(&flags.PathParamsOnPathItem, "path-params-on-item", false, "declare path parameters on the path item")
	fs.BoolVar(&flags.GeneratorExtension, "generator-extension", false, "add the x-ms-generated-by extension")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: edmoas convert [flags] <file|->\n\n")
		cliutil.Writef(fs.Output(), "Convert an OData CSDL model (JSON or YAML) to an OpenAPI document.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  edmoas convert trippin.json -o openapi.json\n")
		cliutil.Writef(fs.Output(), "  edmoas convert --openapi-version 3.1.1 --format yaml trippin.json\n")
		cliutil.Writef(fs.Output(), "  edmoas convert --key-as-segment --path-prefix /odata trippin.json\n")
		cliutil.Writef(fs.Output(), "  cat trippin.json | edmoas convert -q - > openapi.json\n")
		cliutil.Writef(fs.Output(), "\nEnvironment:\n")
		cliutil.Writef(fs.Output(), "  %sSERVICE_ROOT, %sOPENAPI_VERSION, %sFORMAT, ... override flag defaults\n", EnvPrefix, EnvPrefix, EnvPrefix)
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Conversion successful\n")
		cliutil.Writef(fs.Output(), "  1    Conversion failed, or the model failed verification (an error document is still written)\n")
	}

	return fs, flags
}

// Settings builds conversion settings from the flags.
func (f *ConvertFlags) Settings() (*converter.ConvertSettings, error) {
	style, err := converter.ParseOperationIDStyle(f.OperationIDStyle)
	if err != nil {
		return nil, err
	}
	s := converter.NewConvertSettings()
	s.ServiceRoot = f.ServiceRoot
	s.OpenAPIVersion = f.OpenAPIVersion
	s.SemVerVersion = f.SemVerVersion
	s.PathPrefix = f.PathPrefix
	s.OperationIDStyle = style
	s.TopExample = f.TopExample
	s.VerifyEdmModel = !f.NoVerify
	s.EnableKeyAsSegment = f.KeyAsSegment
	s.EnableUnqualifiedCall = f.UnqualifiedCall
	s.EnableOperationPath = !f.NoOperationPaths
	s.EnableOperationImportPath = !f.NoImportPaths
	s.EnableNavigationPropertyPath = !f.NoNavigationPaths
	s.EnableDollarCountPath = !f.NoCountPaths
	s.EnableOperationID = !f.NoOperationIDs
	s.EnableEdmTypeExtension = f.EdmTypeExtension
	s.IEEE754Compatible = f.IEEE754Compatible
	s.EnablePagination = f.Pagination
	s.EnableDiscriminatorValue = f.DiscriminatorValue
	s.EnableDerivedTypesReferencesForResponses = f.DerivedTypes
	s.PrefixEntityTypeNameBeforeKey = f.PrefixKeyWithType
	s.DeclarePathParametersOnPathItem = f.PathParamsOnPathItem
	s.AddGeneratorExtension = f.GeneratorExtension
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// HandleConvert executes the convert command
func HandleConvert(args []string) error {
	defaults, err := LoadDefaults()
	if err != nil {
		return err
	}
	fs, flags := SetupConvertFlags(defaults)
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("convert command requires exactly one file path or '-' for stdin")
	}
	specPath := fs.Arg(0)

	format, err := ValidateDocumentFormat(flags.Format)
	if err != nil {
		return err
	}
	settings, err := flags.Settings()
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if flags.Output != "" {
		if err := ValidateOutputPath(flags.Output, specPath); err != nil {
			return err
		}
	}

	startTime := time.Now()
	read, err := ReadModel(specPath, flags.SchemaCheck)
	if err != nil {
		return err
	}

	opts := []converter.Option{
		converter.WithModel(read.Model),
		converter.WithSettings(settings),
	}
	if flags.Verbose {
		logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, converter.WithLogger(converter.NewSlogAdapter(logger)))
	}
	result, err := converter.ConvertWithOptions(opts...)
	if err != nil {
		return fmt.Errorf("converting %s: %w", FormatSpecPath(specPath), err)
	}
	totalTime := time.Since(startTime)
	doc := result.Document

	if !flags.Quiet {
		cliutil.Writef(stderr, "OData CSDL to OpenAPI Converter\n")
		cliutil.Writef(stderr, "===============================\n\n")
		OutputModelHeader(stderr, specPath, read)
		cliutil.Writef(stderr, "OpenAPI Version: %s\n", doc.OpenAPI)
		OutputDocumentStats(stderr, result.Stats)
		cliutil.Writef(stderr, "Total Time: %v\n\n", totalTime)
		if result.HasModelErrors() {
			cliutil.Writef(stderr, "Model Errors (%d):\n", len(result.ModelErrors))
			for _, e := range result.ModelErrors {
				cliutil.Writef(stderr, "  %s\n", e)
			}
			cliutil.Writef(stderr, "\n✗ Model failed verification; wrote an error document\n")
		} else {
			cliutil.Writef(stderr, "✓ Conversion successful\n")
		}
	}

	data, err := openapi.Marshal(doc, format)
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}

	if flags.Output != "" {
		if err := os.WriteFile(flags.Output, data, fileutil.OwnerReadWrite); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
		if !flags.Quiet {
			cliutil.Writef(stderr, "\nOutput written to: %s\n", flags.Output)
		}
	} else if _, err := stdout.Write(data); err != nil {
		return fmt.Errorf("writing document to stdout: %w", err)
	}

	if result.HasModelErrors() {
		return modelInvalid(specPath, len(result.ModelErrors))
	}
	return nil
}
