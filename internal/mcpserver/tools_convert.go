package mcpserver

import (
	"context"
	"fmt"
	"os"

	"github.com/erraggy/edmoas/converter"
	"github.com/erraggy/edmoas/internal/fileutil"
	"github.com/erraggy/edmoas/internal/pathutil"
	"github.com/erraggy/edmoas/openapi"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type convertInput struct {
	Model            modelInput `json:"model"                         jsonschema:"The CSDL model to convert"`
	OpenAPIVersion   string     `json:"openapi_version,omitempty"     jsonschema:"Target OpenAPI version (3.0.x or 3.1.x)"`
	ServiceRoot      string     `json:"service_root,omitempty"        jsonschema:"Service root URL written to servers[0]"`
	PathPrefix       string     `json:"path_prefix,omitempty"         jsonschema:"Prefix prepended to every path (e.g. /odata)"`
	OperationIDStyle string     `json:"operation_id_style,omitempty"  jsonschema:"Operation id style: dotted\\, camel or snake"`
	Format           string     `json:"format,omitempty"              jsonschema:"Document format: json or yaml"`
	NoVerify         bool       `json:"no_verify,omitempty"           jsonschema:"Skip model verification"`
	KeyAsSegment     bool       `json:"key_as_segment,omitempty"      jsonschema:"Address entities as /Set/{key}"`
	UnqualifiedCall  bool       `json:"unqualified_call,omitempty"    jsonschema:"Omit the namespace from bound operation segments"`
	Pagination       bool       `json:"pagination,omitempty"          jsonschema:"Add @odata.nextLink to collection responses"`
	DerivedTypes     bool       `json:"derived_types,omitempty"       jsonschema:"Reference derived types in entity responses"`
	SchemaCheck      *bool      `json:"schema_check,omitempty"        jsonschema:"Check the CSDL shape against the bundled JSON Schema before decoding"`
	Output           string     `json:"output,omitempty"              jsonschema:"File path to write the document. If omitted the document is returned inline."`
}

type convertOutput struct {
	OpenAPIVersion  string                `json:"openapi_version"`
	Verified        bool                  `json:"verified"`
	ModelErrorCount int                   `json:"model_error_count"`
	ModelErrors     []string              `json:"model_errors,omitempty"`
	Stats           openapi.DocumentStats `json:"stats"`
	WrittenTo       string                `json:"written_to,omitempty"`
	Document        string                `json:"document,omitempty"`
}

func handleConvert(_ context.Context, _ *mcp.CallToolRequest, input convertInput) (*mcp.CallToolResult, convertOutput, error) {
	settings, err := buildSettings(input)
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}
	format, err := openapi.ParseFormat(stringOr(input.Format, cfg.Format))
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	read, err := input.Model.resolve(boolOr(input.SchemaCheck, cfg.SchemaCheck))
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	result, err := converter.ConvertWithOptions(
		converter.WithModel(read.Model),
		converter.WithSettings(settings),
	)
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	output := convertOutput{
		OpenAPIVersion:  result.Document.OpenAPI,
		Verified:        result.Verified,
		ModelErrorCount: len(result.ModelErrors),
		Stats:           result.Stats,
	}
	output.ModelErrors = makeSlice[string](len(result.ModelErrors))
	for _, e := range result.ModelErrors {
		output.ModelErrors = append(output.ModelErrors, e.Error())
	}

	data, err := openapi.Marshal(result.Document, format)
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	if input.Output != "" {
		outPath, err := pathutil.SanitizeOutputPath(input.Output)
		if err != nil {
			return errResult(err), convertOutput{}, nil
		}
		if err := os.WriteFile(outPath, data, fileutil.OwnerReadWrite); err != nil {
			return errResult(fmt.Errorf("failed to write output file: %w", err)), convertOutput{}, nil
		}
		output.WrittenTo = outPath
	} else {
		output.Document = string(data)
	}

	return nil, output, nil
}

// buildSettings translates the MCP input into conversion settings, applying
// server defaults for omitted fields.
func buildSettings(input convertInput) (*converter.ConvertSettings, error) {
	style, err := converter.ParseOperationIDStyle(input.OperationIDStyle)
	if err != nil {
		return nil, err
	}
	s := converter.NewConvertSettings()
	s.OpenAPIVersion = stringOr(input.OpenAPIVersion, cfg.OpenAPIVersion)
	s.ServiceRoot = stringOr(input.ServiceRoot, cfg.ServiceRoot)
	s.PathPrefix = input.PathPrefix
	s.OperationIDStyle = style
	s.VerifyEdmModel = !input.NoVerify
	s.EnableKeyAsSegment = input.KeyAsSegment
	s.EnableUnqualifiedCall = input.UnqualifiedCall
	s.EnablePagination = input.Pagination
	s.EnableDerivedTypesReferencesForResponses = input.DerivedTypes
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// stringOr returns s, or fallback when s is empty.
func stringOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
