// Package edmoas converts OData Entity Data Models (EDM) to OpenAPI 3.0 and
// 3.1 documents.
//
// An OData service describes itself with a CSDL document: entity types,
// complex types, enumerations, functions, actions, and an entity container
// that exposes entity sets, singletons and operation imports. edmoas reads
// that description and generates an OpenAPI document with one path per
// addressable resource, a schema per structured type, the OData query
// parameters, the shared error response and the security schemes declared
// by the service.
//
// # Overview
//
// The library consists of these packages:
//
//   - csdl: Read CSDL JSON or YAML documents into an edm.Model
//   - edm: The in-memory Entity Data Model
//   - validator: Check a model for structural errors before conversion
//   - converter: Generate an OpenAPI document from a model
//   - openapi: The OpenAPI document model and its JSON/YAML serialization
//   - oaserrors: Structured error types shared by all packages
//
// # Installation
//
//	go get github.com/erraggy/edmoas
//
// The command-line tool:
//
//	go install github.com/erraggy/edmoas/cmd/edmoas@latest
//
// # Quick Start
//
// Convert a CSDL file:
//
//	import "github.com/erraggy/edmoas/converter"
//
//	result, err := converter.ConvertWithOptions(
//		converter.WithFilePath("trippin.json"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if result.HasModelErrors() {
//		// result.Document is an error document listing the model errors
//	}
//
// Convert an in-memory model with custom settings:
//
//	settings := converter.NewConvertSettings()
//	settings.OpenAPIVersion = "3.1.1"
//	settings.EnableKeyAsSegment = true
//	doc, err := converter.ConvertWithSettings(model, settings)
//
// Serialize the document:
//
//	data, err := openapi.Marshal(doc, openapi.FormatYAML)
//
// Validate a model without converting it:
//
//	import "github.com/erraggy/edmoas/validator"
//
//	result, err := validator.ValidateWithOptions(
//		validator.WithFilePath("trippin.json"),
//	)
//	for _, e := range result.Errors {
//		fmt.Println(e)
//	}
//
// # Invalid Models
//
// When model verification is enabled (the default), a model with structural
// errors is not converted. The converter instead returns a minimal document
// that carries only the "openapi" field and one x-ms-edm-model-error<N>
// extension per error, numbered from 1 in validation order. This is document
// content, not a Go error: Go errors are reserved for absent arguments,
// invalid settings and generator defects.
//
// # Command-Line Tool
//
// The edmoas command wraps the library:
//
//	edmoas convert [flags] <file|->   Convert a CSDL model to OpenAPI
//	edmoas validate [flags] <file|->  Validate a CSDL model
//	edmoas mcp                        Run the MCP server over stdio
//	edmoas version                    Show version information
//
// Flag defaults can be overridden with EDMOAS_* environment variables, and
// the MCP server reads EDMOAS_MCP_* variables.
//
// # Error Handling
//
// All packages return errors that can be inspected with errors.Is and
// errors.As against the types and sentinels in oaserrors:
//
//	_, err := converter.ConvertWithOptions(converter.WithFilePath("model.json"))
//	var parseErr *oaserrors.ParseError
//	if errors.As(err, &parseErr) {
//		fmt.Printf("line %d: %s\n", parseErr.Line, parseErr.Message)
//	}
//
// # Build Information
//
// Version, Commit and BuildTime report the values injected at build time.
// The converter writes Version to the x-ms-generated-by extension when its
// AddGeneratorExtension setting is on.
package edmoas
