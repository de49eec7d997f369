// Package converter generates OpenAPI 3.x documents from OData EDM models.
//
// A conversion first verifies the model (unless disabled). A model that
// fails verification produces an error document instead of a Go error: the
// document holds only the "openapi" version and one extension per model
// error, named x-ms-edm-model-error1 through x-ms-edm-model-errorN. A valid
// model is converted by a sequence of fragment generators (schemas,
// parameters, responses, security schemes, tags and paths) that each fill
// one part of the document and refer to each other only through $ref.
//
// # Quick Start
//
// Convert a CSDL file using functional options:
//
//	result, err := converter.ConvertWithOptions(
//		converter.WithFilePath("trippin.json"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if result.HasModelErrors() {
//		fmt.Printf("%d model error(s)\n", len(result.ModelErrors))
//	}
//
// Or convert an in-memory model with custom settings:
//
//	settings := converter.NewConvertSettings()
//	settings.OpenAPIVersion = "3.1.1"
//	settings.EnableKeyAsSegment = true
//	doc, err := converter.ConvertWithSettings(model, settings)
//
// # Options
//
//   - [WithModel], [WithFilePath] or [WithReader] selects the input (exactly one)
//   - [WithSettings] replaces the default ConvertSettings
//   - [WithMutation] edits a copy of the settings before validation
//   - [WithValidator] substitutes the model verifier
//   - [WithGenerator] appends a generator after the built-in ones
//   - [WithLogger] receives debug output from each stage
//
// # Settings
//
// ConvertSettings holds every generation policy. Always start from
// NewConvertSettings: the zero value turns off most path kinds and
// operation ids. Settings are validated before use and are never modified.
//
// # Custom Generators
//
// A Generator adds a concern to the document. GenerateFunc and
// ComponentGenerator adapt a pure function returning named fragments:
//
//	g := converter.ComponentGenerator("examples", createExamples, converter.SchemasTarget)
//	result, err := converter.ConvertWithOptions(
//		converter.WithModel(model),
//		converter.WithGenerator(g),
//	)
//
// Fragment names must be unique within a component map; a collision is
// reported as an *oaserrors.ConversionError.
//
// # Related Packages
//
//   - [github.com/erraggy/edmoas/csdl] reads CSDL JSON and YAML into models
//   - [github.com/erraggy/edmoas/validator] verifies models
//   - [github.com/erraggy/edmoas/openapi] is the output document model
package converter
