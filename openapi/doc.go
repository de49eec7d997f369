// Package openapi defines the OpenAPI 3.x document model produced by the
// converter, along with reference helpers and JSON/YAML serialization.
//
// The types cover the subset of OAS 3.0 and 3.1 that an OData service
// description needs. Every object that allows specification extensions
// carries an Extra map. Extra is inlined for YAML through the ",inline" tag
// and flattened for JSON by custom MarshalJSON methods.
//
// # References
//
// Fragments link to each other through "$ref" pointers built with
// [SchemaRef], [ParameterRef], [ResponseRef] and [SecuritySchemeRef].
// [Document.UnresolvedRefs] reports any pointer whose target component is
// absent, which a correctly assembled document never has.
//
// # Serialization
//
//	data, err := openapi.Marshal(doc, openapi.FormatYAML)
//
// JSON output sorts object keys; YAML output keeps struct field order and
// sorts map keys. Both are deterministic for a given document.
package openapi
