// Package naming provides the case conversions used when deriving OpenAPI
// identifiers from EDM names.
//
// The converter uses these functions for operationId styles (dotted, camel,
// snake) and for key parameter names such as "person-id". Title casing is
// delegated to golang.org/x/text/cases so that non-ASCII identifiers, which
// CSDL permits, are handled correctly.
package naming
