package openapi

import "strings"

// Component reference prefixes.
const (
	RefPrefixSchemas         = "#/components/schemas/"
	RefPrefixParameters      = "#/components/parameters/"
	RefPrefixResponses       = "#/components/responses/"
	RefPrefixRequestBodies   = "#/components/requestBodies/"
	RefPrefixHeaders         = "#/components/headers/"
	RefPrefixSecuritySchemes = "#/components/securitySchemes/"
)

// SchemaRef builds "#/components/schemas/{name}".
func SchemaRef(name string) string {
	return RefPrefixSchemas + name
}

// ParameterRef builds "#/components/parameters/{name}".
func ParameterRef(name string) string {
	return RefPrefixParameters + name
}

// ResponseRef builds "#/components/responses/{name}".
func ResponseRef(name string) string {
	return RefPrefixResponses + name
}

// SecuritySchemeRef builds "#/components/securitySchemes/{name}".
func SecuritySchemeRef(name string) string {
	return RefPrefixSecuritySchemes + name
}

// RefSchema returns a schema that only references the named component schema.
func RefSchema(name string) *Schema {
	return &Schema{Ref: SchemaRef(name)}
}

// RefParameter returns a parameter that only references the named component parameter.
func RefParameter(name string) *Parameter {
	return &Parameter{Ref: ParameterRef(name)}
}

// RefResponse returns a response that only references the named component response.
func RefResponse(name string) *Response {
	return &Response{Ref: ResponseRef(name)}
}

// RefType categorizes reference targets by their component type.
type RefType int

const (
	// RefTypeSchema represents references to schema definitions
	RefTypeSchema RefType = iota
	// RefTypeParameter represents references to parameter definitions
	RefTypeParameter
	// RefTypeResponse represents references to response definitions
	RefTypeResponse
	// RefTypeRequestBody represents references to request body definitions
	RefTypeRequestBody
	// RefTypeHeader represents references to header definitions
	RefTypeHeader
	// RefTypeSecurityScheme represents references to security scheme definitions
	RefTypeSecurityScheme
	// RefTypeUnknown represents references outside the local components
	RefTypeUnknown
)

// String returns the string representation of a RefType.
func (rt RefType) String() string {
	switch rt {
	case RefTypeSchema:
		return "schema"
	case RefTypeParameter:
		return "parameter"
	case RefTypeResponse:
		return "response"
	case RefTypeRequestBody:
		return "requestBody"
	case RefTypeHeader:
		return "header"
	case RefTypeSecurityScheme:
		return "securityScheme"
	default:
		return "unknown"
	}
}

// ParseRef splits a local component reference into its type and component
// name. Non-local or unrecognized references return RefTypeUnknown.
func ParseRef(ref string) (RefType, string) {
	prefixes := []struct {
		prefix string
		typ    RefType
	}{
		{RefPrefixSchemas, RefTypeSchema},
		{RefPrefixParameters, RefTypeParameter},
		{RefPrefixResponses, RefTypeResponse},
		{RefPrefixRequestBodies, RefTypeRequestBody},
		{RefPrefixHeaders, RefTypeHeader},
		{RefPrefixSecuritySchemes, RefTypeSecurityScheme},
	}
	for _, p := range prefixes {
		if name, ok := strings.CutPrefix(ref, p.prefix); ok {
			return p.typ, name
		}
	}
	return RefTypeUnknown, ""
}
