package openapi

import "github.com/erraggy/edmoas/internal/httputil"

// Paths holds the relative paths to the individual endpoints.
type Paths map[string]*PathItem

// PathItem describes the operations available on a single path.
type PathItem struct {
	Summary     string       `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Get         *Operation   `yaml:"get,omitempty" json:"get,omitempty"`
	Put         *Operation   `yaml:"put,omitempty" json:"put,omitempty"`
	Post        *Operation   `yaml:"post,omitempty" json:"post,omitempty"`
	Delete      *Operation   `yaml:"delete,omitempty" json:"delete,omitempty"`
	Patch       *Operation   `yaml:"patch,omitempty" json:"patch,omitempty"`
	Parameters  []*Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Operations returns the path item's operations keyed by lower-case HTTP
// method. Methods without an operation are omitted.
func (p *PathItem) Operations() map[string]*Operation {
	ops := make(map[string]*Operation, 5)
	for method, op := range map[string]*Operation{
		httputil.MethodGet:    p.Get,
		httputil.MethodPut:    p.Put,
		httputil.MethodPost:   p.Post,
		httputil.MethodDelete: p.Delete,
		httputil.MethodPatch:  p.Patch,
	} {
		if op != nil {
			ops[method] = op
		}
	}
	return ops
}

// Operation describes a single API operation on a path.
type Operation struct {
	Tags        []string              `yaml:"tags,omitempty" json:"tags,omitempty"`
	Summary     string                `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	OperationID string                `yaml:"operationId,omitempty" json:"operationId,omitempty"`
	Parameters  []*Parameter          `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	RequestBody *RequestBody          `yaml:"requestBody,omitempty" json:"requestBody,omitempty"`
	Responses   Responses             `yaml:"responses" json:"responses"`
	Deprecated  bool                  `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	Security    []SecurityRequirement `yaml:"security,omitempty" json:"security,omitempty"`

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Parameter describes a single operation parameter, or a reference to one.
type Parameter struct {
	Ref         string  `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Name        string  `yaml:"name,omitempty" json:"name,omitempty"`
	In          string  `yaml:"in,omitempty" json:"in,omitempty"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool    `yaml:"required,omitempty" json:"required,omitempty"`
	Style       string  `yaml:"style,omitempty" json:"style,omitempty"`
	Explode     *bool   `yaml:"explode,omitempty" json:"explode,omitempty"`
	Schema      *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
	Example     any     `yaml:"example,omitempty" json:"example,omitempty"`

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Parameter locations.
const (
	ParameterInPath   = "path"
	ParameterInQuery  = "query"
	ParameterInHeader = "header"
)

// RequestBody describes a single request body.
type RequestBody struct {
	Ref         string                `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
	Required    bool                  `yaml:"required,omitempty" json:"required,omitempty"`
}

// Responses maps HTTP status codes (or "default") to responses.
type Responses map[string]*Response

// Response describes a single response from an API operation, or a
// reference to one.
type Response struct {
	Ref         string                `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Headers     map[string]*Header    `yaml:"headers,omitempty" json:"headers,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// MediaType provides the schema for a media type.
type MediaType struct {
	Schema  *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
	Example any     `yaml:"example,omitempty" json:"example,omitempty"`
}

// Header describes a single response header.
type Header struct {
	Ref         string  `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool    `yaml:"required,omitempty" json:"required,omitempty"`
	Schema      *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// Media types used by OData services.
const (
	MediaTypeJSON        = "application/json"
	MediaTypeOctetStream = "application/octet-stream"
	MediaTypeTextPlain   = "text/plain"
)

// JSONContent returns a content map holding schema under application/json.
func JSONContent(schema *Schema) map[string]*MediaType {
	return map[string]*MediaType{MediaTypeJSON: {Schema: schema}}
}
