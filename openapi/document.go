package openapi

import "strings"

// Document represents an OpenAPI 3.x document.
type Document struct {
	OpenAPI      string                `yaml:"openapi" json:"openapi"`
	Info         *Info                 `yaml:"info,omitempty" json:"info,omitempty"`
	Servers      []*Server             `yaml:"servers,omitempty" json:"servers,omitempty"`
	Paths        Paths                 `yaml:"paths,omitempty" json:"paths,omitempty"`
	Components   *Components           `yaml:"components,omitempty" json:"components,omitempty"`
	Security     []SecurityRequirement `yaml:"security,omitempty" json:"security,omitempty"`
	Tags         []*Tag                `yaml:"tags,omitempty" json:"tags,omitempty"`
	ExternalDocs *ExternalDocs         `yaml:"externalDocs,omitempty" json:"externalDocs,omitempty"`

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// NewDocument returns an empty document for the given OpenAPI version.
func NewDocument(version string) *Document {
	return &Document{OpenAPI: version}
}

// EnsureComponents returns the document's Components, creating it if needed.
func (d *Document) EnsureComponents() *Components {
	if d.Components == nil {
		d.Components = &Components{}
	}
	return d.Components
}

// SetExtension records a specification extension on the document.
func (d *Document) SetExtension(key string, value any) {
	if d.Extra == nil {
		d.Extra = make(map[string]any)
	}
	d.Extra[key] = value
}

// IsOAS31 reports whether the document targets OpenAPI 3.1 or later.
func (d *Document) IsOAS31() bool {
	return IsOAS31(d.OpenAPI)
}

// IsOAS31 reports whether version is an OpenAPI 3.1 (or later 3.x) version.
func IsOAS31(version string) bool {
	return strings.HasPrefix(version, "3.") && !strings.HasPrefix(version, "3.0")
}

// Components holds reusable objects for different aspects of the document.
type Components struct {
	Schemas         map[string]*Schema         `yaml:"schemas,omitempty" json:"schemas,omitempty"`
	Responses       map[string]*Response       `yaml:"responses,omitempty" json:"responses,omitempty"`
	Parameters      map[string]*Parameter      `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	RequestBodies   map[string]*RequestBody    `yaml:"requestBodies,omitempty" json:"requestBodies,omitempty"`
	Headers         map[string]*Header         `yaml:"headers,omitempty" json:"headers,omitempty"`
	SecuritySchemes map[string]*SecurityScheme `yaml:"securitySchemes,omitempty" json:"securitySchemes,omitempty"`

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Info provides metadata about the API.
type Info struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Version     string `yaml:"version" json:"version"`

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Server represents a server hosting the API.
type Server struct {
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Tag adds metadata to a single tag used by operations.
type Tag struct {
	Name         string        `yaml:"name" json:"name"`
	Description  string        `yaml:"description,omitempty" json:"description,omitempty"`
	ExternalDocs *ExternalDocs `yaml:"externalDocs,omitempty" json:"externalDocs,omitempty"`

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// ExternalDocs points to additional external documentation.
type ExternalDocs struct {
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	URL         string `yaml:"url" json:"url"`
}

// SecurityRequirement lists the security schemes required for an operation,
// keyed by scheme name with the scopes each one needs.
type SecurityRequirement map[string][]string
