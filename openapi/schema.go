package openapi

// Schema represents a JSON Schema as used by OpenAPI 3.0 and 3.1.
//
// Type is either a string or, for OAS 3.1 nullable types, a []string such as
// ["string", "null"].
type Schema struct {
	Ref string `yaml:"$ref,omitempty" json:"$ref,omitempty"`

	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Default     any    `yaml:"default,omitempty" json:"default,omitempty"`

	Type   any    `yaml:"type,omitempty" json:"type,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	Enum   []any  `yaml:"enum,omitempty" json:"enum,omitempty"`

	Maximum   *float64 `yaml:"maximum,omitempty" json:"maximum,omitempty"`
	Minimum   *float64 `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	MaxLength *int     `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	Pattern   string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	Items                *Schema            `yaml:"items,omitempty" json:"items,omitempty"`
	Properties           map[string]*Schema `yaml:"properties,omitempty" json:"properties,omitempty"`
	AdditionalProperties any                `yaml:"additionalProperties,omitempty" json:"additionalProperties,omitempty"` // *Schema or bool
	Required             []string           `yaml:"required,omitempty" json:"required,omitempty"`

	AllOf []*Schema `yaml:"allOf,omitempty" json:"allOf,omitempty"`
	AnyOf []*Schema `yaml:"anyOf,omitempty" json:"anyOf,omitempty"`
	OneOf []*Schema `yaml:"oneOf,omitempty" json:"oneOf,omitempty"`

	Nullable      bool           `yaml:"nullable,omitempty" json:"nullable,omitempty"` // OAS 3.0 only
	Discriminator *Discriminator `yaml:"discriminator,omitempty" json:"discriminator,omitempty"`
	ReadOnly      bool           `yaml:"readOnly,omitempty" json:"readOnly,omitempty"`
	Example       any            `yaml:"example,omitempty" json:"example,omitempty"`

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Discriminator aids in serialization and validation of polymorphic schemas.
type Discriminator struct {
	PropertyName string            `yaml:"propertyName" json:"propertyName"`
	Mapping      map[string]string `yaml:"mapping,omitempty" json:"mapping,omitempty"`
}

// JSON Schema type names.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
	TypeNull    = "null"
)

// SetExtension records a specification extension on the schema.
func (s *Schema) SetExtension(key string, value any) {
	if s.Extra == nil {
		s.Extra = make(map[string]any)
	}
	s.Extra[key] = value
}

// TypeName returns the schema's primary type, ignoring "null" in a 3.1
// type array. It returns "" when no type is set.
func (s *Schema) TypeName() string {
	switch t := s.Type.(type) {
	case string:
		return t
	case []string:
		for _, v := range t {
			if v != TypeNull {
				return v
			}
		}
	case []any:
		for _, v := range t {
			if str, ok := v.(string); ok && str != TypeNull {
				return str
			}
		}
	}
	return ""
}

// Ptr returns a pointer to v. It is used for optional numeric schema fields.
func Ptr[T any](v T) *T {
	return &v
}
