package edm

// Position is a 1-based source location. The zero value means unknown.
type Position struct {
	Line   int
	Column int
}

// CollectionResponseSuffix is appended to an entity type's name to form the
// schema that wraps a collection of that type in an OData response. A type
// declared under that name would shadow the wrapper.
const CollectionResponseSuffix = "CollectionResponse"

// TypeKind identifies the kind of a schema type.
type TypeKind int

const (
	// KindEntityType is an entity type.
	KindEntityType TypeKind = iota
	// KindComplexType is a complex type.
	KindComplexType
	// KindEnumType is an enumeration type.
	KindEnumType
	// KindTypeDefinition is a type definition over a primitive type.
	KindTypeDefinition
)

// String returns the CSDL $Kind name.
func (k TypeKind) String() string {
	switch k {
	case KindEntityType:
		return "EntityType"
	case KindComplexType:
		return "ComplexType"
	case KindEnumType:
		return "EnumType"
	case KindTypeDefinition:
		return "TypeDefinition"
	default:
		return "Unknown"
	}
}

// Type is a named type declared in a schema.
type Type interface {
	QualifiedName() string
	Kind() TypeKind
	Position() Position
}

// TypeRef references a type from a property, parameter or return type.
// Name is the qualified type name as written (it may use a schema alias).
type TypeRef struct {
	Name       string
	Collection bool
	Nullable   bool
	MaxLength  *int
	Precision  *int
	Scale      *int
}

// StructuredType holds what entity and complex types have in common.
type StructuredType struct {
	Namespace            string
	Name                 string
	BaseType             string
	Abstract             bool
	OpenType             bool
	Description          string
	Properties           []*Property
	NavigationProperties []*NavigationProperty
	Pos                  Position
}

// QualifiedName returns Namespace.Name.
func (s *StructuredType) QualifiedName() string {
	return qualify(s.Namespace, s.Name)
}

// Structure returns s. It lets callers reach the shared fields of an entity
// or complex type through the Structured interface.
func (s *StructuredType) Structure() *StructuredType {
	return s
}

// Position returns the declaration's source position.
func (s *StructuredType) Position() Position {
	return s.Pos
}

// FindProperty returns the structural property declared directly on s.
func (s *StructuredType) FindProperty(name string) *Property {
	for _, p := range s.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// FindNavigationProperty returns the navigation property declared directly on s.
func (s *StructuredType) FindNavigationProperty(name string) *NavigationProperty {
	for _, np := range s.NavigationProperties {
		if np.Name == name {
			return np
		}
	}
	return nil
}

// Structured is implemented by entity and complex types.
type Structured interface {
	Type
	Structure() *StructuredType
}

// EntityType is a structured type with a key.
type EntityType struct {
	StructuredType
	// Key lists the key property names. Empty for derived types, which
	// inherit the key of their base type.
	Key       []string
	HasStream bool
}

// Kind returns KindEntityType.
func (e *EntityType) Kind() TypeKind { return KindEntityType }

// ComplexType is a keyless structured type.
type ComplexType struct {
	StructuredType
}

// Kind returns KindComplexType.
func (c *ComplexType) Kind() TypeKind { return KindComplexType }

// Property is a structural property.
type Property struct {
	Name         string
	Type         TypeRef
	DefaultValue any
	Description  string
	Pos          Position
}

// NavigationProperty relates an entity or complex type to an entity type.
type NavigationProperty struct {
	Name           string
	Type           TypeRef
	ContainsTarget bool
	Partner        string
	Description    string
	Pos            Position
}

// EnumType is an enumeration of named integer values.
type EnumType struct {
	Namespace      string
	Name           string
	UnderlyingType string
	IsFlags        bool
	Description    string
	Members        []*EnumMember
	Pos            Position
}

// QualifiedName returns Namespace.Name.
func (e *EnumType) QualifiedName() string { return qualify(e.Namespace, e.Name) }

// Kind returns KindEnumType.
func (e *EnumType) Kind() TypeKind { return KindEnumType }

// Position returns the declaration's source position.
func (e *EnumType) Position() Position { return e.Pos }

// EnumMember is a single enumeration value.
type EnumMember struct {
	Name        string
	Value       int64
	Description string
}

// TypeDefinition names a primitive type with optional facets.
type TypeDefinition struct {
	Namespace      string
	Name           string
	UnderlyingType string
	MaxLength      *int
	Precision      *int
	Scale          *int
	Description    string
	Pos            Position
}

// QualifiedName returns Namespace.Name.
func (t *TypeDefinition) QualifiedName() string { return qualify(t.Namespace, t.Name) }

// Kind returns KindTypeDefinition.
func (t *TypeDefinition) Kind() TypeKind { return KindTypeDefinition }

// Position returns the declaration's source position.
func (t *TypeDefinition) Position() Position { return t.Pos }

func qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}
