package converter

import (
	"fmt"

	"github.com/erraggy/edmoas/edm"
	"github.com/erraggy/edmoas/oaserrors"
	"github.com/erraggy/edmoas/openapi"
)

// boundKey identifies the binding parameter type of a bound operation.
type boundKey struct {
	typeName   string
	collection bool
}

// Context is the per-conversion view of a model. It is built once by
// NewContext, read by every generator, and never modified afterwards.
// A Context is not shared between conversions.
type Context struct {
	model    *edm.Model
	settings *ConvertSettings
	logger   Logger

	types           map[string]edm.Type
	structured      []edm.Structured
	enums           []*edm.EnumType
	typeDefinitions []*edm.TypeDefinition
	derived         map[string][]edm.Structured
	bound           map[boundKey][]*edm.Operation
	entitySets      map[string][]*edm.EntitySet
	collections     map[string]bool
}

// NewContext builds the lookups shared by the generators. Settings are
// copied, so later changes by the caller are not observed.
func NewContext(model *edm.Model, settings *ConvertSettings) (*Context, error) {
	return newContext(model, settings, nil)
}

func newContext(model *edm.Model, settings *ConvertSettings, logger Logger) (*Context, error) {
	if model == nil {
		return nil, fmt.Errorf("converter: %w", oaserrors.NilArgument("model"))
	}
	if settings == nil {
		return nil, fmt.Errorf("converter: %w", oaserrors.NilArgument("settings"))
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("converter: %w", err)
	}
	if logger == nil {
		logger = NopLogger{}
	}

	c := &Context{
		model:       model,
		settings:    settings.Clone(),
		logger:      logger,
		types:       make(map[string]edm.Type),
		derived:     make(map[string][]edm.Structured),
		bound:       make(map[boundKey][]*edm.Operation),
		entitySets:  make(map[string][]*edm.EntitySet),
		collections: make(map[string]bool),
	}
	c.index()
	return c, nil
}

func (c *Context) index() {
	m := c.model
	for _, s := range m.Schemas {
		for _, t := range s.Types() {
			c.types[t.QualifiedName()] = t
		}
		for _, et := range s.EntityTypes {
			c.structured = append(c.structured, et)
		}
		for _, ct := range s.ComplexTypes {
			c.structured = append(c.structured, ct)
		}
		c.enums = append(c.enums, s.EnumTypes...)
		c.typeDefinitions = append(c.typeDefinitions, s.TypeDefinitions...)
	}

	for _, t := range c.structured {
		for _, anc := range m.Ancestry(t)[1:] {
			name := anc.QualifiedName()
			c.derived[name] = append(c.derived[name], t)
		}
	}

	for _, s := range m.Schemas {
		for _, op := range s.Operations {
			if p := op.BindingParameter(); p != nil {
				key := boundKey{typeName: m.ResolveAlias(p.Type.Name), collection: p.Type.Collection}
				c.bound[key] = append(c.bound[key], op)
			}
			if rt := op.ReturnType; rt != nil && rt.Collection {
				c.markCollection(rt.Name)
			}
		}
	}

	for _, t := range c.structured {
		for _, np := range t.Structure().NavigationProperties {
			if np.Type.Collection {
				c.markCollection(np.Type.Name)
			}
		}
	}

	if ec := m.EntityContainer; ec != nil {
		for _, es := range ec.EntitySets {
			name := m.ResolveAlias(es.EntityType)
			c.entitySets[name] = append(c.entitySets[name], es)
			c.markCollection(name)
		}
	}
}

func (c *Context) markCollection(typeName string) {
	if et, ok := c.FindType(typeName); ok && et.Kind() == edm.KindEntityType {
		c.collections[et.QualifiedName()] = true
	}
}

// Model returns the model being converted.
func (c *Context) Model() *edm.Model { return c.model }

// Settings returns the conversion settings. The returned value belongs to
// the Context and must not be modified.
func (c *Context) Settings() *ConvertSettings { return c.settings }

// Logger returns the conversion logger.
func (c *Context) Logger() Logger { return c.logger }

// EntityContainer returns the model's entity container, or nil.
func (c *Context) EntityContainer() *edm.EntityContainer { return c.model.EntityContainer }

// FindType returns the named type. Aliases are resolved.
func (c *Context) FindType(name string) (edm.Type, bool) {
	t, ok := c.types[c.model.ResolveAlias(name)]
	return t, ok
}

// FindEntityType returns the named entity type, or nil.
func (c *Context) FindEntityType(name string) *edm.EntityType {
	t, _ := c.FindType(name)
	et, _ := t.(*edm.EntityType)
	return et
}

// StructuredTypes returns entity types then complex types, per schema, in
// declaration order.
func (c *Context) StructuredTypes() []edm.Structured { return c.structured }

// EnumTypes returns every enum type in declaration order.
func (c *Context) EnumTypes() []*edm.EnumType { return c.enums }

// TypeDefinitions returns every type definition in declaration order.
func (c *Context) TypeDefinitions() []*edm.TypeDefinition { return c.typeDefinitions }

// DerivedTypes returns every type that directly or indirectly derives from
// t, in declaration order.
func (c *Context) DerivedTypes(t edm.Structured) []edm.Structured {
	return c.derived[t.QualifiedName()]
}

// BoundOperations returns the operations bound to typeName, or to a
// collection of typeName when collection is true.
func (c *Context) BoundOperations(typeName string, collection bool) []*edm.Operation {
	return c.bound[boundKey{typeName: c.model.ResolveAlias(typeName), collection: collection}]
}

// EntitySetsOf returns the entity sets whose entity type is typeName.
func (c *Context) EntitySetsOf(typeName string) []*edm.EntitySet {
	return c.entitySets[c.model.ResolveAlias(typeName)]
}

// IsCollectionType reports whether the entity type is reachable as a
// collection and so has a collection response schema.
func (c *Context) IsCollectionType(typeName string) bool {
	return c.collections[c.model.ResolveAlias(typeName)]
}

// SchemaName returns the component schema name of a declared type: its
// namespace-qualified name with aliases resolved.
func (c *Context) SchemaName(typeName string) string {
	return c.model.ResolveAlias(typeName)
}

// SchemaRef returns a reference schema for a declared type.
func (c *Context) SchemaRef(typeName string) *openapi.Schema {
	return openapi.RefSchema(c.SchemaName(typeName))
}

// Nullable marks s as accepting null in the style of the target version.
// OpenAPI 3.0 uses "nullable"; 3.1 adds "null" to the type. References are
// wrapped in anyOf because $ref siblings are ignored.
func (c *Context) Nullable(s *openapi.Schema) *openapi.Schema {
	if s == nil {
		return nil
	}
	oas31 := c.settings.IsOAS31()
	switch {
	case s.Ref != "":
		wrapped := &openapi.Schema{AnyOf: []*openapi.Schema{s}}
		if oas31 {
			wrapped.AnyOf = append(wrapped.AnyOf, &openapi.Schema{Type: openapi.TypeNull})
		} else {
			wrapped.Nullable = true
		}
		return wrapped
	case s.Type == nil && len(s.AnyOf) > 0:
		if oas31 {
			s.AnyOf = append(s.AnyOf, &openapi.Schema{Type: openapi.TypeNull})
		} else {
			s.Nullable = true
		}
	case s.Type == nil:
		// untyped schemas already accept null
	case oas31:
		if name, ok := s.Type.(string); ok {
			s.Type = []any{name, openapi.TypeNull}
		}
	default:
		s.Nullable = true
	}
	return s
}

// CreateDocument runs the default generators and assembles the document.
// The model is not modified.
func (c *Context) CreateDocument() (*openapi.Document, error) {
	return c.createDocument(DefaultGenerators())
}
