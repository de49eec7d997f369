package converter

import (
	"github.com/erraggy/edmoas/edm"
	"github.com/erraggy/edmoas/oaserrors"
	"github.com/erraggy/edmoas/openapi"
)

// Names of the schemas every full document carries.
const (
	SchemaODataError       = "odata.error"
	SchemaODataErrorMain   = "odata.error.main"
	SchemaODataErrorDetail = "odata.error.detail"
	SchemaODataCount       = "ODataCountResponse"

	extensionEdmType            = "x-ms-edm-type"
	extensionNavigationProperty = "x-ms-navigationProperty"
	extensionEnumFlags          = "x-ms-enum-flags"

	odataTypeProperty = "@odata.type"
	odataNextLink     = "@odata.nextLink"
	odataCount        = "@odata.count"
)

// CollectionResponseName returns the schema name of the collection wrapper
// for an entity type, e.g. "Trippin.PersonCollectionResponse".
func CollectionResponseName(ctx *Context, typeName string) string {
	return ctx.SchemaName(typeName) + edm.CollectionResponseSuffix
}

// CreateSchemas generates one schema per structured, enum and type
// definition, the OData error schemas, the count schema and a collection
// wrapper for every entity type reachable as a collection.
func CreateSchemas(ctx *Context) (map[string]*openapi.Schema, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	schemas := make(schemaSet)
	for _, t := range ctx.StructuredTypes() {
		if err := schemas.add(t.QualifiedName(), structuredSchema(ctx, t)); err != nil {
			return nil, err
		}
		if et, ok := t.(*edm.EntityType); ok && ctx.IsCollectionType(et.QualifiedName()) {
			if err := schemas.add(CollectionResponseName(ctx, et.QualifiedName()), collectionResponseSchema(ctx, et)); err != nil {
				return nil, err
			}
		}
	}
	for _, en := range ctx.EnumTypes() {
		if err := schemas.add(en.QualifiedName(), enumSchema(en)); err != nil {
			return nil, err
		}
	}
	for _, td := range ctx.TypeDefinitions() {
		if err := schemas.add(td.QualifiedName(), typeDefinitionSchema(ctx, td)); err != nil {
			return nil, err
		}
	}

	for name, s := range errorSchemas(ctx) {
		if err := schemas.add(name, s); err != nil {
			return nil, err
		}
	}
	if err := schemas.add(SchemaODataCount, &openapi.Schema{Type: openapi.TypeInteger, Format: "int64"}); err != nil {
		return nil, err
	}
	return schemas, nil
}

// schemaSet collects the schemas of one generator run and refuses to
// replace a schema already added under the same name.
type schemaSet map[string]*openapi.Schema

func (s schemaSet) add(name string, schema *openapi.Schema) error {
	if _, exists := s[name]; exists {
		return &oaserrors.ConversionError{
			Generator: "schemas",
			Path:      "components.schemas." + name,
			Message:   "schema name is already in use",
		}
	}
	s[name] = schema
	return nil
}

func structuredSchema(ctx *Context, t edm.Structured) *openapi.Schema {
	st := t.Structure()
	body := &openapi.Schema{
		Title:      st.Name,
		Type:       openapi.TypeObject,
		Properties: make(map[string]*openapi.Schema, len(st.Properties)+len(st.NavigationProperties)),
	}
	if st.OpenType {
		body.AdditionalProperties = true
	}

	for _, p := range st.Properties {
		s := propertySchema(ctx, p.Type)
		if p.DefaultValue != nil && !p.Type.Collection {
			s.Default = p.DefaultValue
		}
		body.Properties[p.Name] = describe(s, p.Description)
	}
	for _, np := range st.NavigationProperties {
		s := propertySchema(ctx, np.Type)
		s = describe(s, np.Description)
		s.SetExtension(extensionNavigationProperty, true)
		body.Properties[np.Name] = s
	}

	if ctx.Settings().EnableDiscriminatorValue {
		derived := ctx.DerivedTypes(t)
		switch {
		case st.BaseType != "":
			body.Properties[odataTypeProperty] = &openapi.Schema{
				Type:    openapi.TypeString,
				Default: "#" + st.QualifiedName(),
			}
		case len(derived) > 0:
			body.Properties[odataTypeProperty] = &openapi.Schema{Type: openapi.TypeString}
		}
		if len(derived) > 0 {
			mapping := make(map[string]string, len(derived))
			for _, d := range derived {
				mapping["#"+d.QualifiedName()] = openapi.SchemaRef(d.QualifiedName())
			}
			body.Discriminator = &openapi.Discriminator{PropertyName: odataTypeProperty, Mapping: mapping}
		}
	}

	if st.BaseType == "" {
		body.Description = st.Description
		return body
	}
	// Derived types extend their base through allOf.
	return &openapi.Schema{
		AllOf:       []*openapi.Schema{ctx.SchemaRef(st.BaseType), body},
		Title:       st.Name,
		Description: st.Description,
	}
}

func collectionResponseSchema(ctx *Context, et *edm.EntityType) *openapi.Schema {
	s := &openapi.Schema{
		Title: "Collection of " + et.Name,
		Type:  openapi.TypeObject,
		Properties: map[string]*openapi.Schema{
			"value": {Type: openapi.TypeArray, Items: ctx.SchemaRef(et.QualifiedName())},
			odataCount: ctx.Nullable(&openapi.Schema{Type: openapi.TypeInteger, Format: "int64"}),
		},
	}
	if ctx.Settings().EnablePagination {
		s.Properties[odataNextLink] = ctx.Nullable(&openapi.Schema{Type: openapi.TypeString})
	}
	return s
}

func enumSchema(en *edm.EnumType) *openapi.Schema {
	s := &openapi.Schema{
		Title:       en.Name,
		Description: en.Description,
		Type:        openapi.TypeString,
		Enum:        make([]any, 0, len(en.Members)),
	}
	for _, m := range en.Members {
		s.Enum = append(s.Enum, m.Name)
	}
	if en.IsFlags {
		s.SetExtension(extensionEnumFlags, map[string]any{"isFlags": true})
	}
	return s
}

func typeDefinitionSchema(ctx *Context, td *edm.TypeDefinition) *openapi.Schema {
	s := primitiveSchema(ctx, edm.TypeRef{
		Name:      td.UnderlyingType,
		MaxLength: td.MaxLength,
		Precision: td.Precision,
		Scale:     td.Scale,
	})
	s.Title = td.Name
	s.Description = td.Description
	return s
}

// propertySchema returns the schema of a property, parameter or return
// value of the given type, with nullability applied to the element.
func propertySchema(ctx *Context, ref edm.TypeRef) *openapi.Schema {
	var item *openapi.Schema
	if edm.IsPrimitive(ref.Name) {
		item = primitiveSchema(ctx, ref)
	} else {
		item = ctx.SchemaRef(ref.Name)
	}
	if ref.Nullable {
		item = ctx.Nullable(item)
	}
	if ref.Collection {
		return &openapi.Schema{Type: openapi.TypeArray, Items: item}
	}
	return item
}

// describe attaches a description. A bare $ref is wrapped so the
// description is not ignored as a $ref sibling.
func describe(s *openapi.Schema, description string) *openapi.Schema {
	if description == "" {
		return s
	}
	if s.Ref != "" {
		s = &openapi.Schema{AnyOf: []*openapi.Schema{s}}
	}
	s.Description = description
	return s
}

// primitiveSchema maps an Edm primitive type to an inline schema.
func primitiveSchema(ctx *Context, ref edm.TypeRef) *openapi.Schema {
	settings := ctx.Settings()
	var s *openapi.Schema
	switch edm.PrimitiveKind(ref.Name) {
	case edm.PrimitiveBinary, edm.PrimitiveStream:
		s = &openapi.Schema{Type: openapi.TypeString, Format: "base64url"}
	case edm.PrimitiveBoolean:
		s = &openapi.Schema{Type: openapi.TypeBoolean}
	case edm.PrimitiveByte:
		s = &openapi.Schema{Type: openapi.TypeInteger, Format: "uint8", Minimum: openapi.Ptr(0.0), Maximum: openapi.Ptr(255.0)}
	case edm.PrimitiveSByte:
		s = &openapi.Schema{Type: openapi.TypeInteger, Format: "int8", Minimum: openapi.Ptr(-128.0), Maximum: openapi.Ptr(127.0)}
	case edm.PrimitiveInt16:
		s = &openapi.Schema{Type: openapi.TypeInteger, Format: "int16", Minimum: openapi.Ptr(-32768.0), Maximum: openapi.Ptr(32767.0)}
	case edm.PrimitiveInt32:
		s = &openapi.Schema{Type: openapi.TypeInteger, Format: "int32"}
	case edm.PrimitiveInt64:
		s = ieee754(settings, openapi.TypeInteger, "int64")
	case edm.PrimitiveDecimal:
		s = ieee754(settings, openapi.TypeNumber, "decimal")
	case edm.PrimitiveSingle:
		s = &openapi.Schema{Type: openapi.TypeNumber, Format: "float"}
	case edm.PrimitiveDouble:
		s = &openapi.Schema{Type: openapi.TypeNumber, Format: "double"}
	case edm.PrimitiveDate:
		s = &openapi.Schema{Type: openapi.TypeString, Format: "date"}
	case edm.PrimitiveDateTimeOffset:
		s = &openapi.Schema{Type: openapi.TypeString, Format: "date-time"}
	case edm.PrimitiveTimeOfDay:
		s = &openapi.Schema{Type: openapi.TypeString, Format: "time"}
	case edm.PrimitiveDuration:
		s = &openapi.Schema{Type: openapi.TypeString, Format: "duration"}
	case edm.PrimitiveGuid:
		s = &openapi.Schema{Type: openapi.TypeString, Format: "uuid"}
	case edm.PrimitiveString:
		s = &openapi.Schema{Type: openapi.TypeString, MaxLength: ref.MaxLength}
	case edm.PrimitiveGeography, edm.PrimitiveGeometry:
		s = &openapi.Schema{Type: openapi.TypeObject}
	default:
		// Edm.Untyped accepts any value
		s = &openapi.Schema{}
	}
	if settings.EnableEdmTypeExtension {
		s.SetExtension(extensionEdmType, ref.Name)
	}
	return s
}

// ieee754 returns a numeric schema that, when IEEE754Compatible is set,
// also accepts the value as a string.
func ieee754(settings *ConvertSettings, typ, format string) *openapi.Schema {
	if !settings.IEEE754Compatible {
		return &openapi.Schema{Type: typ, Format: format}
	}
	return &openapi.Schema{
		AnyOf: []*openapi.Schema{
			{Type: typ},
			{Type: openapi.TypeString},
		},
		Format: format,
	}
}

func errorSchemas(ctx *Context) map[string]*openapi.Schema {
	str := func() *openapi.Schema { return &openapi.Schema{Type: openapi.TypeString} }
	return map[string]*openapi.Schema{
		SchemaODataError: {
			Type:       openapi.TypeObject,
			Required:   []string{"error"},
			Properties: map[string]*openapi.Schema{"error": openapi.RefSchema(SchemaODataErrorMain)},
		},
		SchemaODataErrorMain: {
			Type:     openapi.TypeObject,
			Required: []string{"code", "message"},
			Properties: map[string]*openapi.Schema{
				"code":    str(),
				"message": str(),
				"target":  ctx.Nullable(str()),
				"details": {Type: openapi.TypeArray, Items: openapi.RefSchema(SchemaODataErrorDetail)},
				"innererror": {
					Type:        openapi.TypeObject,
					Description: "The structure of this object is service-specific",
				},
			},
		},
		SchemaODataErrorDetail: {
			Type:     openapi.TypeObject,
			Required: []string{"code", "message"},
			Properties: map[string]*openapi.Schema{
				"code":    str(),
				"message": str(),
				"target":  ctx.Nullable(str()),
			},
		},
	}
}
