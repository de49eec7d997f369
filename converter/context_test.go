package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/edmoas/internal/testutil"
	"github.com/erraggy/edmoas/oaserrors"
	"github.com/erraggy/edmoas/openapi"
)

func TestNewContext(t *testing.T) {
	t.Run("settings are copied", func(t *testing.T) {
		settings := NewConvertSettings()
		ctx, err := NewContext(testutil.NewSimpleModel(), settings)
		require.NoError(t, err)
		settings.PathPrefix = "/later"
		assert.Empty(t, ctx.Settings().PathPrefix)
		assert.IsType(t, NopLogger{}, ctx.Logger())
	})

	t.Run("invalid settings", func(t *testing.T) {
		settings := NewConvertSettings()
		settings.ServiceRoot = "not a url"
		_, err := NewContext(testutil.NewSimpleModel(), settings)
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})
}

func TestContextLookups(t *testing.T) {
	ctx, err := NewContext(testutil.NewDetailedModel(), NewConvertSettings())
	require.NoError(t, err)

	person := ctx.FindEntityType("self.Person")
	require.NotNil(t, person, "aliases resolve")
	assert.Equal(t, "Trippin.Person", person.QualifiedName())
	assert.Nil(t, ctx.FindEntityType("Trippin.Location"))
	_, ok := ctx.FindType("Trippin.Nowhere")
	assert.False(t, ok)

	derived := ctx.DerivedTypes(person)
	require.Len(t, derived, 1)
	assert.Equal(t, "Trippin.Employee", derived[0].QualifiedName())

	single := ctx.BoundOperations("Trippin.Person", false)
	require.Len(t, single, 2)
	assert.Equal(t, "GetFavoriteAirline", single[0].Name)
	assert.Equal(t, "ShareTrip", single[1].Name)
	assert.Empty(t, ctx.BoundOperations("Trippin.Person", true))

	sets := ctx.EntitySetsOf("Trippin.Airline")
	require.Len(t, sets, 1)
	assert.Equal(t, "Airlines", sets[0].Name)

	assert.True(t, ctx.IsCollectionType("Trippin.Person"))
	assert.True(t, ctx.IsCollectionType("Trippin.Trip"), "collection navigation target")
	assert.False(t, ctx.IsCollectionType("Trippin.Employee"))

	assert.Len(t, ctx.StructuredTypes(), 5)
	assert.Len(t, ctx.EnumTypes(), 1)
	assert.Empty(t, ctx.TypeDefinitions())
	assert.Equal(t, "#/components/schemas/Trippin.Person", ctx.SchemaRef("self.Person").Ref)
}

func TestContextNullable(t *testing.T) {
	for _, version := range []string{"3.0.4", "3.1.1"} {
		settings := NewConvertSettings()
		settings.OpenAPIVersion = version
		ctx, err := NewContext(testutil.NewSimpleModel(), settings)
		require.NoError(t, err)
		oas31 := version == "3.1.1"

		t.Run(version+" typed", func(t *testing.T) {
			s := ctx.Nullable(&openapi.Schema{Type: openapi.TypeString})
			if oas31 {
				assert.Equal(t, []any{"string", "null"}, s.Type)
			} else {
				assert.Equal(t, openapi.TypeString, s.Type)
				assert.True(t, s.Nullable)
			}
		})

		t.Run(version+" ref", func(t *testing.T) {
			s := ctx.Nullable(openapi.RefSchema("Sample.Product"))
			assert.Empty(t, s.Ref)
			assert.Equal(t, "#/components/schemas/Sample.Product", s.AnyOf[0].Ref)
			if oas31 {
				require.Len(t, s.AnyOf, 2)
				assert.Equal(t, openapi.TypeNull, s.AnyOf[1].Type)
			} else {
				assert.True(t, s.Nullable)
			}
		})

		t.Run(version+" untyped", func(t *testing.T) {
			s := ctx.Nullable(&openapi.Schema{})
			assert.Nil(t, s.Type)
			assert.False(t, s.Nullable)
		})
	}
	assert.Nil(t, (&Context{settings: NewConvertSettings()}).Nullable(nil))
}

func TestComponentGenerator(t *testing.T) {
	ctx, err := NewContext(testutil.NewSimpleModel(), NewConvertSettings())
	require.NoError(t, err)

	t.Run("empty output leaves the document alone", func(t *testing.T) {
		g := ComponentGenerator("nothing", func(*Context) (map[string]*openapi.Header, error) { return nil, nil },
			func(doc *openapi.Document) *map[string]*openapi.Header { return &doc.EnsureComponents().Headers })
		doc := openapi.NewDocument("3.0.4")
		require.NoError(t, g.Apply(ctx, doc))
		assert.Nil(t, doc.Components)
		assert.Equal(t, "nothing", g.Name())
	})

	t.Run("collision reports the first duplicate in name order", func(t *testing.T) {
		g := ComponentGenerator("params", CreateParameters, ParametersTarget)
		doc := openapi.NewDocument("3.0.4")
		require.NoError(t, g.Apply(ctx, doc))
		err := g.Apply(ctx, doc)

		var convErr *oaserrors.ConversionError
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, "params.count", convErr.Path)
	})

	t.Run("default generator order", func(t *testing.T) {
		var names []string
		for _, g := range DefaultGenerators() {
			names = append(names, g.Name())
		}
		assert.Equal(t, []string{"schemas", "parameters", "responses", "securitySchemes", "tags", "paths"}, names)
	})
}
