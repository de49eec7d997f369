package converter

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/edmoas/csdl"
	"github.com/erraggy/edmoas/edm"
	"github.com/erraggy/edmoas/internal/testutil"
	"github.com/erraggy/edmoas/oaserrors"
	"github.com/erraggy/edmoas/openapi"
)

func readTrippin(t *testing.T) *edm.Model {
	t.Helper()
	result, err := csdl.ReadFile("../testdata/trippin.json")
	require.NoError(t, err)
	return result.Model
}

// stubValidator reports a fixed outcome and counts calls.
type stubValidator struct {
	valid bool
	errs  []error
	calls int
}

func (s *stubValidator) ValidateModel(*edm.Model) (bool, []error) {
	s.calls++
	return s.valid, s.errs
}

func TestConvertIsDeterministic(t *testing.T) {
	models := map[string]func() *edm.Model{
		"simple":   testutil.NewSimpleModel,
		"detailed": testutil.NewDetailedModel,
		"trippin":  func() *edm.Model { return readTrippin(t) },
	}
	for name, newModel := range models {
		t.Run(name, func(t *testing.T) {
			first, err := Convert(newModel())
			require.NoError(t, err)
			second, err := Convert(newModel())
			require.NoError(t, err)

			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("documents differ (-first +second):\n%s", diff)
			}

			a, err := json.Marshal(first)
			require.NoError(t, err)
			b, err := json.Marshal(second)
			require.NoError(t, err)
			assert.Equal(t, string(a), string(b))
		})
	}
}

func TestConvertDoesNotModifyModel(t *testing.T) {
	model := testutil.NewDetailedModel()
	before := testutil.NewDetailedModel()

	_, err := Convert(model)
	require.NoError(t, err)
	if diff := cmp.Diff(before, model); diff != "" {
		t.Errorf("model modified (-before +after):\n%s", diff)
	}
}

func TestVerificationShortCircuit(t *testing.T) {
	t.Run("invalid model yields error document", func(t *testing.T) {
		doc, err := Convert(testutil.NewInvalidModel())
		require.NoError(t, err)

		assert.Equal(t, DefaultOpenAPIVersion, doc.OpenAPI)
		assert.Nil(t, doc.Info)
		assert.Nil(t, doc.Servers)
		assert.Nil(t, doc.Paths)
		assert.Nil(t, doc.Components)
		assert.Nil(t, doc.Tags)
		assert.Nil(t, doc.Security)

		require.Len(t, doc.Extra, 3)
		for i := 1; i <= 3; i++ {
			assert.Contains(t, doc.Extra, fmt.Sprintf("%s%d", ExtensionModelError, i))
		}
		assert.True(t, strings.HasPrefix(doc.Extra[ExtensionModelError+"1"].(string), "UnresolvedType : "))
		assert.True(t, strings.HasPrefix(doc.Extra[ExtensionModelError+"2"].(string), "MissingKey : "))
		assert.True(t, strings.HasPrefix(doc.Extra[ExtensionModelError+"3"].(string), "ContainerTypeMismatch : "))
	})

	t.Run("extensions follow validator order", func(t *testing.T) {
		errs := []error{errors.New("first"), errors.New("second"), errors.New("third"), errors.New("fourth")}
		v := &stubValidator{errs: errs}
		result, err := ConvertWithOptions(WithModel(testutil.NewSimpleModel()), WithValidator(v))
		require.NoError(t, err)

		assert.Equal(t, 1, v.calls)
		assert.True(t, result.Verified)
		assert.True(t, result.HasModelErrors())
		assert.Equal(t, errs, result.ModelErrors)
		assert.Equal(t, map[string]any{
			"x-ms-edm-model-error1": "first",
			"x-ms-edm-model-error2": "second",
			"x-ms-edm-model-error3": "third",
			"x-ms-edm-model-error4": "fourth",
		}, result.Document.Extra)
		assert.Equal(t, 4, result.Stats.ExtensionCount)
		assert.Zero(t, result.Stats.PathCount)
		assert.Zero(t, result.Stats.SchemaCount)
	})

	t.Run("generators do not run", func(t *testing.T) {
		ran := false
		g := NewGenerator("probe", func(*Context, *openapi.Document) error {
			ran = true
			return nil
		})
		_, err := ConvertWithOptions(
			WithModel(testutil.NewSimpleModel()),
			WithValidator(&stubValidator{errs: []error{errors.New("bad")}}),
			WithGenerator(g),
		)
		require.NoError(t, err)
		assert.False(t, ran)
	})
}

func TestVerificationBypass(t *testing.T) {
	settings := NewConvertSettings()
	settings.VerifyEdmModel = false
	v := &stubValidator{errs: []error{errors.New("never reported")}}

	result, err := ConvertWithOptions(
		WithModel(testutil.NewInvalidModel()),
		WithSettings(settings),
		WithValidator(v),
	)
	require.NoError(t, err)

	assert.Zero(t, v.calls)
	assert.False(t, result.Verified)
	assert.False(t, result.HasModelErrors())
	doc := result.Document
	require.NotNil(t, doc.Components)
	assert.Contains(t, doc.Components.Responses, ResponseError)
	assert.NotContains(t, doc.Extra, ExtensionModelError+"1")
	// the entity set over a complex type has no paths
	assert.Empty(t, doc.Paths)
}

func TestErrorResponseIsMandatory(t *testing.T) {
	models := map[string]*edm.Model{
		"simple":   testutil.NewSimpleModel(),
		"detailed": testutil.NewDetailedModel(),
		"empty":    {Version: "4.0"},
	}
	for name, model := range models {
		t.Run(name, func(t *testing.T) {
			doc, err := Convert(model)
			require.NoError(t, err)
			require.NotNil(t, doc.Components)

			resp := doc.Components.Responses[ResponseError]
			require.NotNil(t, resp)
			assert.Equal(t, "error", resp.Description)
			require.Contains(t, resp.Content, openapi.MediaTypeJSON)
			assert.Equal(t, "#/components/schemas/odata.error", resp.Content[openapi.MediaTypeJSON].Schema.Ref)
		})
	}
}

func TestNilArguments(t *testing.T) {
	model := testutil.NewSimpleModel()
	tests := []struct {
		name string
		call func() error
	}{
		{"Convert nil model", func() error { _, err := Convert(nil); return err }},
		{"ConvertWithSettings nil model", func() error {
			_, err := ConvertWithSettings(nil, NewConvertSettings())
			return err
		}},
		{"ConvertWithSettings nil settings", func() error { _, err := ConvertWithSettings(model, nil); return err }},
		{"ConvertWithMutation nil model", func() error { _, err := ConvertWithMutation(nil, nil); return err }},
		{"ConvertWithOptions nil model", func() error { _, err := ConvertWithOptions(WithModel(nil)); return err }},
		{"ConvertWithOptions nil settings", func() error {
			_, err := ConvertWithOptions(WithModel(model), WithSettings(nil))
			return err
		}},
		{"Converter nil settings", func() error {
			c := New()
			c.Settings = nil
			_, err := c.Convert(model)
			return err
		}},
		{"NewContext nil model", func() error { _, err := NewContext(nil, NewConvertSettings()); return err }},
		{"NewContext nil settings", func() error { _, err := NewContext(model, nil); return err }},
		{"CreateDocument nil context", func() error { _, err := (*Context)(nil).CreateDocument(); return err }},
		{"CreateSchemas nil context", func() error { _, err := CreateSchemas(nil); return err }},
		{"CreateParameters nil context", func() error { _, err := CreateParameters(nil); return err }},
		{"CreateResponses nil context", func() error { _, err := CreateResponses(nil); return err }},
		{"CreateSecuritySchemes nil context", func() error { _, err := CreateSecuritySchemes(nil); return err }},
		{"CreateTags nil context", func() error { _, err := CreateTags(nil); return err }},
		{"CreatePaths nil context", func() error { _, err := CreatePaths(nil); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.ErrorIs(t, err, oaserrors.ErrInvalidArgument)

			var argErr *oaserrors.ArgumentError
			assert.ErrorAs(t, err, &argErr)
		})
	}
}

func TestConvertWithMutation(t *testing.T) {
	t.Run("mutation sees the assembled document", func(t *testing.T) {
		var seen bool
		doc, err := ConvertWithMutation(testutil.NewSimpleModel(), func(doc *openapi.Document) {
			require.NotNil(t, doc.Components)
			_, seen = doc.Components.Responses[ResponseError]
			doc.SetExtension("x-mutated", true)
		})
		require.NoError(t, err)
		assert.True(t, seen, "mutation must run after the responses generator")
		assert.Equal(t, true, doc.Extra["x-mutated"])
	})

	t.Run("nil mutation is skipped", func(t *testing.T) {
		doc, err := ConvertWithMutation(testutil.NewSimpleModel(), nil)
		require.NoError(t, err)
		assert.NotNil(t, doc.Paths)
	})

	t.Run("mutation option updates stats", func(t *testing.T) {
		result, err := ConvertWithOptions(
			WithModel(testutil.NewSimpleModel()),
			WithMutation(func(doc *openapi.Document) { doc.Paths = nil }),
		)
		require.NoError(t, err)
		assert.Zero(t, result.Stats.PathCount)
	})
}

func TestConvertEqualsDefaultSettings(t *testing.T) {
	for _, newModel := range []func() *edm.Model{testutil.NewSimpleModel, testutil.NewDetailedModel, testutil.NewInvalidModel} {
		a, err := Convert(newModel())
		require.NoError(t, err)
		b, err := ConvertWithSettings(newModel(), NewConvertSettings())
		require.NoError(t, err)
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("Convert and ConvertWithSettings differ:\n%s", diff)
		}
	}
}

func TestConvertWithSettingsDoesNotModifySettings(t *testing.T) {
	settings := NewConvertSettings()
	settings.PathPrefix = "/odata"
	before := *settings

	_, err := ConvertWithSettings(testutil.NewDetailedModel(), settings)
	require.NoError(t, err)
	assert.Equal(t, before, *settings)
}

func TestReferencesResolve(t *testing.T) {
	variants := map[string]func(*ConvertSettings){
		"defaults":        func(*ConvertSettings) {},
		"openapi 3.1":     func(s *ConvertSettings) { s.OpenAPIVersion = "3.1.1" },
		"key as segment":  func(s *ConvertSettings) { s.EnableKeyAsSegment = true },
		"path prefix":     func(s *ConvertSettings) { s.PathPrefix = "/odata/v4" },
		"discriminator":   func(s *ConvertSettings) { s.EnableDiscriminatorValue = true },
		"ieee754":         func(s *ConvertSettings) { s.IEEE754Compatible = true },
		"pagination":      func(s *ConvertSettings) { s.EnablePagination = true },
		"derived types":   func(s *ConvertSettings) { s.EnableDerivedTypesReferencesForResponses = true },
		"unqualified":     func(s *ConvertSettings) { s.EnableUnqualifiedCall = true },
		"prefixed keys":   func(s *ConvertSettings) { s.PrefixEntityTypeNameBeforeKey = true },
		"params on items": func(s *ConvertSettings) { s.DeclarePathParametersOnPathItem = true },
		"everything": func(s *ConvertSettings) {
			s.OpenAPIVersion = "3.1.0"
			s.EnableKeyAsSegment = true
			s.EnableDiscriminatorValue = true
			s.IEEE754Compatible = true
			s.EnablePagination = true
			s.EnableEdmTypeExtension = true
			s.EnableDerivedTypesReferencesForResponses = true
			s.AddGeneratorExtension = true
		},
	}

	models := map[string]func() *edm.Model{
		"detailed": testutil.NewDetailedModel,
		"trippin":  func() *edm.Model { return readTrippin(t) },
	}

	for modelName, newModel := range models {
		for name, apply := range variants {
			t.Run(modelName+"/"+name, func(t *testing.T) {
				settings := NewConvertSettings()
				apply(settings)
				doc, err := ConvertWithSettings(newModel(), settings)
				require.NoError(t, err)
				assert.Empty(t, doc.UnresolvedRefs())
				assert.NotEmpty(t, doc.Paths)
			})
		}
	}
}

func TestFullDocumentMetadata(t *testing.T) {
	settings := NewConvertSettings()
	settings.ServiceRoot = "https://services.example.com/trippin"
	settings.SemVerVersion = "2.1.0"
	settings.AddGeneratorExtension = true

	doc, err := ConvertWithSettings(testutil.NewDetailedModel(), settings)
	require.NoError(t, err)

	assert.Equal(t, "3.0.4", doc.OpenAPI)
	require.NotNil(t, doc.Info)
	assert.Equal(t, "OData Service for namespace Trippin", doc.Info.Title)
	assert.Equal(t, "This OData service is located at https://services.example.com/trippin", doc.Info.Description)
	assert.Equal(t, "2.1.0", doc.Info.Version)
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "https://services.example.com/trippin", doc.Servers[0].URL)
	assert.Equal(t, []openapi.SecurityRequirement{{"oauth": {"trips.read"}}}, doc.Security)

	gen, ok := doc.Extra["x-ms-generated-by"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "edmoas", gen["toolName"])
}

func TestEmptyModelNamespace(t *testing.T) {
	doc, err := Convert(&edm.Model{Version: "4.0"})
	require.NoError(t, err)
	assert.Equal(t, "OData Service for namespace Default", doc.Info.Title)
	assert.Empty(t, doc.Paths)
}

func TestInvalidSettings(t *testing.T) {
	settings := NewConvertSettings()
	settings.OpenAPIVersion = "2.0"

	_, err := ConvertWithSettings(testutil.NewSimpleModel(), settings)
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrConfig)

	// settings are checked before verification
	_, err = ConvertWithSettings(testutil.NewInvalidModel(), settings)
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
}

func TestFragmentCollision(t *testing.T) {
	clash := ComponentGenerator("extraResponses", func(*Context) (map[string]*openapi.Response, error) {
		return map[string]*openapi.Response{ResponseError: {Description: "mine"}}, nil
	}, ResponsesTarget)

	_, err := ConvertWithOptions(WithModel(testutil.NewSimpleModel()), WithGenerator(clash))
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrConversion)

	var convErr *oaserrors.ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "extraResponses", convErr.Generator)
	assert.Equal(t, "extraResponses.error", convErr.Path)
}

func TestCollectionResponseShadowed(t *testing.T) {
	shadowed := func() *edm.Model {
		m := testutil.NewSimpleModel()
		m.Schemas[0].ComplexTypes = append(m.Schemas[0].ComplexTypes, &edm.ComplexType{
			StructuredType: edm.StructuredType{
				Namespace:  "Sample",
				Name:       "ProductCollectionResponse",
				Properties: []*edm.Property{{Name: "Note", Type: edm.TypeRef{Name: "Edm.String", Nullable: true}}},
			},
		})
		return m
	}

	t.Run("verified model becomes an error document", func(t *testing.T) {
		doc, err := Convert(shadowed())
		require.NoError(t, err)
		assert.Nil(t, doc.Components)
		assert.True(t, strings.HasPrefix(doc.Extra[ExtensionModelError+"1"].(string), "ReservedName : "))
	})

	t.Run("unverified model reports the collision", func(t *testing.T) {
		settings := NewConvertSettings()
		settings.VerifyEdmModel = false
		doc, err := ConvertWithSettings(shadowed(), settings)
		assert.Nil(t, doc)

		var convErr *oaserrors.ConversionError
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, "schemas", convErr.Generator)
		assert.Equal(t, "components.schemas.Sample.ProductCollectionResponse", convErr.Path)
	})
}

func TestCustomGenerator(t *testing.T) {
	extra := ComponentGenerator("examples", func(ctx *Context) (map[string]*openapi.Schema, error) {
		return map[string]*openapi.Schema{"Example": {Type: openapi.TypeString, Title: ctx.EntityContainer().Name}}, nil
	}, SchemasTarget)

	result, err := ConvertWithOptions(WithModel(testutil.NewSimpleModel()), WithGenerator(extra))
	require.NoError(t, err)
	require.Contains(t, result.Document.Components.Schemas, "Example")
	assert.Equal(t, "Container", result.Document.Components.Schemas["Example"].Title)
	assert.Contains(t, result.Document.Components.Schemas, "Sample.Product")
}

func TestSecurityRequiresDeclaredSchemes(t *testing.T) {
	c := New()
	c.Generators = []Generator{
		ComponentGenerator("schemas", CreateSchemas, SchemasTarget),
		ComponentGenerator("responses", CreateResponses, ResponsesTarget),
	}
	doc, err := c.Convert(testutil.NewDetailedModel())
	require.NoError(t, err)
	require.NotNil(t, doc.Components)
	assert.Empty(t, doc.Components.SecuritySchemes)
	assert.Empty(t, doc.Security)

	c.Generators = append(c.Generators,
		ComponentGenerator("securitySchemes", CreateSecuritySchemes, SecuritySchemesTarget))
	doc, err = c.Convert(testutil.NewDetailedModel())
	require.NoError(t, err)
	assert.Equal(t, []openapi.SecurityRequirement{{"oauth": {"trips.read"}}}, doc.Security)
}

func TestDeclaredRequirements(t *testing.T) {
	reqs := []openapi.SecurityRequirement{{"a": {}}, {"b": {"x"}}, {"a": {}, "c": {}}}

	assert.Empty(t, declaredRequirements(openapi.NewDocument("3.0.4"), reqs))

	doc := openapi.NewDocument("3.0.4")
	doc.EnsureComponents().SecuritySchemes = map[string]*openapi.SecurityScheme{
		"a": {Type: openapi.SecuritySchemeHTTP},
		"b": {Type: openapi.SecuritySchemeAPIKey},
	}
	assert.Equal(t, reqs[:2], declaredRequirements(doc, reqs))
}

func TestGeneratorErrorIsWrapped(t *testing.T) {
	boom := errors.New("boom")
	g := NewGenerator("failing", func(*Context, *openapi.Document) error { return boom })

	_, err := ConvertWithOptions(WithModel(testutil.NewSimpleModel()), WithGenerator(g))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "converter:")
}

func TestConvertWithOptions(t *testing.T) {
	t.Run("file input", func(t *testing.T) {
		result, err := ConvertWithOptions(WithFilePath("../testdata/trippin.json"))
		require.NoError(t, err)
		assert.Equal(t, "../testdata/trippin.json", result.SourcePath)
		assert.True(t, result.Verified)
		assert.False(t, result.HasModelErrors())
		assert.Positive(t, result.Stats.PathCount)
		assert.Positive(t, result.Stats.SchemaCount)
	})

	t.Run("yaml file input", func(t *testing.T) {
		result, err := ConvertWithOptions(WithFilePath("../testdata/sample.yaml"))
		require.NoError(t, err)
		assert.False(t, result.HasModelErrors(), "warnings do not block conversion")
	})

	t.Run("reader input", func(t *testing.T) {
		f, err := os.Open("../testdata/trippin.json")
		require.NoError(t, err)
		defer func() { _ = f.Close() }()

		result, err := ConvertWithOptions(WithReader(f))
		require.NoError(t, err)
		assert.Equal(t, "reader", result.SourcePath)
		assert.Contains(t, result.Document.Paths, "/People")
	})

	t.Run("invalid file input", func(t *testing.T) {
		result, err := ConvertWithOptions(WithFilePath("../testdata/invalid.json"))
		require.NoError(t, err)
		assert.Len(t, result.ModelErrors, 3)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := testutil.WriteTempFile(t, "bad.json", []byte(`{"$Version": `))
		_, err := ConvertWithOptions(WithFilePath(path))
		require.Error(t, err)
		assert.ErrorIs(t, err, oaserrors.ErrParse)
	})

	t.Run("no input", func(t *testing.T) {
		_, err := ConvertWithOptions()
		require.Error(t, err)
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})

	t.Run("two inputs", func(t *testing.T) {
		_, err := ConvertWithOptions(WithModel(testutil.NewSimpleModel()), WithFilePath("x.json"))
		require.Error(t, err)
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})

	t.Run("nil reader", func(t *testing.T) {
		_, err := ConvertWithOptions(WithReader(nil))
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})

	t.Run("nil generator", func(t *testing.T) {
		_, err := ConvertWithOptions(WithModel(testutil.NewSimpleModel()), WithGenerator(nil))
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})
}

// recordingLogger keeps the messages it receives.
type recordingLogger struct {
	NopLogger
	debug []string
	warn  []string
}

func (l *recordingLogger) Debug(msg string, _ ...any) { l.debug = append(l.debug, msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.warn = append(l.warn, msg) }
func (l *recordingLogger) With(...any) Logger         { return l }

func TestLogging(t *testing.T) {
	t.Run("generators are logged", func(t *testing.T) {
		logger := &recordingLogger{}
		_, err := ConvertWithOptions(WithModel(testutil.NewSimpleModel()), WithLogger(logger))
		require.NoError(t, err)
		assert.Contains(t, logger.debug, "model verified")
		assert.Contains(t, logger.debug, "generator applied")
		assert.Empty(t, logger.warn)
	})

	t.Run("verification failure is a warning", func(t *testing.T) {
		logger := &recordingLogger{}
		_, err := ConvertWithOptions(WithModel(testutil.NewInvalidModel()), WithLogger(logger))
		require.NoError(t, err)
		assert.Equal(t, []string{"model failed verification"}, logger.warn)
	})
}
