package validator

import (
	"testing"

	"github.com/erraggy/edmoas/edm"
	"github.com/erraggy/edmoas/internal/testutil"
	"github.com/erraggy/edmoas/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidateValidModels(t *testing.T) {
	for name, model := range map[string]*edm.Model{
		"simple":   testutil.NewSimpleModel(),
		"detailed": testutil.NewDetailedModel(),
	} {
		t.Run(name, func(t *testing.T) {
			result, err := New().Validate(model)
			require.NoError(t, err)
			assert.True(t, result.Valid, "unexpected errors: %v", result.Errors)
			assert.Zero(t, result.ErrorCount)
			assert.Empty(t, result.Warnings)
			assert.Equal(t, "4.01", result.Version)
		})
	}
}

func TestValidateInvalidModelOrder(t *testing.T) {
	result, err := New().Validate(testutil.NewInvalidModel())
	require.NoError(t, err)

	assert.False(t, result.Valid)
	assert.Equal(t, []string{CodeUnresolvedType, CodeMissingKey, CodeContainerTypeMismatch}, codes(result.Errors))
	assert.Equal(t, 3, result.ErrorCount)
	assert.Equal(t, "UnresolvedType : type Broken.Missing is not declared : Broken.Keyless/Ghost", result.Errors[0].Error())
	assert.Equal(t, "MissingKey : entity type Broken.Keyless has no key : Broken.Keyless", result.Errors[1].Error())

	// Keyless is exposed by nothing.
	assert.Equal(t, []string{CodeEntityTypeNotExposed}, codes(result.Warnings))
}

func TestValidateModel(t *testing.T) {
	v := New()

	ok, errs := v.ValidateModel(testutil.NewDetailedModel())
	assert.True(t, ok)
	assert.Empty(t, errs)

	ok, errs = v.ValidateModel(testutil.NewInvalidModel())
	assert.False(t, ok)
	require.Len(t, errs, 3)
	assert.Contains(t, errs[2].Error(), "ContainerTypeMismatch : ")

	ok, errs = v.ValidateModel(nil)
	assert.False(t, ok)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], oaserrors.ErrInvalidArgument)
}

func TestValidateNilModel(t *testing.T) {
	_, err := New().Validate(nil)
	assert.ErrorIs(t, err, oaserrors.ErrInvalidArgument)
}

func TestValidatorWarningModes(t *testing.T) {
	model := testutil.NewInvalidModel()

	t.Run("warnings suppressed", func(t *testing.T) {
		v := &Validator{IncludeWarnings: false}
		result, err := v.Validate(model)
		require.NoError(t, err)
		assert.Empty(t, result.Warnings)
		assert.Equal(t, 3, result.ErrorCount)
	})

	t.Run("strict mode promotes warnings", func(t *testing.T) {
		v := &Validator{StrictMode: true}
		result, err := v.Validate(model)
		require.NoError(t, err)
		assert.Equal(t, 4, result.ErrorCount)
		assert.Equal(t, CodeEntityTypeNotExposed, result.Errors[3].Code)
		assert.Equal(t, SeverityError, result.Errors[3].Severity)
	})
}

func TestRules(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(m *edm.Model)
		wantCode string
	}{
		{
			name:     "reserved namespace",
			mutate:   func(m *edm.Model) { m.Schemas[0].Namespace = "odata" },
			wantCode: CodeReservedNamespace,
		},
		{
			name:     "invalid namespace",
			mutate:   func(m *edm.Model) { m.Schemas = append(m.Schemas, &edm.Schema{Namespace: "Bad..Name"}) },
			wantCode: CodeInvalidNamespace,
		},
		{
			name: "duplicate type name",
			mutate: func(m *edm.Model) {
				s := m.Schemas[0]
				s.ComplexTypes = append(s.ComplexTypes, &edm.ComplexType{StructuredType: edm.StructuredType{Namespace: "Trippin", Name: "Trip"}})
			},
			wantCode: CodeDuplicateName,
		},
		{
			name: "type shadows a collection response schema",
			mutate: func(m *edm.Model) {
				s := m.Schemas[0]
				s.ComplexTypes = append(s.ComplexTypes, &edm.ComplexType{StructuredType: edm.StructuredType{Namespace: "Trippin", Name: "TripCollectionResponse"}})
			},
			wantCode: CodeReservedName,
		},
		{
			name: "invalid property name",
			mutate: func(m *edm.Model) {
				et := m.FindEntityType("Trippin.Trip")
				et.Properties = append(et.Properties, &edm.Property{Name: "bad-name", Type: edm.TypeRef{Name: "Edm.String"}})
			},
			wantCode: CodeInvalidName,
		},
		{
			name: "property redeclared in derived type",
			mutate: func(m *edm.Model) {
				et := m.FindEntityType("Trippin.Employee")
				et.Properties = append(et.Properties, &edm.Property{Name: "FirstName", Type: edm.TypeRef{Name: "Edm.String"}})
			},
			wantCode: CodeDuplicateProperty,
		},
		{
			name:     "unresolved base type",
			mutate:   func(m *edm.Model) { m.FindEntityType("Trippin.Employee").BaseType = "Trippin.Nobody" },
			wantCode: CodeUnresolvedType,
		},
		{
			name:     "base type kind mismatch",
			mutate:   func(m *edm.Model) { m.FindEntityType("Trippin.Employee").BaseType = "Trippin.Location" },
			wantCode: CodeBaseTypeKindMismatch,
		},
		{
			name:     "base type cycle",
			mutate:   func(m *edm.Model) { m.FindEntityType("Trippin.Person").BaseType = "Trippin.Employee" },
			wantCode: CodeBaseTypeCycle,
		},
		{
			name:     "nullable key",
			mutate:   func(m *edm.Model) { m.FindEntityType("Trippin.Trip").Properties[0].Type.Nullable = true },
			wantCode: CodeInvalidKey,
		},
		{
			name:     "key names unknown property",
			mutate:   func(m *edm.Model) { m.FindEntityType("Trippin.Trip").Key = []string{"Nope"} },
			wantCode: CodeInvalidKey,
		},
		{
			name:     "key redeclared on derived type",
			mutate:   func(m *edm.Model) { m.FindEntityType("Trippin.Employee").Key = []string{"Cost"} },
			wantCode: CodeInvalidKey,
		},
		{
			name: "complex key",
			mutate: func(m *edm.Model) {
				et := m.FindEntityType("Trippin.Person")
				et.Key = []string{"HomeAddress"}
				et.Properties[4].Type.Nullable = false
			},
			wantCode: CodeInvalidKey,
		},
		{
			name: "navigation to complex type",
			mutate: func(m *edm.Model) {
				m.FindEntityType("Trippin.Person").NavigationProperties[1].Type.Name = "Trippin.Location"
			},
			wantCode: CodeNavigationTargetNotEntity,
		},
		{
			name: "unresolved partner",
			mutate: func(m *edm.Model) {
				m.FindEntityType("Trippin.Person").NavigationProperties[0].Partner = "Nobody"
			},
			wantCode: CodeUnresolvedPartner,
		},
		{
			name: "duplicate enum member",
			mutate: func(m *edm.Model) {
				en := m.Schemas[0].EnumTypes[0]
				en.Members = append(en.Members, &edm.EnumMember{Name: "Male", Value: 9})
			},
			wantCode: CodeDuplicateEnumMember,
		},
		{
			name:     "non-integral enum",
			mutate:   func(m *edm.Model) { m.Schemas[0].EnumTypes[0].UnderlyingType = "Edm.String" },
			wantCode: CodeInvalidUnderlyingType,
		},
		{
			name: "type definition over entity",
			mutate: func(m *edm.Model) {
				m.Schemas[0].TypeDefinitions = []*edm.TypeDefinition{{Namespace: "Trippin", Name: "Alias", UnderlyingType: "Trippin.Person"}}
			},
			wantCode: CodeInvalidUnderlyingType,
		},
		{
			name:     "bound operation without parameters",
			mutate:   func(m *edm.Model) { m.Schemas[0].Operations[0].Parameters = nil },
			wantCode: CodeBoundOperationWithoutParameter,
		},
		{
			name:     "function without return type",
			mutate:   func(m *edm.Model) { m.Schemas[0].Operations[2].ReturnType = nil },
			wantCode: CodeUnresolvedType,
		},
		{
			name:     "singleton over complex type",
			mutate:   func(m *edm.Model) { m.EntityContainer.Singletons[0].Type = "Trippin.Location" },
			wantCode: CodeContainerTypeMismatch,
		},
		{
			name: "duplicate container member",
			mutate: func(m *edm.Model) {
				m.EntityContainer.Singletons = append(m.EntityContainer.Singletons, &edm.Singleton{Name: "People", Type: "Trippin.Person"})
			},
			wantCode: CodeDuplicateName,
		},
		{
			name: "binding path is not a navigation property",
			mutate: func(m *edm.Model) {
				m.EntityContainer.EntitySets[0].NavigationPropertyBindings[0].Path = "FirstName"
			},
			wantCode: CodeUnresolvedNavigationBinding,
		},
		{
			name: "binding target missing",
			mutate: func(m *edm.Model) {
				m.EntityContainer.EntitySets[0].NavigationPropertyBindings[0].Target = "Strangers"
			},
			wantCode: CodeUnresolvedNavigationBinding,
		},
		{
			name:     "import of bound operation",
			mutate:   func(m *edm.Model) { m.EntityContainer.OperationImports[0].Operation = "Trippin.GetFavoriteAirline" },
			wantCode: CodeUnresolvedOperationImport,
		},
		{
			name:     "import kind mismatch",
			mutate:   func(m *edm.Model) { m.EntityContainer.OperationImports[1].Kind = edm.OperationFunction },
			wantCode: CodeUnresolvedOperationImport,
		},
		{
			name:     "authorization missing token url",
			mutate:   func(m *edm.Model) { m.EntityContainer.Authorizations[0].TokenURL = "" },
			wantCode: CodeInvalidAuthorization,
		},
		{
			name: "api key with bad location",
			mutate: func(m *edm.Model) {
				m.EntityContainer.Authorizations = append(m.EntityContainer.Authorizations,
					&edm.Authorization{Name: "key", Kind: edm.AuthAPIKey, KeyName: "x-api-key", Location: "Body"})
			},
			wantCode: CodeInvalidAuthorization,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := testutil.NewDetailedModel()
			tt.mutate(model)

			result, err := New().Validate(model)
			require.NoError(t, err)
			assert.False(t, result.Valid)
			assert.Contains(t, codes(result.Errors), tt.wantCode)
		})
	}
}

func TestCollectionResponseNameCollision(t *testing.T) {
	model := testutil.NewSimpleModel()
	model.Schemas[0].ComplexTypes = append(model.Schemas[0].ComplexTypes, &edm.ComplexType{
		StructuredType: edm.StructuredType{
			Namespace:  "Sample",
			Name:       "ProductCollectionResponse",
			Properties: []*edm.Property{{Name: "Note", Type: edm.TypeRef{Name: "Edm.String", Nullable: true}}},
		},
	})

	ok, errs := New().ValidateModel(model)
	assert.False(t, ok)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), CodeReservedName)
	assert.Contains(t, errs[0].Error(), "Sample.ProductCollectionResponse")
}

func TestBindingPathThroughCastAndContainment(t *testing.T) {
	model := testutil.NewDetailedModel()
	people := model.EntityContainer.EntitySets[0]
	people.NavigationPropertyBindings = append(people.NavigationPropertyBindings,
		edm.NavigationPropertyBinding{Path: "Trippin.Employee/Friends", Target: "Trippin.Container/People"},
		edm.NavigationPropertyBinding{Path: "Trips", Target: "self.Container/People"},
	)

	result, err := New().Validate(model)
	require.NoError(t, err)
	assert.True(t, result.Valid, "unexpected errors: %v", result.Errors)
}

func TestCollectionDefaultValueWarning(t *testing.T) {
	model := testutil.NewDetailedModel()
	model.FindEntityType("Trippin.Person").Properties[5].DefaultValue = "a@b.c"

	result, err := New().Validate(model)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, []string{CodeCollectionDefaultValue}, codes(result.Warnings))
}

func TestIssueLocationFromPosition(t *testing.T) {
	model := testutil.NewInvalidModel()
	model.SourcePath = "broken.json"
	model.Schemas[0].EntityTypes[0].Pos = edm.Position{Line: 4, Column: 5}

	result, err := New().Validate(model)
	require.NoError(t, err)
	missingKey := result.Errors[1]
	assert.Equal(t, "broken.json:4:5", missingKey.Location())
}

func TestValidateWithOptions(t *testing.T) {
	t.Run("model input", func(t *testing.T) {
		result, err := ValidateWithOptions(WithModel(testutil.NewInvalidModel()), WithIncludeWarnings(false))
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Empty(t, result.Warnings)
	})

	t.Run("strict", func(t *testing.T) {
		result, err := ValidateWithOptions(WithModel(testutil.NewInvalidModel()), WithStrictMode(true))
		require.NoError(t, err)
		assert.Equal(t, 4, result.ErrorCount)
	})

	t.Run("file input", func(t *testing.T) {
		result, err := ValidateWithOptions(WithFilePath("../testdata/trippin.json"))
		require.NoError(t, err)
		assert.True(t, result.Valid, "unexpected errors: %v", result.Errors)
		assert.Equal(t, "../testdata/trippin.json", result.SourcePath)
	})

	t.Run("no input", func(t *testing.T) {
		_, err := ValidateWithOptions()
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})

	t.Run("two inputs", func(t *testing.T) {
		_, err := ValidateWithOptions(WithModel(testutil.NewSimpleModel()), WithFilePath("x.json"))
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ValidateWithOptions(WithFilePath("../testdata/does-not-exist.json"))
		assert.Error(t, err)
	})
}

func TestValidateWithOptions_Testdata(t *testing.T) {
	t.Run("trippin has no warnings", func(t *testing.T) {
		result, err := ValidateWithOptions(WithFilePath("../testdata/trippin.json"))
		require.NoError(t, err)
		assert.Zero(t, result.ErrorCount)
		assert.Zero(t, result.WarningCount, "unexpected warnings: %v", result.Warnings)
	})

	t.Run("sample yaml warns about collection default", func(t *testing.T) {
		result, err := ValidateWithOptions(WithFilePath("../testdata/sample.yaml"))
		require.NoError(t, err)
		assert.True(t, result.Valid)
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, CodeCollectionDefaultValue, result.Warnings[0].Code)
		assert.Equal(t, "Catalog.Product/Tags", result.Warnings[0].Path)
	})

	t.Run("invalid model reports errors in order", func(t *testing.T) {
		result, err := ValidateWithOptions(WithFilePath("../testdata/invalid.json"))
		require.NoError(t, err)
		assert.False(t, result.Valid)

		codes := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			codes = append(codes, e.Code)
		}
		assert.Equal(t, []string{CodeUnresolvedType, CodeMissingKey, CodeContainerTypeMismatch}, codes)
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, "Broken.Widget", result.Warnings[0].Path)
		assert.NotZero(t, result.Errors[0].Line, "errors carry source positions")
	})
}
