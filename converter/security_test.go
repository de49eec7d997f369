package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/edmoas/edm"
	"github.com/erraggy/edmoas/internal/testutil"
	"github.com/erraggy/edmoas/openapi"
)

func TestCreateSecuritySchemes(t *testing.T) {
	model := testutil.NewSimpleModel()
	model.EntityContainer.Authorizations = []*edm.Authorization{
		{
			Name: "implicit", Kind: edm.AuthOAuth2Implicit,
			AuthorizationURL: "https://login.example.com/authorize",
			TokenURL:         "https://login.example.com/token",
		},
		{
			Name: "client", Kind: edm.AuthOAuth2ClientCredentials,
			TokenURL: "https://login.example.com/token",
			Scopes:   []edm.Scope{{Scope: "read", Description: "Read access"}},
		},
		{Name: "basic", Kind: edm.AuthHTTP, Scheme: "bearer", BearerFormat: "JWT"},
		{Name: "key", Kind: edm.AuthAPIKey, KeyName: "api_key", Location: "QueryOption"},
		{Name: "oidc", Kind: edm.AuthOpenIDConnect, IssuerURL: "https://login.example.com"},
		{Kind: edm.AuthHTTP},
	}
	ctx, err := NewContext(model, NewConvertSettings())
	require.NoError(t, err)

	schemes, err := CreateSecuritySchemes(ctx)
	require.NoError(t, err)
	require.Len(t, schemes, 5, "unnamed authorizations are skipped")

	implicit := schemes["implicit"]
	assert.Equal(t, openapi.SecuritySchemeOAuth2, implicit.Type)
	require.NotNil(t, implicit.Flows.Implicit)
	assert.Equal(t, "https://login.example.com/authorize", implicit.Flows.Implicit.AuthorizationURL)
	assert.Empty(t, implicit.Flows.Implicit.TokenURL)
	assert.NotNil(t, implicit.Flows.Implicit.Scopes, "scopes are required even when empty")

	client := schemes["client"].Flows.ClientCredentials
	require.NotNil(t, client)
	assert.Equal(t, map[string]string{"read": "Read access"}, client.Scopes)

	assert.Equal(t, openapi.SecuritySchemeHTTP, schemes["basic"].Type)
	assert.Equal(t, "bearer", schemes["basic"].Scheme)
	assert.Equal(t, "JWT", schemes["basic"].BearerFormat)

	assert.Equal(t, openapi.SecuritySchemeAPIKey, schemes["key"].Type)
	assert.Equal(t, "api_key", schemes["key"].Name)
	assert.Equal(t, "query", schemes["key"].In)

	assert.Equal(t, openapi.SecuritySchemeOpenIDConnect, schemes["oidc"].Type)
	assert.Equal(t, "https://login.example.com", schemes["oidc"].OpenIDConnectURL)

	reqs := CreateSecurityRequirements(ctx)
	require.Len(t, reqs, 5)
	assert.Equal(t, openapi.SecurityRequirement{"client": {"read"}}, reqs[1])
	assert.Equal(t, openapi.SecurityRequirement{"basic": {}}, reqs[2])
}

func TestCreateSecuritySchemes_None(t *testing.T) {
	ctx, err := NewContext(testutil.NewSimpleModel(), NewConvertSettings())
	require.NoError(t, err)
	schemes, err := CreateSecuritySchemes(ctx)
	require.NoError(t, err)
	assert.Empty(t, schemes)
	assert.Empty(t, CreateSecurityRequirements(ctx))
}

func TestCreateTags(t *testing.T) {
	ctx, err := NewContext(testutil.NewDetailedModel(), NewConvertSettings())
	require.NoError(t, err)
	tags, err := CreateTags(ctx)
	require.NoError(t, err)

	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	assert.Equal(t, []string{"People", "Airlines", "Me", "GetNearestAirline", "ResetDataSource"}, names)
	assert.Equal(t, "A person", tags[0].Description, "falls back to the entity type description")
	assert.Equal(t, "Airlines of the world", tags[1].Description)
	assert.Equal(t, "page", tags[0].Extra["x-ms-docs-toc-type"])
}

func TestCreateParametersAndResponses(t *testing.T) {
	settings := NewConvertSettings()
	settings.TopExample = 20
	ctx, err := NewContext(testutil.NewSimpleModel(), settings)
	require.NoError(t, err)

	params, err := CreateParameters(ctx)
	require.NoError(t, err)
	assert.Len(t, params, 5)
	assert.Equal(t, "$top", params[ParameterTop].Name)
	assert.Equal(t, openapi.ParameterInQuery, params[ParameterTop].In)
	assert.Equal(t, 20, params[ParameterTop].Example)
	assert.Equal(t, openapi.TypeBoolean, params[ParameterCount].Schema.Type)

	responses, err := CreateResponses(ctx)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "error", responses[ResponseError].Description)
}
