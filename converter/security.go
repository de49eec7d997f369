package converter

import (
	"github.com/erraggy/edmoas/edm"
	"github.com/erraggy/edmoas/openapi"
)

// CreateSecuritySchemes generates one security scheme per authorization
// declared on the entity container.
func CreateSecuritySchemes(ctx *Context) (map[string]*openapi.SecurityScheme, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	ec := ctx.EntityContainer()
	if ec == nil || len(ec.Authorizations) == 0 {
		return nil, nil
	}

	schemes := make(map[string]*openapi.SecurityScheme, len(ec.Authorizations))
	for _, a := range ec.Authorizations {
		if a.Name == "" {
			continue
		}
		schemes[a.Name] = securityScheme(a)
	}
	return schemes, nil
}

func securityScheme(a *edm.Authorization) *openapi.SecurityScheme {
	s := &openapi.SecurityScheme{Description: a.Description}
	switch a.Kind {
	case edm.AuthHTTP:
		s.Type = openapi.SecuritySchemeHTTP
		s.Scheme = a.Scheme
		s.BearerFormat = a.BearerFormat
	case edm.AuthAPIKey:
		s.Type = openapi.SecuritySchemeAPIKey
		s.Name = a.KeyName
		s.In = apiKeyLocation(a.Location)
	case edm.AuthOpenIDConnect:
		s.Type = openapi.SecuritySchemeOpenIDConnect
		s.OpenIDConnectURL = a.IssuerURL
	default:
		s.Type = openapi.SecuritySchemeOAuth2
		flow := &openapi.OAuthFlow{
			AuthorizationURL: a.AuthorizationURL,
			TokenURL:         a.TokenURL,
			RefreshURL:       a.RefreshURL,
			Scopes:           make(map[string]string, len(a.Scopes)),
		}
		for _, sc := range a.Scopes {
			flow.Scopes[sc.Scope] = sc.Description
		}
		s.Flows = &openapi.OAuthFlows{}
		switch a.Kind {
		case edm.AuthOAuth2Implicit:
			flow.TokenURL = ""
			s.Flows.Implicit = flow
		case edm.AuthOAuth2Password:
			flow.AuthorizationURL = ""
			s.Flows.Password = flow
		case edm.AuthOAuth2ClientCredentials:
			flow.AuthorizationURL = ""
			s.Flows.ClientCredentials = flow
		default:
			s.Flows.AuthorizationCode = flow
		}
	}
	return s
}

func apiKeyLocation(location string) string {
	switch location {
	case "QueryOption":
		return "query"
	case "Cookie":
		return "cookie"
	default:
		return "header"
	}
}

// CreateSecurityRequirements returns one alternative requirement per
// authorization, listing the OAuth2 scopes it declares.
func CreateSecurityRequirements(ctx *Context) []openapi.SecurityRequirement {
	ec := ctx.EntityContainer()
	if ec == nil {
		return nil
	}
	var reqs []openapi.SecurityRequirement
	for _, a := range ec.Authorizations {
		if a.Name == "" {
			continue
		}
		scopes := []string{}
		for _, sc := range a.Scopes {
			scopes = append(scopes, sc.Scope)
		}
		reqs = append(reqs, openapi.SecurityRequirement{a.Name: scopes})
	}
	return reqs
}

// declaredRequirements keeps the requirements whose schemes all appear in
// components.securitySchemes. Generator lists without the securitySchemes
// generator therefore emit no requirements.
func declaredRequirements(doc *openapi.Document, reqs []openapi.SecurityRequirement) []openapi.SecurityRequirement {
	var declared map[string]*openapi.SecurityScheme
	if doc.Components != nil {
		declared = doc.Components.SecuritySchemes
	}
	var kept []openapi.SecurityRequirement
	for _, req := range reqs {
		ok := true
		for name := range req {
			if declared[name] == nil {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, req)
		}
	}
	return kept
}
