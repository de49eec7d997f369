package openapi

// SecurityScheme defines a security scheme that operations can use.
type SecurityScheme struct {
	Ref              string      `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Type             string      `yaml:"type,omitempty" json:"type,omitempty"` // "apiKey", "http", "oauth2", "openIdConnect"
	Description      string      `yaml:"description,omitempty" json:"description,omitempty"`
	Name             string      `yaml:"name,omitempty" json:"name,omitempty"`                         // apiKey
	In               string      `yaml:"in,omitempty" json:"in,omitempty"`                             // apiKey: "query", "header", "cookie"
	Scheme           string      `yaml:"scheme,omitempty" json:"scheme,omitempty"`                     // http
	BearerFormat     string      `yaml:"bearerFormat,omitempty" json:"bearerFormat,omitempty"`         // http bearer
	Flows            *OAuthFlows `yaml:"flows,omitempty" json:"flows,omitempty"`                       // oauth2
	OpenIDConnectURL string      `yaml:"openIdConnectUrl,omitempty" json:"openIdConnectUrl,omitempty"` // openIdConnect

	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Security scheme types.
const (
	SecuritySchemeAPIKey        = "apiKey"
	SecuritySchemeHTTP          = "http"
	SecuritySchemeOAuth2        = "oauth2"
	SecuritySchemeOpenIDConnect = "openIdConnect"
)

// OAuthFlows holds the configuration for the supported OAuth flows.
type OAuthFlows struct {
	Implicit          *OAuthFlow `yaml:"implicit,omitempty" json:"implicit,omitempty"`
	Password          *OAuthFlow `yaml:"password,omitempty" json:"password,omitempty"`
	ClientCredentials *OAuthFlow `yaml:"clientCredentials,omitempty" json:"clientCredentials,omitempty"`
	AuthorizationCode *OAuthFlow `yaml:"authorizationCode,omitempty" json:"authorizationCode,omitempty"`
}

// OAuthFlow is the configuration for a single OAuth flow.
type OAuthFlow struct {
	AuthorizationURL string            `yaml:"authorizationUrl,omitempty" json:"authorizationUrl,omitempty"`
	TokenURL         string            `yaml:"tokenUrl,omitempty" json:"tokenUrl,omitempty"`
	RefreshURL       string            `yaml:"refreshUrl,omitempty" json:"refreshUrl,omitempty"`
	Scopes           map[string]string `yaml:"scopes" json:"scopes"`
}
