package edm

// EntityContainer exposes the model's top-level resources.
type EntityContainer struct {
	Namespace        string
	Name             string
	Description      string
	EntitySets       []*EntitySet
	Singletons       []*Singleton
	OperationImports []*OperationImport
	Authorizations   []*Authorization
	Pos              Position
}

// QualifiedName returns Namespace.Name.
func (c *EntityContainer) QualifiedName() string { return qualify(c.Namespace, c.Name) }

// FindEntitySet returns the named entity set.
func (c *EntityContainer) FindEntitySet(name string) *EntitySet {
	for _, es := range c.EntitySets {
		if es.Name == name {
			return es
		}
	}
	return nil
}

// FindSingleton returns the named singleton.
func (c *EntityContainer) FindSingleton(name string) *Singleton {
	for _, s := range c.Singletons {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// NavigationPropertyBinding binds a navigation property path to a target
// entity set or singleton.
type NavigationPropertyBinding struct {
	Path   string
	Target string
}

// EntitySet is an addressable collection of entities.
type EntitySet struct {
	Name                       string
	EntityType                 string
	IncludeInServiceDocument   bool
	Description                string
	NavigationPropertyBindings []NavigationPropertyBinding
	Pos                        Position
}

// Singleton is an addressable single entity.
type Singleton struct {
	Name                       string
	Type                       string
	Description                string
	NavigationPropertyBindings []NavigationPropertyBinding
	Pos                        Position
}

// OperationImport exposes an unbound function or action at the service root.
type OperationImport struct {
	Name string
	Kind OperationKind
	// Operation is the qualified name of the imported operation.
	Operation   string
	EntitySet   string
	Description string
	Pos         Position
}

// AuthorizationKind identifies a security scheme type.
type AuthorizationKind int

const (
	AuthOAuth2Implicit AuthorizationKind = iota
	AuthOAuth2Password
	AuthOAuth2ClientCredentials
	AuthOAuth2AuthCode
	AuthHTTP
	AuthAPIKey
	AuthOpenIDConnect
)

// String returns the Auth vocabulary type name.
func (k AuthorizationKind) String() string {
	switch k {
	case AuthOAuth2Implicit:
		return "OAuth2Implicit"
	case AuthOAuth2Password:
		return "OAuth2Password"
	case AuthOAuth2ClientCredentials:
		return "OAuth2ClientCredentials"
	case AuthOAuth2AuthCode:
		return "OAuth2AuthCode"
	case AuthHTTP:
		return "Http"
	case AuthAPIKey:
		return "ApiKey"
	case AuthOpenIDConnect:
		return "OpenIDConnect"
	default:
		return "Unknown"
	}
}

// ParseAuthorizationKind maps an Auth vocabulary type name (with or without
// the "Auth." qualifier) to its kind.
func ParseAuthorizationKind(s string) (AuthorizationKind, bool) {
	if len(s) > 5 && s[:5] == "Auth." {
		s = s[5:]
	}
	for k := AuthOAuth2Implicit; k <= AuthOpenIDConnect; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Authorization describes one way of authorizing requests to the service.
type Authorization struct {
	Name        string
	Kind        AuthorizationKind
	Description string

	// OAuth2
	Scopes           []Scope
	AuthorizationURL string
	TokenURL         string
	RefreshURL       string

	// Http
	Scheme       string
	BearerFormat string

	// ApiKey
	KeyName  string
	Location string

	// OpenIDConnect
	IssuerURL string
}

// Scope is an OAuth2 scope.
type Scope struct {
	Scope       string
	Description string
}
