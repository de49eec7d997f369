package converter

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/erraggy/edmoas/oaserrors"
)

// OperationIDStyle selects how operationId values are spelled.
type OperationIDStyle int

const (
	// OperationIDDotted keeps the segments separated by dots:
	// "People.Person.ListPerson".
	OperationIDDotted OperationIDStyle = iota
	// OperationIDCamel joins the segments in camelCase:
	// "peoplePersonListPerson".
	OperationIDCamel
	// OperationIDSnake joins the segments in snake_case:
	// "people_person_list_person".
	OperationIDSnake
)

// String returns the style name used by the CLI.
func (s OperationIDStyle) String() string {
	switch s {
	case OperationIDDotted:
		return "dotted"
	case OperationIDCamel:
		return "camel"
	case OperationIDSnake:
		return "snake"
	default:
		return "unknown"
	}
}

// ParseOperationIDStyle parses "dotted", "camel" or "snake".
func ParseOperationIDStyle(s string) (OperationIDStyle, error) {
	switch strings.ToLower(s) {
	case "", "dotted":
		return OperationIDDotted, nil
	case "camel":
		return OperationIDCamel, nil
	case "snake":
		return OperationIDSnake, nil
	}
	return 0, &oaserrors.ConfigError{Option: "OperationIDStyle", Value: s, Message: "must be dotted, camel or snake"}
}

// Defaults used by NewConvertSettings.
const (
	DefaultServiceRoot    = "http://localhost"
	DefaultOpenAPIVersion = "3.0.4"
	DefaultSemVerVersion  = "1.0.0"
	DefaultTopExample     = 50
)

var openAPIVersionPattern = regexp.MustCompile(`^3\.[01]\.\d+$`)

// ConvertSettings holds every generation policy. Use NewConvertSettings for
// the documented defaults; the zero value disables most features.
type ConvertSettings struct {
	// ServiceRoot is the service URL written to servers[0]
	ServiceRoot string
	// OpenAPIVersion is the emitted "openapi" version (3.0.x or 3.1.x)
	OpenAPIVersion string
	// SemVerVersion is written to info.version
	SemVerVersion string

	// VerifyEdmModel validates the model before conversion and produces an
	// error document when it is invalid
	VerifyEdmModel bool

	// EnableKeyAsSegment addresses single-key entities as /Set/{key}
	EnableKeyAsSegment bool
	// EnableUnqualifiedCall omits the namespace from bound operation segments
	EnableUnqualifiedCall bool
	// EnableOperationPath emits paths for bound functions and actions
	EnableOperationPath bool
	// EnableOperationImportPath emits paths for function and action imports
	EnableOperationImportPath bool
	// EnableNavigationPropertyPath emits paths for navigation properties
	EnableNavigationPropertyPath bool
	// EnableDollarCountPath emits /$count paths for collections
	EnableDollarCountPath bool

	// EnableOperationID emits operationId on every operation
	EnableOperationID bool
	// OperationIDStyle selects the operationId spelling
	OperationIDStyle OperationIDStyle

	// EnableEdmTypeExtension adds x-ms-edm-type to primitive schemas
	EnableEdmTypeExtension bool
	// IEEE754Compatible allows Edm.Int64 and Edm.Decimal values as strings
	IEEE754Compatible bool
	// EnablePagination adds @odata.nextLink to collection responses
	EnablePagination bool
	// EnableDiscriminatorValue adds @odata.type to types in a hierarchy
	EnableDiscriminatorValue bool
	// EnableDerivedTypesReferencesForResponses lists derived types in
	// single-entity responses
	EnableDerivedTypesReferencesForResponses bool
	// PrefixEntityTypeNameBeforeKey names single key parameters {type-id}
	PrefixEntityTypeNameBeforeKey bool
	// DeclarePathParametersOnPathItem moves path parameters to the path item
	DeclarePathParametersOnPathItem bool

	// PathPrefix is prepended to every path, e.g. "/odata"
	PathPrefix string
	// TopExample is the example value of the $top parameter
	TopExample int
	// AddGeneratorExtension adds the top-level x-ms-generated-by extension
	AddGeneratorExtension bool
}

// NewConvertSettings returns settings with the documented defaults.
func NewConvertSettings() *ConvertSettings {
	return &ConvertSettings{
		ServiceRoot:                  DefaultServiceRoot,
		OpenAPIVersion:               DefaultOpenAPIVersion,
		SemVerVersion:                DefaultSemVerVersion,
		VerifyEdmModel:               true,
		EnableOperationPath:          true,
		EnableOperationImportPath:    true,
		EnableNavigationPropertyPath: true,
		EnableDollarCountPath:        true,
		EnableOperationID:            true,
		OperationIDStyle:             OperationIDDotted,
		TopExample:                   DefaultTopExample,
	}
}

// Clone returns a copy of s.
func (s *ConvertSettings) Clone() *ConvertSettings {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Validate reports the first invalid setting as a *oaserrors.ConfigError.
func (s *ConvertSettings) Validate() error {
	if !openAPIVersionPattern.MatchString(s.OpenAPIVersion) {
		return &oaserrors.ConfigError{
			Option:  "OpenAPIVersion",
			Value:   s.OpenAPIVersion,
			Message: "only 3.0.x and 3.1.x are supported",
		}
	}
	if s.TopExample < 0 {
		return &oaserrors.ConfigError{Option: "TopExample", Value: s.TopExample, Message: "must not be negative"}
	}
	u, err := url.Parse(s.ServiceRoot)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &oaserrors.ConfigError{
			Option:  "ServiceRoot",
			Value:   s.ServiceRoot,
			Message: "must be an absolute URL",
			Cause:   err,
		}
	}
	if p := s.PathPrefix; p != "" {
		if !strings.HasPrefix(p, "/") || strings.HasSuffix(p, "/") || strings.ContainsAny(p, "{}?# ") {
			return &oaserrors.ConfigError{
				Option:  "PathPrefix",
				Value:   p,
				Message: `must start with "/", not end with "/", and contain no template or query characters`,
			}
		}
	}
	if s.OperationIDStyle < OperationIDDotted || s.OperationIDStyle > OperationIDSnake {
		return &oaserrors.ConfigError{Option: "OperationIDStyle", Value: int(s.OperationIDStyle), Message: "unknown style"}
	}
	return nil
}

// IsOAS31 reports whether the target version is 3.1.x.
func (s *ConvertSettings) IsOAS31() bool {
	return strings.HasPrefix(s.OpenAPIVersion, "3.1.")
}

func (s *ConvertSettings) String() string {
	return fmt.Sprintf("openapi=%s root=%s verify=%t", s.OpenAPIVersion, s.ServiceRoot, s.VerifyEdmModel)
}
