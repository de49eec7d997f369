package commands

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
)

// EnvPrefix is the prefix of environment variables that override flag defaults.
const EnvPrefix = "EDMOAS_"

// Defaults holds flag defaults read from the environment.
type Defaults struct {
	ServiceRoot      string `env:"SERVICE_ROOT" envDefault:"http://localhost"`
	OpenAPIVersion   string `env:"OPENAPI_VERSION" envDefault:"3.0.4"`
	SemVerVersion    string `env:"SEMVER_VERSION" envDefault:"1.0.0"`
	PathPrefix       string `env:"PATH_PREFIX"`
	OperationIDStyle string `env:"OPERATION_ID_STYLE" envDefault:"dotted"`
	Format           string `env:"FORMAT" envDefault:"json"`
	NoVerify         bool   `env:"NO_VERIFY"`
	SchemaCheck      bool   `env:"SCHEMA_CHECK"`
	Verbose          bool   `env:"VERBOSE"`
}

// LoadDefaults reads EDMOAS_* environment variables.
func LoadDefaults() (*Defaults, error) {
	var d Defaults
	if err := env.ParseWithOptions(&d, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("reading %s environment: %w", EnvPrefix, err)
	}
	return &d, nil
}
