package mcpserver

import (
	"errors"
	"log/slog"
	"time"

	env "github.com/caarlos0/env/v11"
)

// envPrefix is the prefix of every server environment variable.
const envPrefix = "EDMOAS_MCP_"

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool          `env:"CACHE_ENABLED" envDefault:"true"`
	CacheMaxSize       int           `env:"CACHE_MAX_SIZE" envDefault:"10"`
	CacheFileTTL       time.Duration `env:"CACHE_FILE_TTL" envDefault:"15m"`
	CacheContentTTL    time.Duration `env:"CACHE_CONTENT_TTL" envDefault:"15m"`
	CacheSweepInterval time.Duration `env:"CACHE_SWEEP_INTERVAL" envDefault:"60s"`

	// Input limits.
	MaxInlineSize int64 `env:"MAX_INLINE_SIZE" envDefault:"10485760"`
	SchemaCheck   bool  `env:"SCHEMA_CHECK" envDefault:"false"`

	// Result pagination.
	DefaultLimit int `env:"DEFAULT_LIMIT" envDefault:"100"`
	MaxLimit     int `env:"MAX_LIMIT" envDefault:"1000"`

	// Validate tool defaults.
	ValidateStrict     bool `env:"VALIDATE_STRICT" envDefault:"false"`
	ValidateNoWarnings bool `env:"VALIDATE_NO_WARNINGS" envDefault:"false"`

	// Convert tool defaults.
	OpenAPIVersion string `env:"OPENAPI_VERSION" envDefault:"3.0.4"`
	ServiceRoot    string `env:"SERVICE_ROOT" envDefault:"http://localhost"`
	Format         string `env:"FORMAT" envDefault:"json"`
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from EDMOAS_MCP_* environment variables.
// An invalid environment logs a warning and falls back to the defaults.
func loadConfig() *serverConfig {
	c, err := parseConfig(nil)
	if err != nil {
		slog.Warn("invalid MCP server environment, using defaults", "error", err)
		c, _ = parseConfig(map[string]string{})
	}
	return c
}

// parseConfig parses environ, or the process environment when environ is nil.
// Non-positive sizes and limits are rejected.
func parseConfig(environ map[string]string) (*serverConfig, error) {
	var c serverConfig
	opts := env.Options{Prefix: envPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return nil, err
	}
	if c.CacheMaxSize <= 0 || c.MaxInlineSize <= 0 || c.DefaultLimit <= 0 || c.MaxLimit <= 0 {
		return nil, errors.New("cache size, inline size and limits must be positive")
	}
	return &c, nil
}
