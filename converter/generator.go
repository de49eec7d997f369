package converter

import (
	"fmt"

	"github.com/erraggy/edmoas/internal/maputil"
	"github.com/erraggy/edmoas/oaserrors"
	"github.com/erraggy/edmoas/openapi"
)

// Generator produces one concern of the document, such as component
// schemas or paths, and merges it into doc.
type Generator interface {
	// Name identifies the generator in logs and errors.
	Name() string
	// Apply adds the generator's fragments to doc.
	Apply(ctx *Context, doc *openapi.Document) error
}

// GenerateFunc builds a named fragment map from a context. It must not
// read other generators' output; cross references are $ref pointers.
type GenerateFunc[T any] func(ctx *Context) (map[string]*T, error)

// FragmentTarget selects the map of doc that a generator fills.
type FragmentTarget[T any] func(doc *openapi.Document) *map[string]*T

type componentGenerator[T any] struct {
	name   string
	fn     GenerateFunc[T]
	target FragmentTarget[T]
}

// ComponentGenerator adapts a GenerateFunc into a Generator that merges its
// fragments into the map chosen by target. A fragment name that is already
// present is reported as a *oaserrors.ConversionError.
func ComponentGenerator[T any](name string, fn GenerateFunc[T], target FragmentTarget[T]) Generator {
	return &componentGenerator[T]{name: name, fn: fn, target: target}
}

func (g *componentGenerator[T]) Name() string { return g.name }

func (g *componentGenerator[T]) Apply(ctx *Context, doc *openapi.Document) error {
	fragments, err := g.fn(ctx)
	if err != nil {
		return err
	}
	if len(fragments) == 0 {
		return nil
	}
	dst := g.target(doc)
	if *dst == nil {
		*dst = make(map[string]*T, len(fragments))
	}
	// sorted so that the reported collision does not depend on map order
	for _, name := range maputil.SortedKeys(fragments) {
		if _, exists := (*dst)[name]; exists {
			return &oaserrors.ConversionError{
				Generator: g.name,
				Path:      g.name + "." + name,
				Message:   "duplicate fragment name",
			}
		}
		(*dst)[name] = fragments[name]
	}
	return nil
}

type funcGenerator struct {
	name string
	fn   func(*Context, *openapi.Document) error
}

// NewGenerator returns a Generator that calls fn.
func NewGenerator(name string, fn func(ctx *Context, doc *openapi.Document) error) Generator {
	return &funcGenerator{name: name, fn: fn}
}

func (g *funcGenerator) Name() string { return g.name }

func (g *funcGenerator) Apply(ctx *Context, doc *openapi.Document) error {
	return g.fn(ctx, doc)
}

// Targets for the standard fragment kinds.

// SchemasTarget selects components.schemas.
func SchemasTarget(doc *openapi.Document) *map[string]*openapi.Schema {
	return &doc.EnsureComponents().Schemas
}

// ParametersTarget selects components.parameters.
func ParametersTarget(doc *openapi.Document) *map[string]*openapi.Parameter {
	return &doc.EnsureComponents().Parameters
}

// ResponsesTarget selects components.responses.
func ResponsesTarget(doc *openapi.Document) *map[string]*openapi.Response {
	return &doc.EnsureComponents().Responses
}

// SecuritySchemesTarget selects components.securitySchemes.
func SecuritySchemesTarget(doc *openapi.Document) *map[string]*openapi.SecurityScheme {
	return &doc.EnsureComponents().SecuritySchemes
}

// PathsTarget selects paths.
func PathsTarget(doc *openapi.Document) *map[string]*openapi.PathItem {
	return (*map[string]*openapi.PathItem)(&doc.Paths)
}

// DefaultGenerators returns the standard generators in dependency order:
// everything a path references is generated before the paths.
func DefaultGenerators() []Generator {
	return []Generator{
		ComponentGenerator("schemas", CreateSchemas, SchemasTarget),
		ComponentGenerator("parameters", CreateParameters, ParametersTarget),
		ComponentGenerator("responses", CreateResponses, ResponsesTarget),
		ComponentGenerator("securitySchemes", CreateSecuritySchemes, SecuritySchemesTarget),
		NewGenerator("tags", applyTags),
		ComponentGenerator("paths", CreatePaths, PathsTarget),
	}
}

func checkContext(ctx *Context) error {
	if ctx == nil {
		return fmt.Errorf("converter: %w", oaserrors.NilArgument("context"))
	}
	return nil
}
