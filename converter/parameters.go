package converter

import "github.com/erraggy/edmoas/openapi"

// Names of the shared query option parameters.
const (
	ParameterTop    = "top"
	ParameterSkip   = "skip"
	ParameterCount  = "count"
	ParameterFilter = "filter"
	ParameterSearch = "search"
)

// CreateParameters generates the reusable OData query option parameters.
func CreateParameters(ctx *Context) (map[string]*openapi.Parameter, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	explode := false
	return map[string]*openapi.Parameter{
		ParameterTop: {
			Name:        "$top",
			In:          openapi.ParameterInQuery,
			Description: "Show only the first n items",
			Style:       "form",
			Explode:     &explode,
			Schema:      &openapi.Schema{Type: openapi.TypeInteger, Minimum: openapi.Ptr(0.0)},
			Example:     ctx.Settings().TopExample,
		},
		ParameterSkip: {
			Name:        "$skip",
			In:          openapi.ParameterInQuery,
			Description: "Skip the first n items",
			Style:       "form",
			Explode:     &explode,
			Schema:      &openapi.Schema{Type: openapi.TypeInteger, Minimum: openapi.Ptr(0.0)},
		},
		ParameterCount: {
			Name:        "$count",
			In:          openapi.ParameterInQuery,
			Description: "Include count of items",
			Style:       "form",
			Explode:     &explode,
			Schema:      &openapi.Schema{Type: openapi.TypeBoolean},
		},
		ParameterFilter: {
			Name:        "$filter",
			In:          openapi.ParameterInQuery,
			Description: "Filter items by property values",
			Style:       "form",
			Explode:     &explode,
			Schema:      &openapi.Schema{Type: openapi.TypeString},
		},
		ParameterSearch: {
			Name:        "$search",
			In:          openapi.ParameterInQuery,
			Description: "Search items by search phrases",
			Style:       "form",
			Explode:     &explode,
			Schema:      &openapi.Schema{Type: openapi.TypeString},
		},
	}, nil
}
