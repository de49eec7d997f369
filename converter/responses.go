package converter

import "github.com/erraggy/edmoas/openapi"

// ResponseError is the name of the standard OData error response that
// every operation references as its default response.
const ResponseError = "error"

// CreateResponses generates the standard error response. It is
// unconditional: every full document contains it.
func CreateResponses(ctx *Context) (map[string]*openapi.Response, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return map[string]*openapi.Response{
		ResponseError: {
			Description: "error",
			Content:     openapi.JSONContent(openapi.RefSchema(SchemaODataError)),
		},
	}, nil
}
