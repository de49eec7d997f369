// Package httputil provides the HTTP method and response key constants used
// when building OpenAPI operations.
package httputil

// HTTP methods as they appear in an OpenAPI path item.
const (
	MethodGet    = "get"
	MethodPut    = "put"
	MethodPost   = "post"
	MethodDelete = "delete"
	MethodPatch  = "patch"
)

// Response keys of an OpenAPI responses object.
const (
	StatusOK        = "200"
	StatusCreated   = "201"
	StatusNoContent = "204"
	StatusDefault   = "default"
)
