// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes edmoas capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/erraggy/edmoas"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `edmoas MCP server: converts OData CSDL models (JSON or YAML) to OpenAPI 3.0/3.1 documents and validates models.

Configuration: All defaults are configurable via EDMOAS_MCP_* environment variables set in your MCP client config.

Key settings:
- EDMOAS_MCP_OPENAPI_VERSION (default: 3.0.4): default target OpenAPI version for convert
- EDMOAS_MCP_SERVICE_ROOT (default: http://localhost): default service root for convert
- EDMOAS_MCP_FORMAT (default: json): default document format for convert
- EDMOAS_MCP_VALIDATE_STRICT (default: false): treat warnings as errors by default
- EDMOAS_MCP_VALIDATE_NO_WARNINGS (default: false): suppress warnings by default
- EDMOAS_MCP_SCHEMA_CHECK (default: false): check CSDL shape against the bundled JSON Schema
- EDMOAS_MCP_CACHE_ENABLED (default: true): disable model caching entirely

Caching: Read models are cached per session. File entries use path+mtime as key (auto-invalidated on change). A background sweeper removes expired entries.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		modelCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := newServer()
	return server.Run(ctx, &mcp.StdioTransport{})
}

func newServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "edmoas", Version: edmoas.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert",
		Description: "Convert an OData CSDL model (JSON or YAML, inline content or file) to an OpenAPI 3.0 or 3.1 document. Returns document statistics and the document inline, or writes it to output. A model that fails verification yields an error document listing the model errors (model_error_count > 0) unless no_verify is set. Defaults are configurable via EDMOAS_MCP_OPENAPI_VERSION, EDMOAS_MCP_SERVICE_ROOT and EDMOAS_MCP_FORMAT.",
	}, handleConvert)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate",
		Description: "Validate an OData CSDL model. Returns errors and warnings with codes and CSDL target paths. Use no_warnings to focus on errors first. Use offset/limit to paginate through results. Strict mode and warning suppression defaults are configurable via EDMOAS_MCP_VALIDATE_STRICT and EDMOAS_MCP_VALIDATE_NO_WARNINGS.",
	}, handleValidate)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.DefaultLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.DefaultLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
