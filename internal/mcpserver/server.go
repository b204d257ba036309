// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes docproj capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/docproj"
)

const serverInstructions = `docproj MCP server: applies and explains document projections.

A projection specification is a YAML or JSON mapping. 1/true keeps a field, 0/false drops it, nested mappings and dotted keys address nested fields, and any other value computes a field: "$a.b" copies a field, {$literal: v} is a constant, {$cel: "<program>"} evaluates a CEL program over root (the input document) and vars.

Configuration: All defaults are configurable via DOCPROJ_* environment variables set in your MCP client config.

Key settings:
- DOCPROJ_ARRAY_RECURSION (default: recurse) - recurse or no-recurse into arrays nested in arrays
- DOCPROJ_DEFAULT_ID (default: include) - include or exclude the identifier field when a spec does not mention it
- DOCPROJ_ID_FIELD (default: _id) - identifier field name
- DOCPROJ_MAX_DOCUMENTS (default: 1000) - maximum documents per project_apply call
- DOCPROJ_MAX_INLINE_SIZE (default: 10485760) - maximum bytes of inline content
- DOCPROJ_WORKERS (default: 4) - documents projected concurrently
- DOCPROJ_NORMALIZE_FIELD_NAMES (default: false) - NFC-normalize field names on input
- DOCPROJ_CACHE_ENABLED (default: true) - cache compiled specifications per session
- DOCPROJ_CACHE_MAX_SIZE (default: 32), DOCPROJ_CACHE_TTL (default: 15m) - compiled specification cache bounds`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		treeCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "docproj", Version: docproj.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "project_apply",
		Description: "Apply a projection specification to one or more documents. Documents may be a single mapping, a sequence of mappings, or a multi-document YAML stream. Set add_fields=true to keep every field and only overlay computed fields. Variables are available to CEL programs as vars. Use offset/limit to page through large results. Returns the projected documents as JSON or YAML.",
	}, handleProjectApply)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "project_explain",
		Description: "Compile a projection specification and explain it: the mode (inclusion or exclusion), the normalized specification after optimization, projected paths, computed paths and renames. Use verbose=true to include the result type of CEL programs.",
	}, handleProjectExplain)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit returns everything after offset.
func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 || offset >= len(items) {
		return nil
	}
	if limit <= 0 {
		return items[offset:]
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
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
