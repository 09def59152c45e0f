// Package mcp implements the Context7 MCP server: the two documentation
// tools, their validation and sanitization, the uniform response envelope,
// and the transport selection between stdio and streamable HTTP.
package mcp

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/VAEBZ/context7/internal/config"
	"github.com/VAEBZ/context7/internal/docs"
	"github.com/VAEBZ/context7/internal/version"
)

// DocsClient is the remote documentation index boundary. The production
// implementation lives in internal/docs; tests substitute fakes.
type DocsClient interface {
	Search(ctx context.Context, query string) (*docs.SearchResponse, error)
	Fetch(ctx context.Context, id string, opts docs.FetchOptions) (string, error)
}

// Server wires the tool registry to the configuration snapshot and the
// remote index. One Server serves the whole process over exactly one
// transport; the snapshot is the only state shared across concurrent
// requests and it is read-only.
type Server struct {
	server        *mcp.Server
	snapshot      config.Snapshot
	docs          DocsClient
	minimumTokens int
	events        EventLogger
	logger        zerolog.Logger
}

// NewServer creates the MCP server and registers both tools.
func NewServer(snapshot config.Snapshot, client DocsClient, minimumTokens int, logger zerolog.Logger) *Server {
	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "context7-mcp-server",
			Version: version.Version,
		}, nil),
		snapshot:      snapshot,
		docs:          client,
		minimumTokens: minimumTokens,
		events:        NewEventLogger(logger),
		logger:        logger,
	}
	s.registerTools()
	return s
}

// registerTools registers the two documentation tools with their input
// schemas.
func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name: toolResolveLibraryID,
		Description: "Resolves a package/product name to a Context7-compatible library ID and returns " +
			"a list of matching libraries. You MUST call this function before 'get-library-docs' to " +
			"obtain a valid Context7-compatible library ID.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"libraryName": {
					Type:        "string",
					Description: "Library name to search for and retrieve a Context7-compatible library ID.",
				},
			},
			Required: []string{"libraryName"},
		},
	}, s.handleResolveLibraryID)

	s.server.AddTool(&mcp.Tool{
		Name: toolGetLibraryDocs,
		Description: "Fetches up-to-date documentation for a library. You must call 'resolve-library-id' " +
			"first to obtain the exact Context7-compatible library ID required to use this tool.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"context7CompatibleLibraryID": {
					Type: "string",
					Description: "Exact Context7-compatible library ID (e.g., '/python/cpython') " +
						"retrieved from 'resolve-library-id'. Append '?folders=' with a path to scope " +
						"the docs to a sub-folder.",
				},
				"topic": {
					Type:        "string",
					Description: "Topic to focus documentation on (e.g., 'asyncio', 'dataclasses').",
				},
				"tokens": {
					Type: "integer",
					Description: "Maximum number of tokens of documentation to retrieve. Values below " +
						"the configured minimum are raised to it.",
				},
				"lang": {
					Type:        "string",
					Description: "Documentation language. Defaults to the project's configured language.",
				},
				"pythonVersion": {
					Type:        "string",
					Description: "Python version to target when the effective language is python.",
				},
			},
			Required: []string{"context7CompatibleLibraryID"},
		},
	}, s.handleGetLibraryDocs)
}

// ServeStdio binds the server to the process's standard streams. Messages
// arrive one at a time in order; the call returns when stdin closes or ctx
// is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	s.logger.Info().Msg("starting MCP server with stdio transport")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
