package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/VAEBZ/context7/internal/docs"
)

// Error messages surfaced to callers. The two search failure modes are
// deliberately distinguishable.
const (
	msgSearchFailed = "Failed to retrieve library documentation data from Context7"
	msgNoLibraries  = "No libraries available"
	msgNoDocs       = "Documentation not found or not finalized for this library. " +
		"This might have happened because you used an invalid Context7-compatible library ID. " +
		"To get a valid Context7-compatible library ID, use the 'resolve-library-id' tool with " +
		"the package name you wish to retrieve documentation for."
)

// dispatch runs a handler body under the per-call guard: it assigns a
// request id, logs invocation and outcome, and converts a panic into an
// error envelope. Nothing escapes a handler as a protocol error; only the
// transport supervisor in main treats failures as fatal.
func (s *Server) dispatch(tool string, fn func() *mcp.CallToolResult) (result *mcp.CallToolResult, err error) {
	requestID := uuid.NewString()
	start := time.Now()
	s.events.ToolInvoked(tool, requestID)

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("tool", tool).
				Str("request_id", requestID).
				Interface("panic", r).
				Msg("panic recovered in tool handler")
			result = errorResponse(fmt.Sprintf("internal error: %v", r))
		}
		if result != nil && result.IsError {
			s.events.ToolFailed(tool, requestID, time.Since(start), firstText(result))
		} else {
			s.events.ToolSucceeded(tool, requestID, time.Since(start))
		}
	}()

	result = fn()
	return result, nil
}

// firstText extracts the first text block of an envelope for logging.
func firstText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func (s *Server) handleResolveLibraryID(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.dispatch(toolResolveLibraryID, func() *mcp.CallToolResult {
		var params ResolveLibraryIDParams
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return errorResponse(fmt.Sprintf("invalid parameters: %v", err))
		}

		if verr := validateLibraryName(params.LibraryName); verr != nil {
			return errorResponse(verr.Error())
		}

		query := sanitizeLibraryName(params.LibraryName)
		if query == "" {
			// Nothing survived sanitization; fall back to a query the
			// index can always answer.
			query = s.snapshot.DefaultLang + " " + s.snapshot.DefaultVersion
		}

		response, err := s.docs.Search(ctx, query)
		if err != nil {
			return errorResponse(err.Error())
		}
		if response == nil || response.Results == nil {
			return errorResponse(msgSearchFailed)
		}
		if len(response.Results) == 0 {
			return errorResponse(msgNoLibraries)
		}

		return textResponse(formatSearchResults(response.Results))
	})
}

func (s *Server) handleGetLibraryDocs(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.dispatch(toolGetLibraryDocs, func() *mcp.CallToolResult {
		var params GetLibraryDocsParams
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return errorResponse(fmt.Sprintf("invalid parameters: %v", err))
		}

		if verr := validateLibraryID(params.LibraryID); verr != nil {
			return errorResponse(verr.Error())
		}

		tokens := clampTokens(params.Tokens, s.minimumTokens)
		if verr := validateTokens(tokens); verr != nil {
			return errorResponse(verr.Error())
		}

		libraryID, folders := splitFolders(params.LibraryID)
		libraryID = sanitizeLibraryID(libraryID)
		folders = sanitizeLibraryID(folders)

		lang := params.Lang
		if lang == "" {
			lang = s.snapshot.DefaultLang
		}
		pyVersion := params.PythonVersion
		if pyVersion == "" && lang == "python" {
			pyVersion = s.snapshot.DefaultVersion
		}

		text, err := s.docs.Fetch(ctx, libraryID, docs.FetchOptions{
			Tokens:  tokens,
			Topic:   params.Topic,
			Folders: folders,
			Lang:    lang,
			Version: pyVersion,
		})
		if err != nil {
			return errorResponse(err.Error())
		}
		if text == "" {
			return errorResponse(msgNoDocs)
		}

		return textResponse(text)
	})
}

// formatSearchResults renders the candidate list with a fixed preamble
// explaining each field.
func formatSearchResults(results []docs.SearchResult) string {
	var b strings.Builder
	b.WriteString("Available Libraries (top matches):\n\n")
	b.WriteString("Each result includes:\n")
	b.WriteString("- Library ID: Context7-compatible identifier (format: /org/project)\n")
	b.WriteString("- Name: Library or package name\n")
	b.WriteString("- Description: Short summary\n")
	b.WriteString("- Code Snippets: Number of available code examples\n")
	b.WriteString("- GitHub Stars: Popularity indicator\n\n")
	b.WriteString("For best results, select libraries based on name match, popularity (stars), ")
	b.WriteString("and snippet coverage relevant to your use case.\n\n")
	b.WriteString("----------\n")

	for _, r := range results {
		b.WriteString("\n")
		fmt.Fprintf(&b, "- Title: %s\n", r.Title)
		fmt.Fprintf(&b, "- Context7-compatible library ID: %s\n", r.ID)
		fmt.Fprintf(&b, "- Description: %s\n", r.Description)
		if r.TotalSnippets >= 0 {
			fmt.Fprintf(&b, "- Code Snippets: %d\n", r.TotalSnippets)
		}
		if r.Stars >= 0 {
			fmt.Fprintf(&b, "- GitHub Stars: %d\n", r.Stars)
		}
		b.WriteString("----------\n")
	}
	return b.String()
}
