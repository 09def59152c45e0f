package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// textResponse creates a success envelope carrying a single text block.
func textResponse(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// errorResponse creates an inline error envelope. Tool failures are reported
// inside the result with IsError set, never as protocol-level errors, so the
// calling model can see the failure and self-correct.
func errorResponse(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: message},
		},
	}
}
