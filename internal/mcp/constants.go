package mcp

// Tool names exposed over the protocol.
const (
	toolResolveLibraryID = "resolve-library-id"
	toolGetLibraryDocs   = "get-library-docs"
)

// Token budget bounds. The configured minimum (DEFAULT_MINIMUM_TOKENS) is
// applied as a clamp before this range is checked, so in practice only the
// upper bound can reject a request.
const (
	MinTokens = 100
	MaxTokens = 100000
)

// Library name and id length bounds enforced before any remote call.
const (
	minLibraryNameLength = 2
	maxLibraryNameLength = 100
	minLibraryIDLength   = 3
)

// folderMarker separates a library id from a folder selector inside the id
// parameter. The split happens on the first occurrence, before sanitization.
const folderMarker = "?folders="

// HTTP transport defaults.
const (
	DefaultHost = "0.0.0.0"
	DefaultPort = 9700
)
