// Package version carries the build identity stamped into the binary.
package version

// Version is the current semantic version.
const Version = "1.0.0"

// BuildDate and GitCommit are overridden at build time via
// -ldflags "-X github.com/VAEBZ/context7/internal/version.GitCommit=...".
var (
	BuildDate = "development"
	GitCommit = "unknown"
)

// FullInfo returns the detailed version line printed by --version.
func FullInfo() string {
	return "Context7 MCP " + Version + " (commit: " + GitCommit + ", built: " + BuildDate + ")"
}
