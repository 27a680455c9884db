// Package version carries the tslc version identity. The variables are
// plain strings overridable at build time via -ldflags; colorization is
// applied at render time so --version output stays clean when piped.
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var segmentColors = []*color.Color{
	color.New(color.FgYellow, color.Bold), // major
	color.New(color.FgGreen, color.Bold),  // minor
	color.New(color.FgBlue, color.Bold),   // patch + pre-release
}

// Colored renders the version with each semver segment highlighted, for
// the version command banner. Color auto-disables off-terminal.
func Colored() string {
	parts := strings.SplitN(Version, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	var sb strings.Builder
	for i, part := range parts {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(segmentColors[i].Sprint(part))
	}
	return sb.String()
}
