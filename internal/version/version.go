// Package version holds build information for the luedit CLI.
// The variables are overridden at build time via -ldflags.
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

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
	dimColor   = color.New(color.Faint)
)

// Colored returns Version with major, minor and patch in separate colors.
// fatih/color drops the escapes when color is disabled.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// String is the full `luedit version` line.
func String() string {
	var sb strings.Builder
	sb.WriteString("luedit ")
	sb.WriteString(Colored())
	if GitCommit != "" {
		sb.WriteString(dimColor.Sprint(" (" + GitCommit + ")"))
	}
	if BuildDate != "" {
		sb.WriteString(dimColor.Sprint(" built " + BuildDate))
	}
	return sb.String()
}
