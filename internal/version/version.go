// Package version carries the build fingerprints stamped into the binary.
package version

import (
	"strings"

	"github.com/fatih/color"
)

// Overridable at build time via -ldflags.
var (
	// Number is the semantic version of the tools.
	Number = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var partColors = []*color.Color{
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgBlue, color.Bold),
}

// Pretty returns Number with each dotted component highlighted.
func Pretty() string {
	parts := strings.Split(Number, ".")
	for i, p := range parts {
		parts[i] = partColors[i%len(partColors)].Sprint(p)
	}
	return strings.Join(parts, ".")
}
