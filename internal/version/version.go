// Package version carries the graphir build identification.
package version

import (
	"fmt"

	"github.com/fatih/color"
)

// These can be overridden at build time via -ldflags -X.
var (
	Major = "0"
	Minor = "1"
	Patch = "0"
	Pre   = "dev"

	GitCommit = ""
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Plain returns the version without colour, e.g. "0.1.0-dev".
func Plain() string {
	v := Major + "." + Minor + "." + Patch
	if Pre != "" {
		v += "-" + Pre
	}
	return v
}

// Colored returns the version with each component coloured. fatih/color
// drops the escapes when colour is disabled.
func Colored() string {
	v := majorColor.Sprint(Major) + "." + minorColor.Sprint(Minor) + "." + patchColor.Sprint(Patch)
	if Pre != "" {
		v += "-" + Pre
	}
	return v
}

// Line is what `graphir version` prints.
func Line(colored bool) string {
	v := Plain()
	if colored {
		v = Colored()
	}
	line := "graphir " + v
	if GitCommit != "" {
		line += fmt.Sprintf(" (%s)", GitCommit)
	}
	if BuildDate != "" {
		line += " built " + BuildDate
	}
	return line
}
