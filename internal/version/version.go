// Package version holds gfnprobe's identity and renders the identification banner.
// All versions follow semantic versioning.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Name is the program name shown in the banner and usage text.
const Name = "gfnprobe"

// Version is the current release.
// Format: major.minor.patch[-prerelease][+build]
const Version = "0.1.0-dev"

// GridsimVersion is the development coordinator's version, evolving independently.
const GridsimVersion = "0.1.0-dev"

// SystemTag describes the build target in the short form used by the banner:
// win64, win32, linux64, linux32, macOS, or the raw GOOS otherwise.
func SystemTag(goos, goarch string) string {
	wide := strings.HasSuffix(goarch, "64")
	switch goos {
	case "windows":
		if wide {
			return "win64"
		}
		return "win32"
	case "linux":
		if wide {
			return "linux64"
		}
		return "linux32"
	case "darwin":
		return "macOS"
	default:
		return goos
	}
}

// Banner returns the identification header. With withCommandLine set, the
// echoed command line follows, wrapped in blank lines.
func Banner(args []string, withCommandLine bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s %s\n", Name, Version, SystemTag(runtime.GOOS, runtime.GOARCH), runtime.Version())
	b.WriteString("Generalized Fermat number probable-prime tester.\n")
	if withCommandLine {
		fmt.Fprintf(&b, "\nCommand line: '%s'\n\n", strings.Join(args, " "))
	}
	return b.String()
}
