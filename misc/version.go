// Package misc holds small helpers describing the program itself.
package misc

import (
	"runtime/debug"
	"strings"
)

const appName = "e2n"

// GetAppName returns short program name used for logging, reports and
// temporary file prefixes.
func GetAppName() string {
	return appName
}

// GetVersion returns module version recorded in build info.
func GetVersion() string {
	if bi, ok := debug.ReadBuildInfo(); ok && len(bi.Main.Version) > 0 {
		return bi.Main.Version
	}
	return "(devel)"
}

// GetGitHash returns VCS revision recorded in build info, shortened to the
// usual 12 characters.
func GetGitHash() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			if len(s.Value) > 12 {
				return s.Value[:12]
			}
			return s.Value
		}
	}
	return "unknown"
}

// GetModulePath returns module path from build info, appName when not built
// from module.
func GetModulePath() string {
	if bi, ok := debug.ReadBuildInfo(); ok && len(bi.Main.Path) > 0 {
		return strings.TrimSuffix(bi.Main.Path, "/")
	}
	return appName
}
