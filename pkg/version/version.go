// Package version reports the rollcall build version.
package version

import (
	"github.com/Masterminds/semver/v3"
)

// Set at build time with -ldflags "-X github.com/rshade/rollcall/pkg/version.version=v1.2.3".
//
//nolint:gochecknoglobals // Overridden by the linker.
var (
	version   = "v0.1.0-dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// GetVersion returns the build version.
func GetVersion() string {
	return version
}

// GetGitCommit returns the commit the binary was built from.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns when the binary was built.
func GetBuildDate() string {
	return buildDate
}

// Parse returns the build version as a semantic version, or an error for
// builds stamped with something else.
func Parse() (*semver.Version, error) {
	return semver.NewVersion(version)
}

// IsDev reports whether this is an unreleased build.
func IsDev() bool {
	v, err := Parse()
	if err != nil {
		return true
	}
	return v.Prerelease() != ""
}
