// Package version exposes the railseq build version.
package version

import "fmt"

// Version is the railseq release version.
// Overridden at build time via -ldflags "-X .../pkg/version.Version=...".
var Version = "0.1.0-dev"

// Commit is the VCS revision the binary was built from, when known.
var Commit = ""

// String returns the human-readable version, including the commit
// revision when known.
func String() string {
	if Commit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, Commit)
}
