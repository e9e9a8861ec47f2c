// Package version reports the build stamped in by the linker:
//
//	go build -ldflags "-X github.com/kailas-cloud/securephotos/internal/version.Version=v1.2.0 ..."
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the build for logs and -version flags.
func String() string {
	commit := Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	return fmt.Sprintf("%s (commit %s, built %s)", Version, commit, Date)
}
