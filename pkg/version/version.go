// Package version exposes build metadata stamped in at link time.
package version

import "fmt"

// Populated via -ldflags at release build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the full version line.
func String() string {
	return fmt.Sprintf("couplint %s (commit: %s, built: %s)", Version, Commit, Date)
}
