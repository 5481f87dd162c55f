// Package version contains build version information.
package version

// These values are set at build time via ldflags, for example
// -X github.com/thiagoblake/Sistema-SobreAviso/internal/version.Version=1.2.0.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)
