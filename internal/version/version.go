// Package version holds the application version, overridable at build time.
package version

// Version is set via -ldflags "-X github.com/codingisforpros/wealthtrack/internal/version.Version=..."
var Version = "dev"
