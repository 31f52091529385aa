// Package version holds the build version, overridden at link time.
package version

// Version is set via -ldflags at build time.
var Version = "dev"
