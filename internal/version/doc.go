// Package version exposes build metadata injected at link time
// and a cobra subcommand for printing it.
package version
