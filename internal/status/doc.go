// Package status renders colored console status lines.
// It is stateless: callers pass the message kind per call,
// there is no process-wide styling to initialize.
package status
