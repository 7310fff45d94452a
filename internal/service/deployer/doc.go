// Package deployer orchestrates one deployment run: it validates the
// request, packages the source, transfers the artifact and streams the
// backend-swap sequence to the target host, mapping every failure to a
// small closed set of outcomes used as process exit codes.
package deployer
