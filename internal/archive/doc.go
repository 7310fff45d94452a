// Package archive packages a local file or directory into the single
// tar.bz2 artifact shipped to the target host. The archive's sole
// top-level entry carries a fixed name so the remote rename step can
// predict the extracted directory without reading remote output.
package archive
