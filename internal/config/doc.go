// Package config persists deployment defaults (target host, remote backend
// directory, connection timeout) as a small YAML file so repeated runs
// against the same host can omit the connection flags.
package config
