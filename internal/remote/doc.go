// Package remote reaches the target host: it resolves connection
// parameters from ssh_config, dials SSH, uploads the artifact over SFTP
// and streams the fixed backend-swap instruction sequence through one
// interactive shell session, checking each step's exit status before
// sending the next.
package remote
