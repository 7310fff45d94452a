package remote

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/charlev/mep/internal/logger"
)

// Client owns the SSH connection to the target host for one run.
type Client struct {
	cfg  Config
	conn *ssh.Client
}

// Dial establishes the SSH connection described by cfg.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	hostKeyCallback, err := hostKeyCheck(cfg)
	if err != nil {
		return nil, err
	}

	clientConfig := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            authMethods(ctx, cfg),
		HostKeyCallback: hostKeyCallback,
		Timeout:         cfg.Timeout,
	}

	conn, err := ssh.Dial("tcp", cfg.Addr(), clientConfig)
	if err != nil {
		return nil, fmt.Errorf("dial ssh at %s: %w", cfg.Addr(), err)
	}

	return &Client{cfg: cfg, conn: conn}, nil
}

// Close tears down the SSH connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Upload copies the local file to remoteDir on the host over SFTP,
// keeping the local basename. The transfer's outcome is authoritative:
// any error aborts the deployment.
func (c *Client) Upload(ctx context.Context, localPath, remoteDir string) error {
	remotePath := path.Join(remoteDir, filepath.Base(localPath))
	logger.InfoKV(ctx, "Uploading artifact", "local", localPath, "remote", remotePath)

	sftpClient, err := sftp.NewClient(c.conn)
	if err != nil {
		return fmt.Errorf("create sftp client: %w", err)
	}

	defer func() {
		_ = sftpClient.Close()
	}()

	src, err := os.Open(filepath.Clean(localPath))
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}

	defer func() {
		_ = src.Close()
	}()

	dst, err := sftpClient.Create(remotePath)
	if err != nil {
		return fmt.Errorf("create remote file %s: %w", remotePath, err)
	}

	if _, err = io.Copy(dst, src); err != nil {
		_ = dst.Close()

		return fmt.Errorf("copy artifact to %s: %w", remotePath, err)
	}

	if err = dst.Close(); err != nil {
		return fmt.Errorf("finalize remote file %s: %w", remotePath, err)
	}

	return nil
}

// authMethods assembles the authentication chain:
// ssh-agent, then the configured identity file, then default key files.
func authMethods(ctx context.Context, cfg Config) []ssh.AuthMethod {
	var methods []ssh.AuthMethod

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			if signers, err := agent.NewClient(conn).Signers(); err == nil && len(signers) > 0 {
				methods = append(methods, ssh.PublicKeys(signers...))
			}
		}
	}

	keyFiles := make([]string, 0, 4)
	if cfg.IdentityFile != "" {
		keyFiles = append(keyFiles, cfg.IdentityFile)
	}

	home := os.Getenv("HOME")
	for _, name := range []string{"id_rsa", "id_ed25519", "id_ecdsa"} {
		keyFiles = append(keyFiles, filepath.Join(home, ".ssh", name))
	}

	for _, keyFile := range keyFiles {
		keyBytes, err := os.ReadFile(filepath.Clean(keyFile))
		if err != nil {
			continue
		}

		signer, err := ssh.ParsePrivateKey(keyBytes)
		if err != nil {
			logger.DebugKV(ctx, "Skipping unparsable private key", "path", keyFile, "error", err)
			continue
		}

		methods = append(methods, ssh.PublicKeys(signer))
	}

	return methods
}

// hostKeyCheck returns the host key verification callback:
// known_hosts by default, or none when explicitly disabled.
func hostKeyCheck(cfg Config) (ssh.HostKeyCallback, error) {
	if cfg.InsecureHostKey {
		return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec // Explicit opt-in via flag.
	}

	callback, err := knownhosts.New(filepath.Join(os.Getenv("HOME"), ".ssh", "known_hosts"))
	if err != nil {
		return nil, fmt.Errorf("load known_hosts: %w", err)
	}

	return callback, nil
}
