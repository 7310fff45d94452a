package remote

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestResolveConfigFromReaderAlias ensures ssh_config aliases resolve to
// their HostName, User, Port and IdentityFile.
func TestResolveConfigFromReaderAlias(t *testing.T) {
	t.Parallel()

	sshConfig := strings.NewReader(`
Host web
  HostName example.org
  User deployer
  Port 2222
  IdentityFile /keys/deploy_ed25519
`)

	cfg, err := ResolveConfigFromReader("web", sshConfig)
	require.NoError(t, err)
	require.Equal(t, "example.org", cfg.Host)
	require.Equal(t, "deployer", cfg.User)
	require.Equal(t, "2222", cfg.Port)
	require.Equal(t, "/keys/deploy_ed25519", cfg.IdentityFile)
	require.Equal(t, "example.org:2222", cfg.Addr())
}

// TestResolveConfigFromReaderLiteralHost ensures an unknown alias is
// treated as the hostname itself with default port.
func TestResolveConfigFromReaderLiteralHost(t *testing.T) {
	t.Parallel()

	cfg, err := ResolveConfigFromReader("203.0.113.7", strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, "203.0.113.7", cfg.Host)
	require.Equal(t, "22", cfg.Port)
	require.NotEmpty(t, cfg.User)
}
