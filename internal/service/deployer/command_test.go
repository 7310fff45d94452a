package deployer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlev/mep/internal/archive"
)

// TestNewDeployerMissingParameters ensures absent required parameters
// are rejected as invalid requests before any filesystem access.
func TestNewDeployerMissingParameters(t *testing.T) {
	t.Parallel()

	cases := map[string]*Options{
		"no local path": {
			ConfigPath: filepath.Join(t.TempDir(), "none.yaml"),
			Server:     "example.org",
			ServerPath: "/srv/www",
		},
		"no server": {
			ConfigPath: filepath.Join(t.TempDir(), "none.yaml"),
			LocalPath:  "site",
			ServerPath: "/srv/www",
		},
		"no server path": {
			ConfigPath: filepath.Join(t.TempDir(), "none.yaml"),
			LocalPath:  "site",
			Server:     "example.org",
		},
	}
	for name, opts := range cases {
		_, err := newDeployer(opts)
		require.ErrorIs(t, err, ErrInvalidRequest, name)
		require.Equal(t, OutcomeInvalidRequest, ClassifyError(err), name)
	}
}

// TestNewDeployerMissingSource ensures a nonexistent source is an I/O
// problem and produces no side effects.
func TestNewDeployerMissingSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	opts := &Options{
		ConfigPath: filepath.Join(dir, "none.yaml"),
		LocalPath:  filepath.Join(dir, "missing"),
		Server:     "example.org",
		ServerPath: "/srv/www",
	}

	_, err := newDeployer(opts)
	require.ErrorIs(t, err, ErrLocalIO)
	require.Equal(t, OutcomeIOError, ClassifyError(err))

	// No artifact was created.
	_, err = os.Stat(filepath.Join(dir, archive.ArtifactName))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestNewDeployerSettingsFallback ensures file values fill parameters
// the flags leave empty.
func TestNewDeployerSettingsFallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "site")
	require.NoError(t, os.MkdirAll(src, 0o755))

	configPath := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(
		"server: example.org\nserver_path: /srv/www\nrestart_server: true\n",
	), 0o600))

	d, err := newDeployer(&Options{
		ConfigPath: configPath,
		LocalPath:  src,
	})
	require.NoError(t, err)
	require.Equal(t, "example.org", d.cfg.Server)
	require.Equal(t, "/srv/www", d.cfg.ServerPath)
	require.True(t, d.cfg.RestartServer)
}
