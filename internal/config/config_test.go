package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields and format validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing server.
	cfg := new(Config)

	err := Validate(cfg)
	require.Error(t, err)

	// Missing remote directory.
	cfg = &Config{
		Server: "example.org",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Relative remote directory.
	cfg = &Config{
		Server:     "example.org",
		ServerPath: "srv/www",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Okay; default timeout applied.
	cfg = &Config{
		Server:     "example.org",
		ServerPath: "/srv/www",
	}

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		Server:        "example.org",
		ServerPath:    "/srv/www",
		RestartServer: true,
		Timeout:       3 * time.Second,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Server, loaded.Server)
	require.Equal(t, cfg.ServerPath, loaded.ServerPath)
	require.True(t, loaded.RestartServer)
	require.Equal(t, cfg.Timeout, loaded.Timeout)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestSaveNilConfig ensures a nil configuration is rejected.
func TestSaveNilConfig(t *testing.T) {
	t.Parallel()

	require.Error(t, Save(filepath.Join(t.TempDir(), "settings.yaml"), nil))
}
