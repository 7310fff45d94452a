package remote

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/kevinburke/ssh_config"
)

// Config holds the parameters required to reach the target host.
type Config struct {
	// Host is the hostname or IP address to dial.
	Host string
	// Port is the SSH port (default 22).
	Port string
	// User is the login name.
	User string
	// IdentityFile is an optional private key path.
	IdentityFile string
	// Timeout bounds connection establishment.
	Timeout time.Duration
	// InsecureHostKey disables known_hosts verification. Testing only.
	InsecureHostKey bool
}

const defaultPort = "22"

// ResolveConfig resolves the server argument against ~/.ssh/config:
// the value may be an alias whose HostName, User, Port and IdentityFile
// are taken from the file. A missing config file is not an error; the
// value is then used as the literal hostname.
func ResolveConfig(server string) (Config, error) {
	f, err := os.Open(filepath.Join(os.Getenv("HOME"), ".ssh", "config"))
	if err != nil {
		return fillDefaults(Config{Host: server}), nil //nolint:nilerr // Absent config means literal hostname.
	}

	defer func() {
		_ = f.Close()
	}()

	return ResolveConfigFromReader(server, f)
}

// ResolveConfigFromReader resolves the server argument against ssh_config
// data read from r.
func ResolveConfigFromReader(server string, r io.Reader) (Config, error) {
	cfg, err := ssh_config.Decode(r)
	if err != nil {
		return Config{}, fmt.Errorf("parse ssh config: %w", err)
	}

	host, _ := cfg.Get(server, "HostName")
	if host == "" {
		// No HostName entry: the argument is the hostname itself.
		host = server
	}

	username, _ := cfg.Get(server, "User")
	port, _ := cfg.Get(server, "Port")

	identityFile, _ := cfg.Get(server, "IdentityFile")
	identityFile = expandHome(identityFile)

	return fillDefaults(Config{
		Host:         host,
		Port:         port,
		User:         username,
		IdentityFile: identityFile,
	}), nil
}

// fillDefaults completes zero-valued connection fields.
func fillDefaults(cfg Config) Config {
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	if cfg.User == "" {
		if u, err := user.Current(); err == nil {
			cfg.User = u.Username
		}
	}

	return cfg
}

// expandHome resolves a leading ~/ against the home directory.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(os.Getenv("HOME"), path[2:])
	}

	return path
}

// Addr returns the host:port dial address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
