package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds deployment defaults persisted between runs.
// Command-line flags override any value loaded from the file.
type Config struct {
	// Server is the name, IP address or ssh_config alias of the target host.
	Server string `yaml:"server"`
	// ServerPath is the remote directory holding the backend tree.
	ServerPath string `yaml:"server_path"`
	// RestartServer restarts the web server after the swap when true.
	RestartServer bool `yaml:"restart_server"`
	// Timeout is the duration for establishing the SSH connection.
	Timeout time.Duration `yaml:"timeout"`
	// IdentityFile is an optional private key path overriding ssh_config.
	IdentityFile string `yaml:"identity_file,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for deployment settings.
	DefaultConfigFilename = "mep-settings.yaml"

	// DefaultTimeout is the default duration for establishing connections.
	DefaultTimeout = 10 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerRequired is returned when the target host is missing.
	errServerRequired = errors.New("server must be provided")
	// errServerPathRequired is returned when the remote directory is missing.
	errServerPathRequired = errors.New("server path must be provided")
	// errServerPathRelative is returned when the remote directory is not absolute.
	errServerPathRelative = errors.New("server path must be absolute")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(filename string) (*Config, error) {
	if filename == "" {
		filename = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(filename))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(filename string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if filename == "" {
		filename = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(filename), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Server == "" {
		return errServerRequired
	}

	if cfg.ServerPath == "" {
		return errServerPathRequired
	}

	// Remote paths are POSIX regardless of the local platform.
	if !path.IsAbs(cfg.ServerPath) {
		return errServerPathRelative
	}

	// Set default timeout if not specified.
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return nil
}
