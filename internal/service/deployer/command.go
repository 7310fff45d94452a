package deployer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charlev/mep/internal/config"
	"github.com/charlev/mep/internal/logger"
	"github.com/charlev/mep/internal/remote"
)

// Options contains inputs for the deployment entry point.
// Values left empty fall back to the settings file.
type Options struct {
	// ConfigPath is an optional path to persist deployment defaults
	// (defaults to mep-settings.yaml).
	ConfigPath string
	// LocalPath is the file or directory to deploy.
	LocalPath string
	// Server is the name, IP address or ssh_config alias of the target host.
	Server string
	// ServerPath is the remote directory holding the backend tree.
	ServerPath string
	// RestartServer restarts the web server after the swap.
	RestartServer bool
	// InsecureHostKey disables known_hosts verification.
	InsecureHostKey bool
}

// target is the remote side of a deployment: artifact transfer plus the
// scripted backend swap. *remote.Client satisfies it.
type target interface {
	Upload(ctx context.Context, localPath, remoteDir string) error
	Stream(ctx context.Context, script remote.Script) error
	Close() error
}

// dialFunc opens a connection to the target host.
type dialFunc func(ctx context.Context, cfg remote.Config) (target, error)

// deployer executes one deployment run.
// It is unexported—callers should use Run, which encapsulates setup and validation.
type deployer struct {
	// opts is the validated request.
	opts *Options
	// cfg holds merged settings (file values overridden by flags).
	cfg *config.Config
	// dial opens the remote connection; replaced in tests.
	dial dialFunc
	// markerPath locates the concurrent-run marker file.
	markerPath string
}

// Run executes the deployment workflow.
// The returned error classifies through ClassifyError into the
// process exit code.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "mep")

	d, err := newDeployer(opts)
	if err != nil {
		return err
	}

	if err = d.run(ctx); err != nil {
		return err
	}

	logger.Info(ctx, "Deployment completed successfully")

	return nil
}

// newDeployer merges options with the settings file and validates the
// request before any side effect occurs.
func newDeployer(opts *Options) (*deployer, error) {
	cfg := loadSettings(opts.ConfigPath)
	if opts.Server != "" {
		cfg.Server = opts.Server
	}

	if opts.ServerPath != "" {
		cfg.ServerPath = opts.ServerPath
	}

	if opts.RestartServer {
		cfg.RestartServer = true
	}

	if opts.LocalPath == "" {
		return nil, fmt.Errorf("%w: local path must be provided", ErrInvalidRequest)
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	// The only filesystem check of the validation phase: the source
	// must exist before anything is packaged or transferred.
	if _, err := os.Stat(opts.LocalPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: the path to the local file doesn't exist: %s", ErrLocalIO, opts.LocalPath)
		}

		return nil, fmt.Errorf("%w: stat local path: %w", ErrLocalIO, err)
	}

	return &deployer{
		opts:       opts,
		cfg:        cfg,
		dial:       dialRemote,
		markerPath: defaultMarkerPath(),
	}, nil
}

// loadSettings reads the settings file, tolerating its absence.
func loadSettings(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		return new(config.Config)
	}

	return cfg
}

// dialRemote adapts remote.Dial to the target interface.
func dialRemote(ctx context.Context, cfg remote.Config) (target, error) {
	return remote.Dial(ctx, cfg)
}
