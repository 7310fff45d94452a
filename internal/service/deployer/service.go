package deployer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charlev/mep/internal/archive"
	"github.com/charlev/mep/internal/config"
	"github.com/charlev/mep/internal/logger"
	"github.com/charlev/mep/internal/remote"
	"github.com/charlev/mep/internal/status"
)

// run drives the pipeline: guard → package → connect → transfer →
// remote swap → cleanup. Stages fail fast; a failure after packaging
// retains the artifact on disk for diagnosis.
func (d *deployer) run(ctx context.Context) error {
	release, err := acquireDeployMarker(ctx, d.markerPath)
	if err != nil {
		return err
	}
	defer release()

	status.Printf(status.Plain, "Compressing %s...", d.opts.LocalPath)

	artifactPath, err := archive.Compress(ctx, d.opts.LocalPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLocalIO, err)
	}

	status.Printf(status.Success, "OK!")

	if err = d.runRemote(ctx, artifactPath); err != nil {
		// Keep the shipped bytes around: a half-applied remote state is
		// easier to repair with the exact artifact still on disk.
		logger.WarnKV(ctx, "Keeping local artifact for diagnosis", "path", artifactPath)

		return err
	}

	if err = os.Remove(artifactPath); err != nil {
		return fmt.Errorf("%w: remove local artifact: %w", ErrLocalIO, err)
	}

	d.saveSettings(ctx)
	status.Printf(status.Success, "New deployment done!")

	return nil
}

// runRemote performs the network half of the pipeline over one connection.
func (d *deployer) runRemote(ctx context.Context, artifactPath string) error {
	status.Printf(status.Plain, "Connecting to %s...", d.cfg.Server)

	remoteCfg, err := remote.ResolveConfig(d.cfg.Server)
	if err != nil {
		return err
	}

	remoteCfg.Timeout = d.cfg.Timeout
	remoteCfg.InsecureHostKey = d.opts.InsecureHostKey

	if d.cfg.IdentityFile != "" {
		remoteCfg.IdentityFile = d.cfg.IdentityFile
	}

	conn, err := d.dial(ctx, remoteCfg)
	if err != nil {
		return err
	}

	defer func() {
		_ = conn.Close()
	}()

	status.Printf(status.Success, "OK!")
	status.Printf(status.Plain, "Copying artifact to the server...")

	if err = conn.Upload(ctx, artifactPath, d.cfg.ServerPath); err != nil {
		return err
	}

	status.Printf(status.Success, "OK!")
	status.Printf(status.Plain, "Swapping the backend...")

	script := remote.BuildScript(
		d.cfg.ServerPath,
		filepath.Base(artifactPath),
		d.cfg.RestartServer,
		time.Now(),
	)

	if err = conn.Stream(ctx, script); err != nil {
		return err
	}

	status.Printf(status.Success, "OK!")

	return nil
}

// saveSettings persists the merged settings so the next run can omit
// the connection flags. Best-effort.
func (d *deployer) saveSettings(ctx context.Context) {
	if err := config.Save(d.opts.ConfigPath, d.cfg); err != nil {
		logger.WarnKV(ctx, "Unable to save settings", "error", err)
	}
}
