package deployer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/charlev/mep/internal/logger"
)

const (
	// markerFilename flags that a deployment is running right now,
	// guarding against two runs racing on the same backend directory.
	markerFilename = "mep-deploy-marker.bin"

	// markerLifetime is the period after which a marker without a live
	// deployer process behind it is considered stale and removed.
	markerLifetime = 30 * time.Minute

	// processName is the deployer executable's base name, matched when
	// deciding whether a stale marker still has a live owner.
	processName = "mep"
)

// errDeploymentRunning indicates another deployment is already in progress.
var errDeploymentRunning = fmt.Errorf("%w: another deployment is running now", ErrInvalidRequest)

// acquireDeployMarker writes the run marker and returns a release
// function removing it. It fails when a fresh marker (or a stale one
// backed by a live deployer process) already exists.
func acquireDeployMarker(ctx context.Context, markerPath string) (func(), error) {
	if isDeploymentRunningNow(ctx, markerPath) {
		return nil, errDeploymentRunning
	}

	contents := []byte(strconv.Itoa(os.Getpid()))
	if err := os.WriteFile(markerPath, contents, 0o600); err != nil {
		return nil, fmt.Errorf("%w: write deploy marker: %w", ErrLocalIO, err)
	}

	release := func() {
		if err := os.Remove(markerPath); err != nil {
			logger.WarnKV(ctx, "Unable to remove deploy marker", "path", markerPath, "error", err)
		}
	}

	return release, nil
}

// isDeploymentRunningNow checks presence of the marker and attempts
// recovery when it looks stale.
func isDeploymentRunningNow(ctx context.Context, markerPath string) bool {
	fileInfo, err := os.Stat(markerPath)
	if err == nil {
		if time.Since(fileInfo.ModTime()) <= markerLifetime {
			return true
		}

		logger.Info(ctx, "The deploy marker is too old, checking for a live deployment")

		if hasLiveDeployerProcess() {
			return true
		}

		if err = os.Remove(markerPath); err != nil {
			return true
		}

		return false
	}

	if errors.Is(err, os.ErrNotExist) {
		return false
	}

	logger.Infof(ctx, "Unable to read deploy marker: %v", err)

	return false
}

// hasLiveDeployerProcess reports whether another deployer process is running.
func hasLiveDeployerProcess() bool {
	processes, err := ps.Processes()
	if err != nil {
		// Can't prove the marker is orphaned, assume it isn't.
		return true
	}

	for _, p := range processes {
		if p.Pid() == os.Getpid() {
			continue
		}

		name := p.Executable()
		if name == processName || name == processName+".exe" {
			return true
		}
	}

	return false
}

// defaultMarkerPath places the marker in the system temp directory so
// runs started from different working directories still see each other.
func defaultMarkerPath() string {
	return filepath.Join(os.TempDir(), markerFilename)
}
