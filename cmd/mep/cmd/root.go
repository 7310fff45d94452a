package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/charlev/mep/internal/config"
	"github.com/charlev/mep/internal/logger"
	"github.com/charlev/mep/internal/service/deployer"
	"github.com/charlev/mep/internal/status"
	"github.com/charlev/mep/internal/version"
)

var (
	// configPath to the settings YAML file.
	configPath string
	// localPath is the file or directory to deploy.
	localPath string
	// server is the target host name, address or ssh_config alias.
	server string
	// serverPath is the remote directory holding the backend tree.
	serverPath string
	// restartServer restarts the web server after the swap.
	restartServer bool
	// insecureHostKey disables known_hosts verification.
	insecureHostKey bool
	// verbose enables debug logging.
	verbose bool

	// requestParsed flips once flag parsing succeeded, separating
	// invalid invocations from failures of the run itself.
	requestParsed bool

	// rootCmd represents the base command performing one deployment.
	rootCmd = &cobra.Command{
		Use:   "mep",
		Short: "Deploy a file or directory to a server over SSH",
		Long: "mep packages a local file or directory, copies it to a remote host " +
			"and swaps the backend directory there in one scripted SSH session, " +
			"archiving the previous backend under a dated name. " +
			"It can restart the web server afterwards.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			requestParsed = true

			if verbose {
				logger.SetLevel(zapcore.DebugLevel)
			}

			// Graceful shutdown handling; honored only until the remote
			// session opens.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &deployer.Options{
				ConfigPath:      configPath,
				LocalPath:       localPath,
				Server:          server,
				ServerPath:      serverPath,
				RestartServer:   restartServer,
				InsecureHostKey: insecureHostKey,
			}

			return deployer.Run(ctx, options)
		},
	}
)

// Execute runs the mep CLI and exits with the run's outcome code.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	err := rootCmd.Execute()
	if err == nil {
		status.Printf(status.Success, "Exited without errors.")
		return
	}

	outcome := deployer.ClassifyError(err)
	if !requestParsed {
		// The pipeline never started: the invocation itself was wrong.
		outcome = deployer.OutcomeInvalidRequest
	}

	status.Printf(status.Failure, "%v", err)
	status.Printf(status.Failure, "Exited with %s.", outcome)
	os.Exit(outcome.Code())
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to settings file")
	rootCmd.Flags().StringVarP(&localPath, "local-path", "l", "", "path to the file or directory to send")
	rootCmd.Flags().StringVarP(&server, "server", "s", "", "name or IP address of the server")
	rootCmd.Flags().StringVarP(&serverPath, "server-path", "d", "", "path on the server to store the content")
	rootCmd.Flags().BoolVarP(&restartServer, "restart-server", "a", false, "restart the web server after the swap")
	rootCmd.Flags().BoolVar(&insecureHostKey, "insecure-host-key", false, "skip known_hosts verification")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug logging")
}
