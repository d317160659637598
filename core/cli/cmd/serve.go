package cmd

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scriptbridge/scriptbridge/core/cli/internal"
	"github.com/scriptbridge/scriptbridge/core/config"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/logging"
	"github.com/scriptbridge/scriptbridge/core/runtime"
)

// serveCmd serves the query API over the configured snapshot
var serveCmd = &cobra.Command{
	Use:           "serve [config-file]",
	Short:         "Serve the query API",
	Long:          `Serve the query HTTP and MCP API over the sessions of a snapshot file.`,
	RunE:          serve,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	addConfigFlags(serveCmd)
	addLoggingFlags(serveCmd)
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Server port (overrides config file and PORT env var)")
}

func serve(cmd *cobra.Command, args []string) error {
	if err := resolveConfigArg(args); err != nil {
		return err
	}

	if err := setupLogging(); err != nil {
		return err
	}
	defer logging.CloseLogFile()

	rt, err := PrepareRuntime(cmd.Context())
	if err != nil {
		return err
	}
	return rt.Start()
}

// setupLogging applies the logging flags. The config file level is applied
// later by PrepareRuntime, once the file is read.
func setupLogging() error {
	return internal.ConfigureLogging(internal.ResolveLogLevel(verbose, logLevel, nil), logTags, logFile)
}

// resolveConfigArg accepts the config file as a positional argument
func resolveConfigArg(args []string) error {
	if len(args) == 0 {
		return nil
	}
	if configFile != "" {
		return logging.Errorf("cli", "cannot combine path argument with --file")
	}
	configFile = args[0]
	return nil
}

// PrepareRuntime loads configuration and builds the runtime from the
// current flags
func PrepareRuntime(ctx context.Context) (*runtime.Runtime, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	envDir := ""
	if configFile != "" {
		envDir = filepath.Dir(configFile)
	}
	LoadEnvFiles(envDir)

	cfg, err := internal.LoadConfig(configFile, snapshotFile)
	if err != nil {
		return nil, err
	}
	logging.SetLogLevel(internal.ResolveLogLevel(verbose, logLevel, cfg))

	log := logging.New("main")
	if cfg.Path != "" {
		log.Infof("Configuration loaded from %s", cfg.Path)
	}

	rt, err := runtime.NewRuntime(ctx, cfg, config.ResolvePort(port, cfg), GetVersion())
	if err != nil {
		return nil, err
	}
	log.Infof("Runtime initialized")
	return rt, nil
}
