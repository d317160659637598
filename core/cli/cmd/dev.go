package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/scriptbridge/scriptbridge/core/infrastructure/logging"
)

var devCmd = &cobra.Command{
	Use:   "dev [config-file]",
	Short: "Run the server in development mode",
	Long: `Run the server with snapshot hot reload, and restart it when the config file changes.
The log level defaults to DEBUG.`,
	RunE:          runDevServer,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(devCmd)

	addConfigFlags(devCmd)
	addLoggingFlags(devCmd)
	devCmd.Flags().StringVarP(&port, "port", "p", "", "Server port (overrides config file and PORT env var)")
}

func runDevServer(cmd *cobra.Command, args []string) error {
	if err := resolveConfigArg(args); err != nil {
		return err
	}
	if logLevel == 0 {
		verbose = true
	}
	if err := setupLogging(); err != nil {
		return err
	}
	defer logging.CloseLogFile()

	log := logging.New("dev")
	restart := make(chan struct{}, 1)

	if configFile != "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer watcher.Close()

		if err := watcher.Add(configFile); err != nil {
			return logging.Errorf("dev", "cannot watch %s: %w", configFile, err)
		}
		go watchConfig(watcher, restart)
		log.Infof("Watching %s for changes...", configFile)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	for {
		rt, err := PrepareRuntime(cmd.Context())
		if err != nil {
			return err
		}
		rt.EnableSnapshotWatch()

		if err := rt.StartAsync(); err != nil {
			return err
		}

		select {
		case <-sigChan:
			return rt.Stop()
		case <-restart:
			log.Infof("Config changed, restarting...")
			if err := rt.Stop(); err != nil {
				log.Warnf("Stop before restart: %v", err)
			}
		}
	}
}

// watchConfig signals restart once writes to the config file settle
func watchConfig(watcher *fsnotify.Watcher, restart chan<- struct{}) {
	var debounce *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, func() {
					select {
					case restart <- struct{}{}:
					default:
					}
				})
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.New("dev").Warnf("Watcher error: %v", err)
		}
	}
}
