package internal

import (
	"os"

	"github.com/scriptbridge/scriptbridge/core/config"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/logging"
)

// DefaultConfigFile is read when neither a config file nor a snapshot is given
const DefaultConfigFile = "scriptbridge.yaml"

// LoadConfig resolves the configuration from a config file, a snapshot file,
// or both. A snapshot path given on the command line overrides the one in
// the config file.
func LoadConfig(configPath, snapshotPath string) (*config.Config, error) {
	if configPath == "" && snapshotPath == "" {
		if _, err := os.Stat(DefaultConfigFile); err != nil {
			return nil, logging.Errorf("config", "no configuration: pass a config file with --file or a snapshot with --snapshot")
		}
		configPath = DefaultConfigFile
	}

	cfg := config.ForSnapshot(snapshotPath)
	if configPath != "" {
		loaded, err := config.Read(configPath)
		if err != nil {
			return nil, logging.WithTag("config", err)
		}
		cfg = loaded
	}

	if snapshotPath != "" {
		cfg.Snapshot.File = snapshotPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, logging.WithTag("config", err)
	}
	return cfg, nil
}

// ResolveLogLevel resolves the log level from verbose flag, CLI flag, config file, or default
func ResolveLogLevel(verbose bool, cliLogLevel int, cfg *config.Config) int {
	if verbose {
		return logging.LogLevelDebug
	}
	if cliLogLevel > 0 {
		return cliLogLevel
	}
	if cfg != nil && cfg.Server.LogLevel > 0 {
		return cfg.Server.LogLevel
	}
	return logging.LogLevelInfo
}

// ConfigureLogging applies the level, tag filter and log file settings.
// An empty tag filter falls back to SCRIPTBRIDGE_LOG_TAGS.
func ConfigureLogging(level int, tags string, toFile bool) error {
	logging.SetLogLevel(level)

	if tags == "" {
		tags = os.Getenv("SCRIPTBRIDGE_LOG_TAGS")
	}
	if tags != "" {
		logging.SetTagFilter(tags)
	}

	if toFile {
		path, err := logging.SetLogFile()
		if err != nil {
			return logging.Errorf("cli", "failed to initialize log file: %w", err)
		}
		logging.New("cli").Infof("Log file: %s", path)
	}
	return nil
}
