package cmd

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/scriptbridge/scriptbridge/core/application/validator"
	"github.com/scriptbridge/scriptbridge/core/cli/internal"
	"github.com/scriptbridge/scriptbridge/core/domain"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/logging"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/sessions"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [query-file...]",
	Short: "Validate query files, or a configuration and its snapshot",
	Long: `Validate query JSON files without executing them. Use - to read a query from stdin.
With --file or --snapshot the configuration and snapshot are checked instead.`,
	RunE:          validateCommand,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addConfigFlags(validateCmd)
}

func validateCommand(cmd *cobra.Command, args []string) error {
	log := logging.New("validate")

	if len(args) == 0 && configFile == "" && snapshotFile == "" {
		return logging.Errorf("validate", "nothing to validate: pass query files, --file or --snapshot")
	}

	if configFile != "" || snapshotFile != "" {
		if err := validateSnapshot(log); err != nil {
			return err
		}
	}

	failed := 0
	for _, path := range args {
		q, err := readQueryFile(cmd.InOrStdin(), path)
		if err != nil {
			return err
		}
		result := validator.Validate(q)
		if !result.Valid {
			log.Errorf("Query %s is invalid", path)
			log.PrintValidationErrors(result.Violations)
			failed++
			continue
		}
		log.Successf("Query is valid: %s (%s %s on %s)", path, q.Action, q.SourceType, q.ObjectPath)
	}

	if failed > 0 {
		return logging.Errorf("validate", "validation failed: %d of %d query file(s) invalid", failed, len(args))
	}
	return nil
}

func validateSnapshot(log logging.Logger) error {
	cfg, err := internal.LoadConfig(configFile, snapshotFile)
	if err != nil {
		return err
	}

	file, err := sessions.ReadFile(cfg.Snapshot.File)
	if err != nil {
		return logging.Errorf("validate", "snapshot %s: %w", cfg.Snapshot.File, err)
	}
	manager := sessions.NewManager()
	if err := manager.Load(file); err != nil {
		return logging.Errorf("validate", "snapshot %s: %w", cfg.Snapshot.File, err)
	}

	log.Info("Validation report:")
	if cfg.Path != "" {
		log.Infof("  config: %s", cfg.Path)
	}
	log.Infof("  snapshot: %s", cfg.Snapshot.File)
	for _, id := range manager.IDs() {
		session, _ := manager.Get(id)
		log.Infof("  session %s: %d object(s)", id, len(session.(*sessions.Session).Paths()))
	}
	log.Successf("Configuration is valid: %d session(s)", manager.Count())
	return nil
}

// readQueryFile decodes one query from path, or from stdin when path is "-"
func readQueryFile(stdin io.Reader, path string) (*domain.Query, error) {
	var content []byte
	var err error
	if path == "-" {
		content, err = io.ReadAll(stdin)
	} else {
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, logging.Errorf("cli", "error reading query file: %w", err)
	}

	var q domain.Query
	if err := json.Unmarshal(content, &q); err != nil {
		return nil, logging.Errorf("cli", "query %s is not valid JSON: %w", path, err)
	}
	return &q, nil
}
