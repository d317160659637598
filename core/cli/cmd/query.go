package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/scriptbridge/scriptbridge/core/cli/internal"
	"github.com/scriptbridge/scriptbridge/core/domain/interfaces"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/di"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/logging"
)

var (
	querySession string
	queryFirst   bool
	queryLast    bool
	queryCount   bool
)

// queryCmd runs one query against the snapshot without starting a server
var queryCmd = &cobra.Command{
	Use:   "query <query-file>",
	Short: "Run a query against a snapshot and print the result",
	Long: `Run a query JSON file against a session of the snapshot and print the result as JSON.
Use - to read the query from stdin. Logs go to stderr.`,
	RunE:          runQuery,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	addConfigFlags(queryCmd)
	queryCmd.Flags().StringVar(&querySession, "session", "", "Session ID (default: the snapshot's default session)")
	queryCmd.Flags().BoolVar(&queryFirst, "first", false, "Print only the first match")
	queryCmd.Flags().BoolVar(&queryLast, "last", false, "Print only the last match")
	queryCmd.Flags().BoolVar(&queryCount, "count", false, "Print only the number of matches")
	queryCmd.MarkFlagsMutuallyExclusive("first", "last", "count")
	queryCmd.Flags().IntVar(&logLevel, "log-level", 0, "Log level: 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG")
}

func runQuery(cmd *cobra.Command, args []string) error {
	logging.SetOutput(os.Stderr)
	level := logLevel
	if level == 0 {
		level = logging.LogLevelWarn
	}
	logging.SetLogLevel(level)

	q, err := readQueryFile(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	cfg, err := internal.LoadConfig(configFile, snapshotFile)
	if err != nil {
		return err
	}
	container, err := di.NewContainer(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	session, err := resolveSession(container.Sessions, querySession)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var out any
	switch {
	case queryFirst:
		out = container.Engine.FindFirst(ctx, session, q)
	case queryLast:
		out = container.Engine.FindLast(ctx, session, q)
	case queryCount:
		out = map[string]int{"count": container.Engine.Count(ctx, session, q)}
	default:
		result := container.Engine.Execute(ctx, session, q)
		if err := writeJSON(cmd, result); err != nil {
			return err
		}
		if !result.Success {
			return logging.Errorf("query", "%s: %s", result.ErrorCode, result.Error)
		}
		return nil
	}
	return writeJSON(cmd, out)
}

func resolveSession(manager interfaces.SessionManager, id string) (interfaces.Session, error) {
	if id == "" {
		session, ok := manager.Default()
		if !ok {
			return nil, logging.Errorf("query", "snapshot has no sessions")
		}
		return session, nil
	}
	session, ok := manager.Get(id)
	if !ok {
		return nil, logging.Errorf("query", "session %s not found (available: %v)", id, manager.IDs())
	}
	return session, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
