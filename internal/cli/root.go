// Package cli implements the kyrisk command line: offline access to the
// risk and triage engines for batch jobs and ruleset authoring.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/DukeRupert/kyrisk/internal"
	"github.com/DukeRupert/kyrisk/internal/ruleset"
)

var (
	rulesetPath string
	logLevel    string
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "kyrisk",
		Short:         "KY risk scoring and hazard-text triage",
		Long:          "Scores KY sheet hazards against the day's conditions and triages freeform hazard text,\nusing the same ruleset as the API server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&rulesetPath, "ruleset", os.Getenv("RULESET_PATH"), "Ruleset YAML file (default: built-in tables)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newScoreCmd(), newTriageCmd(), newGenerateCmd(), newTablesCmd())
	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	return internal.NewLogger(cmd.ErrOrStderr(), "production", logLevel)
}

func loadStore(cmd *cobra.Command) (*ruleset.Store, error) {
	store, err := ruleset.NewStore(rulesetPath, newLogger(cmd))
	if err != nil {
		return nil, fmt.Errorf("load ruleset: %w", err)
	}
	return store, nil
}

// readInput reads a file argument; "-" reads stdin.
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
