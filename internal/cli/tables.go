package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Print the effective ruleset as YAML",
		Long:  "Prints the ruleset after overlaying --ruleset on the built-in tables, with its content hash.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(cmd)
			if err != nil {
				return err
			}
			snap := store.Current()
			out, err := snap.Ruleset.Marshal()
			if err != nil {
				return fmt.Errorf("render ruleset: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# hash: %s\n%s", snap.Hash, out)
			return nil
		},
	}
}
