package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DukeRupert/kyrisk/internal/domain"
	"github.com/DukeRupert/kyrisk/internal/triage"
)

func newGenerateCmd() *cobra.Command {
	var (
		work                string
		hazards             string
		countermeasures     string
		thirdParty          string
		baseHazards         string
		baseCountermeasures string
		baseThirdParty      string
		limit               int
	)

	cmd := &cobra.Command{
		Use:   "generate --work \"...\" --hazards h.txt --countermeasures c.txt",
		Short: "Run the generation pipeline over already-drafted text",
		Long: "Triages drafted hazards, countermeasures and third-party measures against the\n" +
			"baseline and completes short lists from the ruleset templates. No AI call is made.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(work) == "" {
				return fmt.Errorf("--work is required")
			}
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}

			var suggested, baseline domain.KYText
			for _, f := range []struct {
				path string
				dst  *string
			}{
				{hazards, &suggested.Hazards},
				{countermeasures, &suggested.Countermeasures},
				{thirdParty, &suggested.ThirdParty},
				{baseHazards, &baseline.Hazards},
				{baseCountermeasures, &baseline.Countermeasures},
				{baseThirdParty, &baseline.ThirdParty},
			} {
				data, err := readInput(cmd, f.path)
				if err != nil {
					return err
				}
				*f.dst = string(data)
			}

			store, err := loadStore(cmd)
			if err != nil {
				return err
			}
			cfg := store.Current().Ruleset.Triage
			if !cmd.Flags().Changed("limit") {
				limit = cfg.Limit
			}

			res, _ := triage.Generate(domain.GenerateParams{
				WorkDescription: work,
				Suggested:       suggested,
				Baseline:        baseline,
				Limit:           limit,
				Threshold:       cfg.Threshold,
			}, cfg)
			return writeJSON(cmd, res)
		},
	}
	cmd.Flags().StringVar(&work, "work", "", "Work description")
	cmd.Flags().StringVar(&hazards, "hazards", "", "Drafted hazards file")
	cmd.Flags().StringVar(&countermeasures, "countermeasures", "", "Drafted countermeasures file")
	cmd.Flags().StringVar(&thirdParty, "third-party", "", "Drafted third-party measures file")
	cmd.Flags().StringVar(&baseHazards, "baseline-hazards", "", "Human-written hazards file")
	cmd.Flags().StringVar(&baseCountermeasures, "baseline-countermeasures", "", "Human-written countermeasures file")
	cmd.Flags().StringVar(&baseThirdParty, "baseline-third-party", "", "Human-written third-party measures file")
	cmd.Flags().IntVar(&limit, "limit", 0, "Lines per list (default: ruleset limit)")
	return cmd
}
