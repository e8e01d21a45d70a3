package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/DukeRupert/kyrisk/internal/ai/mock"
	"github.com/DukeRupert/kyrisk/internal/domain"
	"github.com/DukeRupert/kyrisk/internal/service"
)

func newTriageCmd() *cobra.Command {
	var (
		rawFile      string
		baselineFile string
		limit        int
		threshold    float64
		keywords     []string
	)

	cmd := &cobra.Command{
		Use:   "triage --raw a.txt [--baseline b.txt]",
		Short: "Deduplicate and rank candidate hazard lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, rawFile)
			if err != nil {
				return err
			}
			baseline, err := readInput(cmd, baselineFile)
			if err != nil {
				return err
			}

			store, err := loadStore(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cmd)
			svc := service.NewKYService(store, mock.New(logger), logger)

			params := domain.TriageParams{
				RawText:           string(raw),
				BaselineText:      string(baseline),
				AlignmentKeywords: keywords,
			}
			if cmd.Flags().Changed("limit") {
				params.Limit = &limit
			}
			if cmd.Flags().Changed("threshold") {
				params.Threshold = &threshold
			}

			res, err := svc.Triage(context.Background(), params)
			if err != nil {
				return err
			}
			return writeJSON(cmd, res)
		},
	}
	cmd.Flags().StringVar(&rawFile, "raw", "-", "Candidate text file (- for stdin)")
	cmd.Flags().StringVar(&baselineFile, "baseline", "", "Baseline text file")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum lines to keep (default: ruleset limit)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Duplicate similarity threshold in (0,1] (default: ruleset threshold)")
	cmd.Flags().StringSliceVar(&keywords, "align", nil, "Alignment keywords")
	return cmd
}
