package cli

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/DukeRupert/kyrisk/internal/domain"
	"github.com/DukeRupert/kyrisk/internal/service"
)

// scoreInput is the file format read by `kyrisk score`.
type scoreInput struct {
	Candidates []domain.HazardCandidate `json:"candidates"`
	Context    struct {
		ThirdParty      string                     `json:"third_party"`
		WorkerCount     *int                       `json:"worker_count"`
		Weather         *domain.WeatherObservation `json:"weather"`
		PhotoScore      *float64                   `json:"photo_score"`
		WorkDescription string                     `json:"work_description"`
	} `json:"context"`
}

func newScoreCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "score -f candidates.json",
		Short: "Score hazard candidates",
		Long:  "Reads {candidates, context} JSON and prints the scored hazards, highest risk first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			var in scoreInput
			if err := json.Unmarshal(data, &in); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}

			store, err := loadStore(cmd)
			if err != nil {
				return err
			}
			svc := service.NewRiskService(store, nil, newLogger(cmd))
			res, err := svc.Score(context.Background(), domain.ScoreParams{
				Candidates: in.Candidates,
				Context: domain.RiskContext{
					ThirdParty:      in.Context.ThirdParty,
					WorkerCount:     in.Context.WorkerCount,
					Weather:         in.Context.Weather,
					PhotoScore:      in.Context.PhotoScore,
					WorkDescription: in.Context.WorkDescription,
				},
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd, res)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "Input JSON file (- for stdin)")
	return cmd
}
