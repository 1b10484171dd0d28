package main

import (
	"fmt"

	"github.com/rankllms/rankllms/internal/bradleyterry"
	"github.com/rankllms/rankllms/internal/reporting"
	"github.com/spf13/cobra"
)

func newRankCommand() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "rank [model ...]",
		Short: "Rank models with the Bradley-Terry estimator",
		Long: `Fit a Bradley-Terry model over the archived comparisons and print the
resulting strength ranking. Without arguments every model in the archive is
included; otherwise only the named models are.

Unlike 'direct', this works with incomplete data: strengths are estimated
from whatever head-to-head results exist.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := resolveArchive(cmd)
			if err != nil {
				return err
			}
			corpus, err := loadCorpus(store)
			if err != nil {
				return err
			}

			subset := args
			if len(subset) == 0 {
				subset = corpus.Models()
			}
			if len(subset) < 2 {
				return fmt.Errorf("need at least 2 models to rank, have %d", len(subset))
			}

			model := bradleyterry.New()
			model.Fit(corpus.BuildMatrix(subset))

			rankings, err := model.Rankings()
			if err != nil {
				return err
			}

			rows := make([]scoreRow, len(rankings))
			for i, s := range rankings {
				rows[i] = scoreRow{Model: s.Model, Score: s.Strength * 100}
			}
			printScoreTable(cmd.OutOrStdout(), "Bradley-Terry rankings", "Strength", "%.2f", rows)

			if outputPath != "" {
				report, err := reporting.BradleyTerryReport(model)
				if err != nil {
					return err
				}
				return writeReport(outputPath, report)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the full report as markdown to this file")

	return cmd
}
