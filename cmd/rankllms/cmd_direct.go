package main

import (
	"fmt"

	"github.com/rankllms/rankllms/internal/direct"
	"github.com/rankllms/rankllms/internal/reporting"
	"github.com/spf13/cobra"
)

func newDirectCommand() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "direct <model> <model> [model ...]",
		Short: "Rank models from direct head-to-head results only",
		Long: `Rank the named models purely from observed head-to-head win rates, with
no rating model in between.

This requires a stored comparison for every pair. If any pair is missing the
ranking is withheld and the missing comparisons are listed instead; the
command then exits with code 1.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ps, err := resolveArchive(cmd)
			if err != nil {
				return err
			}

			ranking := direct.New()
			complete, err := ranking.ComputeRankings(args, store)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !complete {
				for _, req := range ranking.MissingComparisonRequests(ps) {
					fmt.Fprintf(out, "missing: %s vs %s\n", req.ModelA, req.ModelB)
				}
				if outputPath != "" {
					if err := writeReport(outputPath, reporting.MissingComparisons(ranking, ps)); err != nil {
						return err
					}
				}
				return &IncompleteDataError{
					Message: fmt.Sprintf("%d comparisons missing, ranking withheld", len(ranking.MissingComparisons())),
				}
			}

			rankings, err := ranking.Rankings()
			if err != nil {
				return err
			}
			rows := make([]scoreRow, len(rankings))
			for i, s := range rankings {
				rows[i] = scoreRow{Model: s.Model, Score: s.Score}
			}
			printScoreTable(out, "Direct comparison rankings", "Avg Win Rate", "%.3f", rows)

			if outputPath != "" {
				report, err := reporting.DirectReport(ranking)
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
