package main

import (
	"fmt"

	"github.com/rankllms/rankllms/internal/focus"
	"github.com/rankllms/rankllms/internal/projectconfig"
	"github.com/rankllms/rankllms/internal/reporting"
	"github.com/spf13/cobra"
)

func newFocusCommand(cfg *projectconfig.ProjectConfig) *cobra.Command {
	var (
		maxDepth   int
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "focus <model>",
		Short: "Rank all models by win ratio against one focus model",
		Long: `Rank every model in the archive by its win ratio against the given focus
model. Models without a direct comparison are placed through transitive
win-ratio chains, up to --depth intermediate hops.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			focusModel := args[0]

			store, ps, err := resolveArchive(cmd)
			if err != nil {
				return err
			}
			corpus, err := loadCorpus(store)
			if err != nil {
				return err
			}

			ranking := focus.New(focusModel)
			ratios := ranking.ComputeRankings(corpus, maxDepth)
			if len(ratios) == 0 {
				return &IncompleteDataError{
					Message: fmt.Sprintf("model %q has no stored comparisons in promptset %q", focusModel, ps),
				}
			}

			printFocusTable(cmd.OutOrStdout(), focusModel, ranking.RankingTable(ratios))

			if outputPath != "" {
				return writeReport(outputPath, reporting.FocusReport(ranking, ratios, ps, maxDepth))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxDepth, "depth", cfg.Defaults.FocusDepth, "Maximum transitive chain length (1 = direct comparisons only)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the full report as markdown to this file")

	return cmd
}
