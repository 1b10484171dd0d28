package main

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/rankllms/rankllms/internal/analyzer"
	"github.com/rankllms/rankllms/internal/elo"
	"github.com/rankllms/rankllms/internal/projectconfig"
	"github.com/rankllms/rankllms/internal/promptset"
	"github.com/rankllms/rankllms/internal/reporting"
	"github.com/spf13/cobra"
)

func newAnalyzeCommand(cfg *projectconfig.ProjectConfig) *cobra.Command {
	var (
		opts = analyzer.Options{
			MinComparisons: cfg.Analysis.MinComparisons,
			MinPerCategory: cfg.Analysis.MinPerCategory,
			MaxRatingDiff:  cfg.Analysis.MaxRatingDiff,
			MaxSuggestions: cfg.Analysis.MaxSuggestions,
		}
		leaderboardDir string
		promptsetDir   string
		showSummary    bool
		outputPath     string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Suggest which comparisons to run next",
		Long: `Analyze comparison coverage for a promptset and suggest the comparisons
that would most improve ranking confidence: pairs never compared, pairs with
too few comparisons, pairs with close ELO ratings, and per-category gaps.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ps, err := resolveArchive(cmd)
			if err != nil {
				return err
			}
			corpus, err := loadCorpus(store)
			if err != nil {
				return err
			}

			analyzerOpts := []analyzer.Option{}

			// Category gaps are judged against the promptset definition,
			// not just the categories already seen in the archive. A
			// selection block in .rankllms.yaml narrows that to the
			// categories actually being run.
			set, err := promptset.Load(promptsetDir, ps)
			if err != nil {
				slog.Warn("promptset definition unavailable, using observed categories", "promptset", ps, "error", err)
			} else {
				categories := set.CategoryNames()
				if len(cfg.Analysis.Selection) > 0 {
					sel, err := promptset.SelectionFromParams(cfg.Analysis.Selection)
					if err != nil {
						slog.Warn("invalid selection block in config, using all categories", "error", err)
					} else {
						categories = set.SelectedCategories(sel)
					}
				}
				analyzerOpts = append(analyzerOpts, analyzer.WithCategories(categories))
			}

			ratings, err := elo.Load(eloPath(leaderboardDir, ps))
			if err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					slog.Warn("could not load ELO ratings", "error", err)
				}
			} else {
				analyzerOpts = append(analyzerOpts, analyzer.WithRatings(ratings))
			}

			a := analyzer.New(ps, corpus, analyzerOpts...)
			suggestions := a.GenerateSuggestions(opts)

			out := cmd.OutOrStdout()
			printSuggestions(out, suggestions)
			if showSummary {
				printModelSummary(out, a.ModelSummary())
			}

			if outputPath != "" {
				return writeReport(outputPath, reporting.Suggestions(suggestions))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.MinComparisons, "min-comparisons", opts.MinComparisons, "Pairs below this comparison count are flagged")
	cmd.Flags().IntVar(&opts.MinPerCategory, "min-per-category", opts.MinPerCategory, "Per-category comparison count below which a gap is flagged")
	cmd.Flags().Float64Var(&opts.MaxRatingDiff, "max-rating-diff", opts.MaxRatingDiff, "ELO difference at or below which a pair counts as close")
	cmd.Flags().IntVar(&opts.MaxSuggestions, "max-suggestions", opts.MaxSuggestions, "Maximum number of suggestions")
	cmd.Flags().StringVar(&leaderboardDir, "leaderboard-dir", cfg.Paths.Leaderboard, "Directory holding persisted ratings")
	cmd.Flags().StringVar(&promptsetDir, "promptset-dir", cfg.Paths.Promptsets, "Directory holding promptset definitions")
	cmd.Flags().BoolVar(&showSummary, "summary", false, "Also print per-model coverage summary")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write suggestions as markdown to this file")

	return cmd
}
