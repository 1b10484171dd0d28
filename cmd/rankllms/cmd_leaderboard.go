package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rankllms/rankllms/internal/archive"
	"github.com/rankllms/rankllms/internal/elo"
	"github.com/rankllms/rankllms/internal/projectconfig"
	"github.com/rankllms/rankllms/internal/reporting"
	"github.com/spf13/cobra"
)

func newLeaderboardCommand(cfg *projectconfig.ProjectConfig) *cobra.Command {
	var (
		refresh        bool
		leaderboardDir string
		outputPath     string
	)

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the ELO leaderboard",
		Long: `Show the overall and per-category ELO rankings for a promptset.

The leaderboard is read from the persisted rating file. With --refresh (or
when no rating file exists yet) the ratings are rebuilt by replaying every
archived comparison, then saved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ps, err := resolveArchive(cmd)
			if err != nil {
				return err
			}

			path := eloPath(leaderboardDir, ps)
			ratings, err := resolveRatings(store, ps, path, refresh, cfg.Elo)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printRatingTable(out, fmt.Sprintf("Overall rankings (%s)", ps), ratings.Rankings())
			for _, category := range ratings.Categories() {
				printRatingTable(out, category+" rankings", ratings.CategoryRankings(category))
			}

			if outputPath != "" {
				return writeReport(outputPath, reporting.Leaderboard(ratings))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Rebuild ratings from the comparison archive")
	cmd.Flags().StringVar(&leaderboardDir, "leaderboard-dir", cfg.Paths.Leaderboard, "Directory holding persisted ratings")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the leaderboard as markdown to this file")

	return cmd
}

// resolveRatings loads the persisted store, rebuilding from the archive when
// asked to or when no usable store exists.
func resolveRatings(store *archive.Store, ps, path string, refresh bool, eloCfg projectconfig.EloConfig) (*elo.RatingStore, error) {
	if !refresh {
		if ratings, err := elo.Load(path); err == nil {
			return ratings, nil
		}
	}

	ratings, err := rebuildRatings(store, ps, eloCfg)
	if err != nil {
		return nil, err
	}
	if err := ratings.Save(path); err != nil {
		return nil, fmt.Errorf("saving rebuilt ratings: %w", err)
	}
	return ratings, nil
}

// writeReport writes rendered markdown, creating parent directories as needed.
func writeReport(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
