package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/rankllms/rankllms/internal/aggregate"
	"github.com/rankllms/rankllms/internal/archive"
	"github.com/rankllms/rankllms/internal/elo"
	"github.com/rankllms/rankllms/internal/models"
	"github.com/rankllms/rankllms/internal/projectconfig"
	"github.com/rankllms/rankllms/internal/promptset"
	"github.com/spf13/cobra"
)

// resolveArchive builds the outcome store from the root command's persistent
// flags.
func resolveArchive(cmd *cobra.Command) (*archive.Store, string, error) {
	archiveDir, err := cmd.Flags().GetString("archive-dir")
	if err != nil {
		return nil, "", err
	}
	ps, err := cmd.Flags().GetString("promptset")
	if err != nil {
		return nil, "", err
	}
	if ps == "" {
		ps = promptset.DefaultName
	}
	return archive.New(archiveDir, ps), ps, nil
}

func loadCorpus(store *archive.Store) (*aggregate.Corpus, error) {
	corpus, err := aggregate.LoadCorpus(store)
	if err != nil {
		return nil, fmt.Errorf("loading comparison archive: %w", err)
	}
	slog.Debug("loaded comparison corpus",
		"promptset", store.Promptset(),
		"models", len(corpus.Models()),
		"pairs", len(corpus.Pairs()),
		"comparisons", corpus.TotalComparisons())
	return corpus, nil
}

// eloPath is the persisted rating file for one promptset.
func eloPath(leaderboardDir, ps string) string {
	return filepath.Join(leaderboardDir, ps+"_elo_ratings.json")
}

// rebuildRatings replays every archived outcome into a fresh ELO store:
// one overall match per outcome plus one match per non-empty category.
// Outcomes are replayed in canonical pair order so repeated rebuilds produce
// identical stores.
func rebuildRatings(store *archive.Store, ps string, eloCfg projectconfig.EloConfig) (*elo.RatingStore, error) {
	outcomes, err := store.ScanAll()
	if err != nil {
		return nil, fmt.Errorf("scanning comparison archive: %w", err)
	}

	keys := make([]models.PairKey, 0, len(outcomes))
	for key := range outcomes {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Low != keys[j].Low {
			return keys[i].Low < keys[j].Low
		}
		return keys[i].High < keys[j].High
	})

	ratings := elo.New(ps,
		elo.WithKFactor(eloCfg.KFactor),
		elo.WithStartingElo(eloCfg.StartingElo))
	for _, key := range keys {
		outcome := outcomes[key]
		ratings.RegisterMatchResult(outcome.ModelA, outcome.ModelB,
			outcome.OverallWinsA(), outcome.OverallWinsB(), outcome.OverallTies(), "")

		categories := make([]string, 0, len(outcome.CategoryResults))
		for name := range outcome.CategoryResults {
			categories = append(categories, name)
		}
		sort.Strings(categories)
		for _, name := range categories {
			cat := outcome.CategoryResults[name]
			if cat.Total() == 0 {
				continue
			}
			ratings.RegisterMatchResult(outcome.ModelA, outcome.ModelB,
				cat.WinsA, cat.WinsB, cat.Ties, name)
		}
	}

	slog.Info("rebuilt ELO ratings from archive",
		"promptset", ps, "outcomes", len(keys), "models", len(ratings.AllModels()))
	return ratings, nil
}
