package main

import (
	"log/slog"

	"github.com/rankllms/rankllms/internal/projectconfig"
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		slog.Warn("could not load project config, using defaults", "error", err)
		cfg = projectconfig.New()
	}

	cmd := &cobra.Command{
		Use:   "rankllms",
		Short: "rankllms - rank LLMs from pairwise judged comparisons",
		Long: `rankllms ranks large language models from archived pairwise comparison
results. It maintains an ELO leaderboard and computes Bradley-Terry, direct
empirical, and focus-model rankings, and can suggest which comparisons to run
next to firm up the picture.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.PersistentFlags().String("archive-dir", cfg.Paths.Archive, "Directory holding archived comparison records")
	cmd.PersistentFlags().String("promptset", cfg.Defaults.Promptset, "Promptset to rank over")

	// Add subcommands
	cmd.AddCommand(newLeaderboardCommand(cfg))
	cmd.AddCommand(newRankCommand())
	cmd.AddCommand(newDirectCommand())
	cmd.AddCommand(newFocusCommand(cfg))
	cmd.AddCommand(newAnalyzeCommand(cfg))

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
