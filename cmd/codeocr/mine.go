package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/avezina/codeocr/internal/dataset"
	"github.com/avezina/codeocr/internal/mining"
)

const githubAPIURL = "https://api.github.com"

var (
	mineLimit    int
	mineLanguage string
	mineOut      string
)

func newMineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Collect code samples from recently created GitHub repositories",
		Args:  cobra.NoArgs,
		RunE:  runMineCmd,
	}
	cmd.Flags().IntVar(&mineLimit, "limit", 0, "samples to collect (default from config)")
	cmd.Flags().StringVar(&mineLanguage, "language", "", "repository language filter (default from config)")
	cmd.Flags().StringVar(&mineOut, "out", "", "output dataset path (default from config)")
	return cmd
}

func runMineCmd(cmd *cobra.Command, _ []string) error {
	mc := cfg.MinerConfig()
	if cmd.Flags().Changed("limit") {
		mc.Limit = mineLimit
	}
	if cmd.Flags().Changed("language") {
		mc.Language = mineLanguage
	}
	out := cfg.Paths.Dataset
	if mineOut != "" {
		out = mineOut
	}

	if cfg.Mining.Token == "" {
		slog.Warn("no GITHUB_TOKEN set, search rate limits will be tight")
	}

	gh := mining.NewClient(githubAPIURL, cfg.Mining.Token, cfg.Mining.PoolSize)
	miner := mining.New(gh, mc)

	slog.Info("mining samples", "language", mc.Language, "limit", mc.Limit,
		"stars", fmt.Sprintf("%d..%d", mc.MinStars, mc.MaxStars))

	samples, err := miner.Mine(cmd.Context())
	if err != nil {
		return fmt.Errorf("mine: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}
	if err := dataset.Save(out, samples); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}

	slog.Info("dataset written", "path", out, "samples", len(samples))
	for _, s := range samples {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d lines\t%s\n", s.ID, s.LineCount, s.URL)
	}
	return nil
}
