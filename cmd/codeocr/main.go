// Package main provides the CLI entrypoint for codeocr.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/avezina/codeocr/internal/config"
)

var (
	configPath string
	cfg        *config.Config
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "codeocr",
		Short:         "Mine code samples, OCR rendered pages, and score transcription fidelity",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}
			if err = cfg.Validate(); err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel(cfg.LogLevel),
			})))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "codeocr.yaml", "path to config file")

	rootCmd.AddCommand(newMineCmd())
	rootCmd.AddCommand(newOCRCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
