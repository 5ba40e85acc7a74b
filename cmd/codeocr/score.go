package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avezina/codeocr/internal/runner"
)

var (
	scoreRatio int
	scoreAll   bool
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [sample-id...]",
		Short: "Score previously saved page transcripts without calling the OCR backend",
		RunE:  runScoreCmd,
	}
	cmd.Flags().IntVar(&scoreRatio, "ratio", 1, "compression ratio of the saved transcripts")
	cmd.Flags().BoolVar(&scoreAll, "all", false, "score every sample in the dataset")
	return cmd
}

func runScoreCmd(cmd *cobra.Command, args []string) error {
	ids, ds, err := resolveSamples(args, scoreAll)
	if err != nil {
		return err
	}

	store, rec, batchID, err := openBatch("score", scoreRatio)
	if err != nil {
		return err
	}
	defer closeBatch(store, rec, batchID)

	r := runner.New(runner.Config{
		Dataset:      ds,
		ImagesRoot:   cfg.Paths.ImagesRoot,
		ImageVariant: cfg.Paths.ImageVariant,
		Ratio:        scoreRatio,
		BatchID:      batchID,
		Recorder:     rec,
	})

	var failed int
	for _, id := range ids {
		rep, err := r.ScoreSample(cmd.Context(), id)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", id, err)
			failed++
			continue
		}
		printReport(cmd.OutOrStdout(), id, rep)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d samples failed", failed, len(ids))
	}
	return nil
}
