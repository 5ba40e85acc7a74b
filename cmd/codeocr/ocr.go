package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avezina/codeocr/internal/dataset"
	"github.com/avezina/codeocr/internal/ocr"
	"github.com/avezina/codeocr/internal/runner"
)

var (
	ocrRatio int
	ocrAll   bool
)

func newOCRCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ocr [sample-id...]",
		Short: "Transcribe page images with the vision model and score the result",
		RunE:  runOCRCmd,
	}
	cmd.Flags().IntVar(&ocrRatio, "ratio", 1, "compression ratio of the page renders")
	cmd.Flags().BoolVar(&ocrAll, "all", false, "evaluate every sample in the dataset")
	return cmd
}

func runOCRCmd(cmd *cobra.Command, args []string) error {
	ids, ds, err := resolveSamples(args, ocrAll)
	if err != nil {
		return err
	}

	if cfg.OCR.APIKey == "" {
		return fmt.Errorf("no OCR API key configured (set OCR_API_KEY or ocr.api_key)")
	}

	store, rec, batchID, err := openBatch("ocr", ocrRatio)
	if err != nil {
		return err
	}
	defer closeBatch(store, rec, batchID)

	r := runner.New(runner.Config{
		OCR:          ocr.NewClient(cfg.OCRClientConfig()),
		Dataset:      ds,
		ImagesRoot:   cfg.Paths.ImagesRoot,
		ImageVariant: cfg.Paths.ImageVariant,
		Ratio:        ocrRatio,
		BatchID:      batchID,
		Recorder:     rec,
	})

	reports, err := r.EvaluateBatch(cmd.Context(), ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if rep, ok := reports[id]; ok {
			printReport(cmd.OutOrStdout(), id, rep)
		}
	}
	if len(reports) < len(ids) {
		return fmt.Errorf("%d of %d samples failed", len(ids)-len(reports), len(ids))
	}
	return nil
}

// resolveSamples loads the dataset and expands the requested sample IDs.
func resolveSamples(args []string, all bool) ([]string, *dataset.Dataset, error) {
	ds, err := dataset.Load(cfg.Paths.Dataset)
	if err != nil {
		return nil, nil, fmt.Errorf("load dataset: %w", err)
	}
	if all {
		return ds.IDs(), ds, nil
	}
	if len(args) == 0 {
		return nil, nil, fmt.Errorf("no sample IDs given (use --all for the whole dataset)")
	}
	for _, id := range args {
		if _, err := ds.Get(id); err != nil {
			return nil, nil, err
		}
	}
	return args, ds, nil
}
