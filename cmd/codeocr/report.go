package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/avezina/codeocr/internal/compare"
	"github.com/avezina/codeocr/internal/results"
)

// openBatch opens the results store when a database URL is configured and
// registers a new batch. Returns nil values (and no error) when persistence
// is disabled.
func openBatch(kind string, ratio int) (*results.Store, *results.Recorder, string, error) {
	if cfg.Server.DatabaseURL == "" {
		return nil, nil, uuid.NewString(), nil
	}
	store, err := results.Open(cfg.Server.DatabaseURL)
	if err != nil {
		return nil, nil, "", fmt.Errorf("open results store: %w", err)
	}
	batchID := uuid.NewString()
	err = store.CreateBatch(results.Batch{
		ID:          batchID,
		Kind:        kind,
		DatasetPath: cfg.Paths.Dataset,
		Model:       cfg.OCR.Model,
		Ratio:       ratio,
		StartedAt:   time.Now().UTC(),
	})
	if err != nil {
		store.Close()
		return nil, nil, "", fmt.Errorf("create batch: %w", err)
	}
	return store, results.NewRecorder(store), batchID, nil
}

func closeBatch(store *results.Store, rec *results.Recorder, batchID string) {
	if store == nil {
		return
	}
	rec.Close()
	if err := store.EndBatch(batchID); err != nil {
		slog.Warn("end batch", "batch_id", batchID, "error", err)
	}
	store.Close()
}

func printReport(w io.Writer, sampleID string, r *compare.Report) {
	fmt.Fprintf(w, "\n=== %s ===\n", sampleID)
	fmt.Fprintf(w, "CER:  %6.2f%%  (%d edits over %d chars)  [%s]\n",
		r.CER, r.CEREditDistance, r.ReferenceCharCount, compare.CERLabel(r.CER))
	fmt.Fprintf(w, "WER:  %6.2f%%  (%d edits)\n", r.WER, r.WEREditDistance)
	fmt.Fprintf(w, "BLEU: %6.2f\n", r.BLEU)
	fmt.Fprintf(w, "Exact lines: %d/%d (%.2f%%)  [%s]\n",
		r.ExactMatchCount, r.TotalComparedLines, r.ExactMatchRate, compare.EMRLabel(r.ExactMatchRate))

	if r.MissingLineCount > 0 {
		fmt.Fprintf(w, "Missing lines: %d (transcript truncated)\n", r.MissingLineCount)
	}
	if r.ExtraLineCount > 0 {
		fmt.Fprintf(w, "Extra lines: %d (transcript hallucinated content)\n", r.ExtraLineCount)
	}

	mismatches := 0
	for _, d := range r.LineDiff {
		if !d.Matched {
			mismatches++
		}
	}
	if mismatches == 0 {
		return
	}
	fmt.Fprintf(w, "\nFirst mismatched lines:\n")
	for _, d := range r.LineDiff {
		if d.Matched {
			continue
		}
		fmt.Fprintf(w, "  line %3d\n", d.Index+1)
		fmt.Fprintf(w, "    ref: %s\n", d.Reference)
		fmt.Fprintf(w, "    hyp: %s\n", d.Hypothesis)
	}
}
