// Package runner drives sample evaluations: page OCR (or previously saved
// transcripts), comparison against the original source, and result
// recording.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/avezina/codeocr/internal/compare"
	"github.com/avezina/codeocr/internal/dataset"
	"github.com/avezina/codeocr/internal/ocr"
	"github.com/avezina/codeocr/internal/results"
	"github.com/avezina/codeocr/internal/telemetry"
)

// Transcriber OCRs one page image into text.
type Transcriber interface {
	TranscribeImage(ctx context.Context, path string) (string, error)
}

// Event is a progress notification sent to observers while a run executes.
type Event struct {
	Type     string          `json:"type"` // "page_done", "sample_done", "error"
	SampleID string          `json:"sample_id,omitempty"`
	RunID    string          `json:"run_id,omitempty"`
	Page     string          `json:"page,omitempty"`
	Chars    int             `json:"chars,omitempty"`
	Report   *compare.Report `json:"report,omitempty"`
	CERLabel string          `json:"cer_label,omitempty"`
	EMRLabel string          `json:"emr_label,omitempty"`
	Err      string          `json:"error,omitempty"`
}

// EventCallback is invoked for each runner event.
type EventCallback func(Event)

// Config holds runner collaborators and layout settings.
type Config struct {
	OCR          Transcriber
	Dataset      *dataset.Dataset
	ImagesRoot   string // directory containing one subdirectory per sample ID
	ImageVariant string // render variant subdirectory within each sample dir
	Ratio        int
	BatchID      string
	Recorder     *results.Recorder // nil disables persistence
	OnEvent      EventCallback     // nil discards events
}

// Runner evaluates dataset samples one at a time.
type Runner struct {
	cfg Config
}

// New creates a runner. ImageVariant defaults to the layout the dataset
// renders were produced with.
func New(cfg Config) *Runner {
	if cfg.ImageVariant == "" {
		cfg.ImageVariant = "1024x1024_hl_nl"
	}
	if cfg.Ratio <= 0 {
		cfg.Ratio = 1
	}
	return &Runner{cfg: cfg}
}

func (r *Runner) emit(ev Event) {
	if r.cfg.OnEvent != nil {
		r.cfg.OnEvent(ev)
	}
}

func (r *Runner) sampleDir(sampleID string) string {
	return filepath.Join(r.cfg.ImagesRoot, sampleID, r.cfg.ImageVariant)
}

// EvaluateSample OCRs every page image of the sample, merges the
// transcripts, and scores them against the original source. A page whose
// OCR fails after all retries contributes an empty transcript rather than
// aborting the sample.
func (r *Runner) EvaluateSample(ctx context.Context, sampleID string) (*compare.Report, error) {
	return r.run(ctx, sampleID, func(ctx context.Context, runID string) (string, error) {
		pages, err := ocr.DiscoverPages(r.sampleDir(sampleID), r.cfg.Ratio)
		if err != nil {
			return "", err
		}

		texts := make([]string, 0, len(pages))
		for _, page := range pages {
			text, err := r.cfg.OCR.TranscribeImage(ctx, page)
			if err != nil {
				if ctx.Err() != nil {
					return "", ctx.Err()
				}
				slog.Warn("page ocr failed", "sample_id", sampleID, "page", page, "error", err)
				r.emit(Event{Type: "error", SampleID: sampleID, RunID: runID, Page: filepath.Base(page), Err: err.Error()})
				text = ""
			}
			texts = append(texts, text)
			r.emit(Event{Type: "page_done", SampleID: sampleID, RunID: runID, Page: filepath.Base(page), Chars: len(text)})
		}
		return ocr.MergePages(texts), nil
	})
}

// ScoreSample scores previously saved per-page OCR transcripts without
// calling the OCR backend.
func (r *Runner) ScoreSample(ctx context.Context, sampleID string) (*compare.Report, error) {
	return r.run(ctx, sampleID, func(ctx context.Context, runID string) (string, error) {
		pages, err := ocr.LoadPageTexts(r.sampleDir(sampleID), r.cfg.Ratio)
		if err != nil {
			return "", err
		}
		return ocr.MergePages(pages), nil
	})
}

// run executes one sample evaluation: hypothesis production via produce,
// comparison, metric observation, and result recording.
func (r *Runner) run(ctx context.Context, sampleID string, produce func(context.Context, string) (string, error)) (*compare.Report, error) {
	sample, err := r.cfg.Dataset.Get(sampleID)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	start := time.Now()
	r.cfg.Recorder.StartRun(runID, r.cfg.BatchID, sampleID, r.cfg.Ratio)

	fail := func(err error) (*compare.Report, error) {
		r.cfg.Recorder.FinishRun(runID, float64(time.Since(start).Milliseconds()), "error", err.Error())
		r.emit(Event{Type: "error", SampleID: sampleID, RunID: runID, Err: err.Error()})
		return nil, err
	}

	hypothesis, err := produce(ctx, runID)
	if err != nil {
		return fail(fmt.Errorf("hypothesis: %w", err))
	}

	compareStart := time.Now()
	report, err := compare.Compare(sample.Code, hypothesis)
	if err != nil {
		telemetry.Errors.WithLabelValues("compare", "input").Inc()
		return fail(fmt.Errorf("compare: %w", err))
	}
	telemetry.StageDuration.WithLabelValues("compare").Observe(time.Since(compareStart).Seconds())
	telemetry.Comparisons.Inc()
	telemetry.LatestCER.Set(report.CER)
	telemetry.LatestWER.Set(report.WER)
	telemetry.LatestBLEU.Set(report.BLEU)
	telemetry.LatestEMR.Set(report.ExactMatchRate)

	slog.Info("sample scored",
		"sample_id", sampleID,
		"cer", report.CER,
		"wer", report.WER,
		"bleu", report.BLEU,
		"exact_match_rate", report.ExactMatchRate,
		"hypothesis_chars", report.HypothesisCharCount,
	)

	r.cfg.Recorder.FinishRun(runID, float64(time.Since(start).Milliseconds()), "ok", "")
	r.cfg.Recorder.SaveReport(runID, report)
	r.emit(Event{
		Type:     "sample_done",
		SampleID: sampleID,
		RunID:    runID,
		Report:   report,
		CERLabel: compare.CERLabel(report.CER),
		EMRLabel: compare.EMRLabel(report.ExactMatchRate),
	})

	return report, nil
}

// EvaluateBatch evaluates every listed sample, skipping failures so one bad
// sample cannot abort the batch. Returns the per-sample reports keyed by
// sample ID.
func (r *Runner) EvaluateBatch(ctx context.Context, sampleIDs []string) (map[string]*compare.Report, error) {
	reports := make(map[string]*compare.Report, len(sampleIDs))
	for _, id := range sampleIDs {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		report, err := r.EvaluateSample(ctx, id)
		if err != nil {
			slog.Warn("sample evaluation failed", "sample_id", id, "error", err)
			continue
		}
		reports[id] = report
	}
	return reports, nil
}
