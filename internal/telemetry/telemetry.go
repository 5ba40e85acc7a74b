package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SamplesMined = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mining_samples_total",
		Help: "Source files accepted into the dataset",
	})

	ReposScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mining_repos_scanned_total",
		Help: "Candidate repositories walked during mining",
	})

	OCRRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ocr_requests_total",
		Help: "Vision OCR chat completions attempted",
	})

	OCRRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ocr_retries_total",
		Help: "OCR attempts retried after an error or empty transcript",
	})

	OCRFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ocr_failures_total",
		Help: "Pages whose OCR failed after all retries",
	})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pipeline_stage_duration_seconds",
		Help:    "Per-stage latency",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
	}, []string{"stage"})

	Comparisons = promauto.NewCounter(prometheus.CounterOpts{
		Name: "compare_reports_total",
		Help: "Metric reports produced",
	})

	Errors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_errors_total",
		Help: "Error counts by stage",
	}, []string{"stage", "error_type"})

	LatestCER = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "compare_cer_latest",
		Help: "Character error rate of the most recent comparison (percent)",
	})

	LatestWER = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "compare_wer_latest",
		Help: "Word error rate of the most recent comparison (percent)",
	})

	LatestBLEU = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "compare_bleu_latest",
		Help: "BLEU score of the most recent comparison (0-100)",
	})

	LatestEMR = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "compare_exact_match_rate_latest",
		Help: "Exact line match rate of the most recent comparison (percent)",
	})
)
