package results

import (
	"time"

	"github.com/avezina/codeocr/internal/compare"
)

// Batch groups the runs of one CLI invocation.
type Batch struct {
	ID          string     `json:"id"`
	Kind        string     `json:"kind"` // "ocr" or "score"
	DatasetPath string     `json:"dataset_path,omitempty"`
	Model       string     `json:"model,omitempty"`
	Ratio       int        `json:"ratio"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	RunCount    int        `json:"run_count,omitempty"`
}

// Run is one sample evaluation: OCR (when applicable) plus comparison.
type Run struct {
	ID         string          `json:"id"`
	BatchID    string          `json:"batch_id"`
	SampleID   string          `json:"sample_id"`
	Ratio      int             `json:"ratio"`
	StartedAt  time.Time       `json:"started_at"`
	DurationMs float64         `json:"duration_ms,omitempty"`
	Status     string          `json:"status"`
	Error      string          `json:"error,omitempty"`
	Report     *compare.Report `json:"report,omitempty"`
}
