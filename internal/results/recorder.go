package results

import (
	"log/slog"

	"github.com/avezina/codeocr/internal/compare"
)

type recordMsg struct {
	kind string // "run_create", "run_finish", "report"

	runID      string
	batchID    string
	sampleID   string
	ratio      int
	durationMs float64
	status     string
	errMsg     string
	report     *compare.Report
}

// Recorder writes results asynchronously via a buffered channel so the
// pipeline never blocks on the database. All methods are nil-safe (no-op on
// nil receiver).
type Recorder struct {
	store *Store
	ch    chan recordMsg
	done  chan struct{}
}

// NewRecorder creates a recorder over the store. Must call Close when done.
func NewRecorder(store *Store) *Recorder {
	r := &Recorder{
		store: store,
		ch:    make(chan recordMsg, 64),
		done:  make(chan struct{}),
	}
	go r.drain()
	return r
}

func (r *Recorder) drain() {
	defer close(r.done)
	for msg := range r.ch {
		r.handle(msg)
	}
}

func (r *Recorder) handle(m recordMsg) {
	var err error
	switch m.kind {
	case "run_create":
		err = r.store.CreateRun(m.runID, m.batchID, m.sampleID, m.ratio)
	case "run_finish":
		err = r.store.FinishRun(m.runID, m.durationMs, m.status, m.errMsg)
	case "report":
		err = r.store.SaveReport(m.runID, m.report)
	default:
		return
	}
	if err != nil {
		slog.Warn("results write failed", "kind", m.kind, "run_id", m.runID, "error", err)
	}
}

// StartRun records the beginning of a run.
func (r *Recorder) StartRun(runID, batchID, sampleID string, ratio int) {
	if r == nil {
		return
	}
	r.ch <- recordMsg{kind: "run_create", runID: runID, batchID: batchID, sampleID: sampleID, ratio: ratio}
}

// FinishRun records a run's final status.
func (r *Recorder) FinishRun(runID string, durationMs float64, status, errMsg string) {
	if r == nil {
		return
	}
	r.ch <- recordMsg{kind: "run_finish", runID: runID, durationMs: durationMs, status: status, errMsg: errMsg}
}

// SaveReport records a run's metrics report.
func (r *Recorder) SaveReport(runID string, report *compare.Report) {
	if r == nil {
		return
	}
	r.ch <- recordMsg{kind: "report", runID: runID, report: report}
}

// Close flushes pending writes and stops the recorder.
func (r *Recorder) Close() {
	if r == nil {
		return
	}
	close(r.ch)
	<-r.done
}
