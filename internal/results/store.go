// Package results persists evaluation batches, runs, and metric reports to
// PostgreSQL.
package results

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver

	"github.com/avezina/codeocr/internal/compare"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Store persists evaluation results to PostgreSQL.
type Store struct {
	db *sql.DB
}

// Open connects to the results database at connStr and applies migrations.
func Open(connStr string) (*Store, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("results open: %w", err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("results ping: %w", err)
	}
	if err = migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("results migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`)
	if err != nil {
		return err
	}

	var current int
	row := db.QueryRow(`SELECT COALESCE(MAX(version), -1) FROM schema_version`)
	if err = row.Scan(&current); err != nil {
		return err
	}

	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	for i := current + 1; i < len(entries); i++ {
		data, readErr := migrationFS.ReadFile("migrations/" + entries[i].Name())
		if readErr != nil {
			return fmt.Errorf("read migration %d: %w", i, readErr)
		}
		if _, execErr := db.Exec(string(data)); execErr != nil {
			return fmt.Errorf("migration %d: %w", i, execErr)
		}
		if _, execErr := db.Exec(`INSERT INTO schema_version (version) VALUES ($1)`, i); execErr != nil {
			return fmt.Errorf("migration %d record: %w", i, execErr)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateBatch inserts a new batch row.
func (s *Store) CreateBatch(b Batch) error {
	_, err := s.db.Exec(
		`INSERT INTO batches (id, kind, dataset_path, model, ratio, started_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.Kind, b.DatasetPath, b.Model, b.Ratio, time.Now().UTC(),
	)
	return err
}

// EndBatch sets the batch's ended_at timestamp.
func (s *Store) EndBatch(id string) error {
	_, err := s.db.Exec(`UPDATE batches SET ended_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	return err
}

// CreateRun inserts a new run with status "running".
func (s *Store) CreateRun(id, batchID, sampleID string, ratio int) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (id, batch_id, sample_id, ratio, started_at, status) VALUES ($1, $2, $3, $4, $5, 'running')`,
		id, batchID, sampleID, ratio, time.Now().UTC(),
	)
	return err
}

// FinishRun sets the run's final status, duration, and error message.
func (s *Store) FinishRun(id string, durationMs float64, status, errMsg string) error {
	_, err := s.db.Exec(
		`UPDATE runs SET duration_ms = $1, status = $2, error_msg = $3 WHERE id = $4`,
		durationMs, status, errMsg, id,
	)
	return err
}

// SaveReport inserts the metrics report for a run.
func (s *Store) SaveReport(runID string, r *compare.Report) error {
	_, err := s.db.Exec(
		`INSERT INTO reports (
			run_id, cer, cer_edit_distance, wer, wer_edit_distance, bleu,
			exact_match_rate, exact_match_count, total_compared_lines,
			missing_line_count, extra_line_count,
			reference_char_count, hypothesis_char_count,
			reference_line_count, hypothesis_line_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		runID, r.CER, r.CEREditDistance, r.WER, r.WEREditDistance, r.BLEU,
		r.ExactMatchRate, r.ExactMatchCount, r.TotalComparedLines,
		r.MissingLineCount, r.ExtraLineCount,
		r.ReferenceCharCount, r.HypothesisCharCount,
		r.ReferenceLineCount, r.HypothesisLineCount,
	)
	return err
}

// ListBatches returns batches ordered newest first, with run counts.
func (s *Store) ListBatches(limit, offset int) ([]Batch, int, error) {
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM batches`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(`
		SELECT b.id, b.kind, b.dataset_path, b.model, b.ratio, b.started_at, b.ended_at, COUNT(r.id) as run_count
		FROM batches b
		LEFT JOIN runs r ON r.batch_id = b.id
		GROUP BY b.id
		ORDER BY b.started_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		var b Batch
		var endedAt sql.NullTime
		if err = rows.Scan(&b.ID, &b.Kind, &b.DatasetPath, &b.Model, &b.Ratio, &b.StartedAt, &endedAt, &b.RunCount); err != nil {
			return nil, 0, err
		}
		if endedAt.Valid {
			b.EndedAt = &endedAt.Time
		}
		batches = append(batches, b)
	}
	return batches, total, rows.Err()
}

// ListRuns returns runs newest first, each with its report when present.
func (s *Store) ListRuns(limit, offset int) ([]Run, int, error) {
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(`
		SELECT r.id, r.batch_id, r.sample_id, r.ratio, r.started_at, r.duration_ms, r.status, r.error_msg,
		       rep.cer, rep.wer, rep.bleu, rep.exact_match_rate
		FROM runs r
		LEFT JOIN reports rep ON rep.run_id = r.id
		ORDER BY r.started_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var cer, wer, bleu, emr sql.NullFloat64
		if err = rows.Scan(&r.ID, &r.BatchID, &r.SampleID, &r.Ratio, &r.StartedAt, &r.DurationMs, &r.Status, &r.Error,
			&cer, &wer, &bleu, &emr); err != nil {
			return nil, 0, err
		}
		if cer.Valid {
			r.Report = &compare.Report{
				CER:            cer.Float64,
				WER:            wer.Float64,
				BLEU:           bleu.Float64,
				ExactMatchRate: emr.Float64,
			}
		}
		runs = append(runs, r)
	}
	return runs, total, rows.Err()
}

// ErrRunNotFound is returned by GetRun for an unknown run ID.
var ErrRunNotFound = errors.New("results: run not found")

// GetRun returns a single run with its full report. Returns ErrRunNotFound
// when no run has the given ID.
func (s *Store) GetRun(id string) (*Run, error) {
	var r Run
	err := s.db.QueryRow(
		`SELECT id, batch_id, sample_id, ratio, started_at, duration_ms, status, error_msg FROM runs WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.BatchID, &r.SampleID, &r.Ratio, &r.StartedAt, &r.DurationMs, &r.Status, &r.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	var rep compare.Report
	err = s.db.QueryRow(
		`SELECT cer, cer_edit_distance, wer, wer_edit_distance, bleu,
		        exact_match_rate, exact_match_count, total_compared_lines,
		        missing_line_count, extra_line_count,
		        reference_char_count, hypothesis_char_count,
		        reference_line_count, hypothesis_line_count
		 FROM reports WHERE run_id = $1`,
		id,
	).Scan(&rep.CER, &rep.CEREditDistance, &rep.WER, &rep.WEREditDistance, &rep.BLEU,
		&rep.ExactMatchRate, &rep.ExactMatchCount, &rep.TotalComparedLines,
		&rep.MissingLineCount, &rep.ExtraLineCount,
		&rep.ReferenceCharCount, &rep.HypothesisCharCount,
		&rep.ReferenceLineCount, &rep.HypothesisLineCount)
	if err == nil {
		r.Report = &rep
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return &r, nil
}
