package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/msds-extractor/internal/common"
	"github.com/joseph-ayodele/msds-extractor/internal/entity"
)

// StatusSkipped marks a document whose extraction produced no text.
const StatusSkipped = "skipped"

// Run is one row of the runs table.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	InputDir   string
	OutputDir  string
	Status     string
	Processed  int
	Failed     int
	Skipped    int
}

// Entry is one row of the results table.
type Entry struct {
	RunID         string
	File          string
	ContentHash   string
	Status        string
	Error         string
	Message       string
	ExcelFile     string
	TextFile      string
	Pages         int
	PagesWithText int
	RecordedAt    time.Time
}

type LedgerRepository interface {
	StartRun(ctx context.Context, runID, inputDir, outputDir string, startedAt time.Time) error
	RecordResult(ctx context.Context, runID, contentHash string, res entity.ProcessResult) error
	RecordSkipped(ctx context.Context, runID, file, contentHash string) error
	FinishRun(ctx context.Context, summary entity.BatchSummary, finishedAt time.Time) error
	GetRun(ctx context.Context, runID string) (Run, error)
	LatestRun(ctx context.Context) (Run, error)
	ListResults(ctx context.Context, runID string) ([]Entry, error)
}

type ledgerRepo struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewLedgerRepository(db *sql.DB, logger *slog.Logger) LedgerRepository {
	return &ledgerRepo{
		db:     db,
		logger: common.OrDiscard(logger),
		now:    time.Now,
	}
}

func (r *ledgerRepo) StartRun(ctx context.Context, runID, inputDir, outputDir string, startedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, input_dir, output_dir) VALUES (?, ?, ?, ?)`,
		runID, formatTime(startedAt), inputDir, outputDir)
	if err != nil {
		r.logger.Error("failed to start run", "run_id", runID, "error", err)
		return ledgerError("start run", err)
	}
	return nil
}

func (r *ledgerRepo) RecordResult(ctx context.Context, runID, contentHash string, res entity.ProcessResult) error {
	return r.insert(ctx, Entry{
		RunID:         runID,
		File:          res.File,
		ContentHash:   contentHash,
		Status:        string(res.Status),
		Error:         res.Error,
		Message:       res.Message,
		ExcelFile:     res.ExcelFile,
		TextFile:      res.TextFile,
		Pages:         res.Pages,
		PagesWithText: res.PagesWithText,
	})
}

func (r *ledgerRepo) RecordSkipped(ctx context.Context, runID, file, contentHash string) error {
	return r.insert(ctx, Entry{
		RunID:       runID,
		File:        file,
		ContentHash: contentHash,
		Status:      StatusSkipped,
	})
}

func (r *ledgerRepo) insert(ctx context.Context, e Entry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO results (run_id, file, content_hash, status, error, message, excel_file, text_file, pages, pages_with_text, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.File, e.ContentHash, e.Status, e.Error, e.Message, e.ExcelFile, e.TextFile,
		e.Pages, e.PagesWithText, formatTime(r.now()))
	if err != nil {
		r.logger.Error("failed to record result", "run_id", e.RunID, "file", e.File, "error", err)
		return ledgerError("record result", err)
	}
	return nil
}

func (r *ledgerRepo) FinishRun(ctx context.Context, s entity.BatchSummary, finishedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, status = ?, processed = ?, failed = ?, skipped = ? WHERE id = ?`,
		formatTime(finishedAt), string(s.Status), s.ProcessedFilesCount, s.FailedFilesCount, len(s.SkippedFiles), s.RunID)
	if err != nil {
		r.logger.Error("failed to finish run", "run_id", s.RunID, "error", err)
		return ledgerError("finish run", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ledgerError("finish run", fmt.Errorf("run %s not found", s.RunID))
	}
	return nil
}

const runColumns = `id, started_at, finished_at, input_dir, output_dir, status, processed, failed, skipped`

func (r *ledgerRepo) GetRun(ctx context.Context, runID string) (Run, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, runID)
	return scanRun(row, "get run")
}

// LatestRun returns the most recently started run.
func (r *ledgerRepo) LatestRun(ctx context.Context) (Run, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1`)
	return scanRun(row, "latest run")
}

func scanRun(row *sql.Row, op string) (Run, error) {
	var (
		run              Run
		started          string
		finished, status sql.NullString
	)
	err := row.Scan(&run.ID, &started, &finished, &run.InputDir, &run.OutputDir, &status, &run.Processed, &run.Failed, &run.Skipped)
	if err != nil {
		return Run{}, ledgerError(op, err)
	}
	run.StartedAt = parseTime(started)
	if finished.Valid {
		run.FinishedAt = parseTime(finished.String)
	}
	run.Status = status.String
	return run, nil
}

func (r *ledgerRepo) ListResults(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT run_id, file, content_hash, status, error, message, excel_file, text_file, pages, pages_with_text, recorded_at
		 FROM results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, ledgerError("list results", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var out []Entry
	for rows.Next() {
		var e Entry
		var recorded string
		if err := rows.Scan(&e.RunID, &e.File, &e.ContentHash, &e.Status, &e.Error, &e.Message,
			&e.ExcelFile, &e.TextFile, &e.Pages, &e.PagesWithText, &recorded); err != nil {
			return nil, ledgerError("scan result", err)
		}
		e.RecordedAt = parseTime(recorded)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, ledgerError("list results", err)
	}
	return out, nil
}

func ledgerError(op string, err error) error {
	return common.NewAppError("LEDGER", op, fmt.Errorf("%w: %w", common.ErrLedger, err))
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
