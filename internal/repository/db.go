package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/msds-extractor/internal/common"
)

type Config struct {
	Path        string
	BusyTimeout time.Duration
}

const migration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  TEXT NOT NULL,
	finished_at TEXT,
	input_dir   TEXT NOT NULL,
	output_dir  TEXT NOT NULL,
	status      TEXT,
	processed   INTEGER NOT NULL DEFAULT 0,
	failed      INTEGER NOT NULL DEFAULT 0,
	skipped     INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS results (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id          TEXT NOT NULL REFERENCES runs(id),
	file            TEXT NOT NULL,
	content_hash    TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL,
	error           TEXT NOT NULL DEFAULT '',
	message         TEXT NOT NULL DEFAULT '',
	excel_file      TEXT NOT NULL DEFAULT '',
	text_file       TEXT NOT NULL DEFAULT '',
	pages           INTEGER NOT NULL DEFAULT 0,
	pages_with_text INTEGER NOT NULL DEFAULT 0,
	recorded_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS results_run_id ON results(run_id);
CREATE INDEX IF NOT EXISTS results_content_hash ON results(content_hash);
`

// Open opens (or creates) the SQLite ledger file and applies the schema.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sql.DB, error) {
	logger = common.OrDiscard(logger)
	logger.Info("opening ledger", "path", cfg.Path)

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, common.NewAppError("LEDGER", "create ledger dir", fmt.Errorf("%w: %w", common.ErrLedger, err))
	}

	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", cfg.Path, busy.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		logger.Error("failed to open ledger", "error", err)
		return nil, common.NewAppError("LEDGER", "open ledger", fmt.Errorf("%w: %w", common.ErrLedger, err))
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, migration); err != nil {
		_ = db.Close()
		logger.Error("failed to migrate ledger", "error", err)
		return nil, common.NewAppError("LEDGER", "migrate ledger", fmt.Errorf("%w: %w", common.ErrLedger, err))
	}

	logger.Info("ledger ready")
	return db, nil
}

// Close closes the ledger connection gracefully
func Close(db *sql.DB, logger *slog.Logger) {
	logger = common.OrDiscard(logger)
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("failed to close ledger", "error", err)
		return
	}
	logger.Debug("ledger closed")
}

// HealthCheck pings the ledger database.
func HealthCheck(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return db.PingContext(ctx)
}
