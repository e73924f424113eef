package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/msds-extractor/constants"
	"github.com/joseph-ayodele/msds-extractor/internal/common"
	"github.com/joseph-ayodele/msds-extractor/internal/entity"
	"github.com/joseph-ayodele/msds-extractor/internal/ingest"
)

type BatchConfig struct {
	InputDir  string
	OutputDir string
}

// Batch processes every PDF of the input directory and writes the summary.
type Batch struct {
	cfg       BatchConfig
	source    DocumentSource
	processor *Processor
	summaries SummaryWriter
	ledger    Ledger
	logger    *slog.Logger

	newRunID func() string
	now      func() time.Time
}

// NewBatch wires a batch run. ledger may be nil.
func NewBatch(cfg BatchConfig, source DocumentSource, processor *Processor, summaries SummaryWriter, ledger Ledger, logger *slog.Logger) *Batch {
	return &Batch{
		cfg:       cfg,
		source:    source,
		processor: processor,
		summaries: summaries,
		ledger:    ledger,
		logger:    common.OrDiscard(logger),
		newRunID:  uuid.NewString,
		now:       time.Now,
	}
}

// SummaryPath is where Run writes processing_summary.json.
func (b *Batch) SummaryPath() string {
	return filepath.Join(b.cfg.OutputDir, constants.SummaryFileName)
}

// Run never aborts on a document failure. The returned error is non-nil only
// when the output directory or the summary cannot be written.
func (b *Batch) Run(ctx context.Context) (entity.BatchSummary, error) {
	runID := b.newRunID()
	ctx = common.WithRunID(ctx, runID)
	logger := b.logger.With("run_id", runID)
	started := b.now()

	for _, dir := range []string{b.cfg.InputDir, b.cfg.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create directory", "dir", dir, "error", err)
			return entity.BatchSummary{}, common.WrapError(err, "create directory")
		}
	}

	ledger := b.ledger
	if ledger != nil {
		if err := ledger.StartRun(ctx, runID, b.cfg.InputDir, b.cfg.OutputDir, started); err != nil {
			logger.Warn("ledger unavailable for this run", "error", err)
			ledger = nil
		}
	}

	docs, _, err := b.source.Discover(ctx, b.cfg.InputDir)
	if err != nil {
		logger.Error("failed to list input directory", "dir", b.cfg.InputDir, "error", err)
	}
	if len(docs) == 0 {
		logger.Warn("no PDF files found", "dir", b.cfg.InputDir)
	} else {
		logger.Info("starting batch", "documents", len(docs), "input_dir", b.cfg.InputDir, "output_dir", b.cfg.OutputDir)
	}

	var (
		results []entity.ProcessResult
		skipped []string
		// artifact stem (case-folded) -> document that wrote it
		claimed = map[string]string{}
	)
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			logger.Warn("batch cancelled; remaining documents not processed", "remaining", len(docs)-i, "error", err)
			break
		}

		logger.Info("processing file", "file", doc.Name, "index", i+1, "total", len(docs))
		key := strings.ToLower(doc.Stem)
		if first, ok := claimed[key]; ok {
			cerr := common.OutputCollisionError(doc.Name, first)
			logger.Error("artifact names already used in this run", "file", doc.Name, "first", first)
			res := entity.ProcessResult{File: doc.Name, Status: constants.StatusFailed, Error: cerr.Error()}
			results = append(results, res)
			b.recordResult(ctx, ledger, runID, doc, res)
			continue
		}

		res, outcome := b.processor.ProcessFile(ctx, doc)
		if outcome == OutcomeProcessed {
			claimed[key] = doc.Name
		}
		switch outcome {
		case OutcomeSkipped:
			skipped = append(skipped, doc.Name)
			b.recordSkipped(ctx, ledger, runID, doc)
		default:
			results = append(results, res)
			b.recordResult(ctx, ledger, runID, doc, res)
		}
	}

	summary := entity.NewBatchSummary(runID, started, b.cfg.OutputDir, results, skipped)
	writeErr := b.summaries.Write(summary, b.SummaryPath())
	if writeErr != nil {
		logger.Error("failed to write summary", "path", b.SummaryPath(), "error", writeErr)
	}

	if ledger != nil {
		// The run still has to be closed after a cancellation.
		if err := ledger.FinishRun(context.WithoutCancel(ctx), summary, b.now()); err != nil {
			logger.Warn("failed to finish ledger run", "error", err)
		}
	}

	logger.Info("batch complete",
		"processed", summary.ProcessedFilesCount,
		"failed", summary.FailedFilesCount,
		"skipped", len(summary.SkippedFiles),
		"duration_ms", b.now().Sub(started).Milliseconds(),
	)
	return summary, writeErr
}

func (b *Batch) recordResult(ctx context.Context, ledger Ledger, runID string, doc ingest.Document, res entity.ProcessResult) {
	if ledger == nil {
		return
	}
	if err := ledger.RecordResult(context.WithoutCancel(ctx), runID, doc.HashHex, res); err != nil {
		b.logger.Warn("failed to record result", "file", doc.Name, "error", err)
	}
}

func (b *Batch) recordSkipped(ctx context.Context, ledger Ledger, runID string, doc ingest.Document) {
	if ledger == nil {
		return
	}
	if err := ledger.RecordSkipped(context.WithoutCancel(ctx), runID, doc.Name, doc.HashHex); err != nil {
		b.logger.Warn("failed to record skipped document", "file", doc.Name, "error", err)
	}
}
