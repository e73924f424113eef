package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/msds-extractor/constants"
	"github.com/joseph-ayodele/msds-extractor/internal/common"
	"github.com/joseph-ayodele/msds-extractor/internal/entity"
	"github.com/joseph-ayodele/msds-extractor/internal/export"
	"github.com/joseph-ayodele/msds-extractor/internal/ingest"
)

// Processor runs extract -> classify -> write for a single document.
type Processor struct {
	extractor  TextExtractor
	classifier Classifier
	writer     ArtifactWriter
	outputDir  string
	timeout    time.Duration
	logger     *slog.Logger
}

// NewProcessor wires the three stages. timeout <= 0 disables the per-document deadline.
func NewProcessor(logger *slog.Logger, tx TextExtractor, cl Classifier, w ArtifactWriter, outputDir string, timeout time.Duration) *Processor {
	return &Processor{
		extractor:  tx,
		classifier: cl,
		writer:     w,
		outputDir:  outputDir,
		timeout:    timeout,
		logger:     common.OrDiscard(logger),
	}
}

// ProcessFile never returns an error: every failure, including a panic in a
// stage, becomes a failed result so the batch can continue.
func (p *Processor) ProcessFile(ctx context.Context, doc ingest.Document) (res entity.ProcessResult, outcome Outcome) {
	ctx = common.WithDocument(ctx, doc.Name)
	logger := p.logger.With("file", doc.Name, "run_id", common.RunIDFromContext(ctx))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("document processing panicked", "panic", r)
			res = failed(doc, fmt.Errorf("panic: %v", r))
			outcome = OutcomeFailed
		}
	}()

	ctx, cancel := common.WithTimeout(ctx, p.timeout)
	defer cancel()

	// 1) text
	tr, err := p.extractor.Extract(ctx, doc.Path)
	if err != nil {
		logger.Error("text extraction failed", "error", err)
		return failed(doc, err), OutcomeFailed
	}
	for _, w := range tr.Warnings {
		logger.Warn("extraction warning", "warning", w)
	}
	if tr.Text == "" {
		logger.Warn("no text extracted; skipping document", "pages", tr.Pages)
		return entity.ProcessResult{}, OutcomeSkipped
	}

	// 2) fields
	mapping := p.classifier.Classify(tr.Text)

	// 3) artifacts
	paths := export.ArtifactPaths(p.outputDir, doc.Path)
	res = entity.ProcessResult{
		File:          doc.Name,
		Status:        constants.StatusSuccess,
		Pages:         tr.Pages,
		PagesWithText: tr.PagesWithText,
	}

	// the text artifact decides success, so no spreadsheet is left behind when it fails
	if err := p.writer.WriteRawText(tr.Text, paths.Text); err != nil {
		logger.Error("text artifact write failed", "path", paths.Text, "error", err)
		return failed(doc, err), OutcomeFailed
	}
	res.TextFile = filepath.Base(paths.Text)

	if err := p.writer.WriteSpreadsheet(mapping, paths.Spreadsheet); err != nil {
		logger.Warn("spreadsheet write failed", "path", paths.Spreadsheet, "error", err)
		res.Message = fmt.Sprintf("spreadsheet not written: %v", err)
	} else {
		res.ExcelFile = filepath.Base(paths.Spreadsheet)
	}

	logger.Info("document processed",
		"method", tr.Method,
		"pages", tr.Pages,
		"pages_with_text", tr.PagesWithText,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, OutcomeProcessed
}

func failed(doc ingest.Document, err error) entity.ProcessResult {
	return entity.ProcessResult{
		File:   doc.Name,
		Status: constants.StatusFailed,
		Error:  err.Error(),
	}
}
