package pipeline

import (
	"context"
	"time"

	"github.com/joseph-ayodele/msds-extractor/internal/classify"
	"github.com/joseph-ayodele/msds-extractor/internal/entity"
	"github.com/joseph-ayodele/msds-extractor/internal/ingest"
	"github.com/joseph-ayodele/msds-extractor/internal/pdftext"
)

// TextExtractor is Stage 1: PDF -> page-delimited text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (pdftext.Result, error)
}

// Classifier is Stage 2: text -> field mapping.
type Classifier interface {
	Classify(text string) classify.FieldMapping
}

// ArtifactWriter is Stage 3: mapping and text -> files.
type ArtifactWriter interface {
	WriteSpreadsheet(mapping classify.FieldMapping, path string) error
	WriteRawText(text, path string) error
}

// DocumentSource lists the documents of one batch.
type DocumentSource interface {
	Discover(ctx context.Context, root string) ([]ingest.Document, ingest.DirStats, error)
}

// SummaryWriter persists the batch summary.
type SummaryWriter interface {
	Write(s entity.BatchSummary, path string) error
}

// Ledger records runs and per-document outcomes. Optional.
type Ledger interface {
	StartRun(ctx context.Context, runID, inputDir, outputDir string, startedAt time.Time) error
	RecordResult(ctx context.Context, runID, contentHash string, res entity.ProcessResult) error
	RecordSkipped(ctx context.Context, runID, file, contentHash string) error
	FinishRun(ctx context.Context, summary entity.BatchSummary, finishedAt time.Time) error
}

// Outcome classifies what happened to one document.
type Outcome int

const (
	OutcomeProcessed Outcome = iota
	OutcomeFailed
	OutcomeSkipped // nothing extractable; excluded from results
)

func (o Outcome) String() string {
	switch o {
	case OutcomeProcessed:
		return "processed"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}
