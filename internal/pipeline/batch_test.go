package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/msds-extractor/constants"
	"github.com/joseph-ayodele/msds-extractor/internal/classify"
	"github.com/joseph-ayodele/msds-extractor/internal/common"
	"github.com/joseph-ayodele/msds-extractor/internal/entity"
	"github.com/joseph-ayodele/msds-extractor/internal/export"
	"github.com/joseph-ayodele/msds-extractor/internal/ingest"
	"github.com/joseph-ayodele/msds-extractor/internal/pdftext"
	"github.com/joseph-ayodele/msds-extractor/internal/repository"
	"github.com/joseph-ayodele/msds-extractor/internal/summary"
)

type testEnv struct {
	root   string
	input  string
	output string
}

func newTestEnv(t *testing.T, files ...string) testEnv {
	t.Helper()
	root := t.TempDir()
	env := testEnv{root: root, input: filepath.Join(root, "input"), output: filepath.Join(root, "output")}
	if len(files) > 0 {
		require.NoError(t, os.MkdirAll(env.input, 0o755))
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(env.input, f), []byte("%PDF-1.4 "+f), 0o644))
	}
	return env
}

func newTestBatch(t *testing.T, env testEnv, tx TextExtractor, ledger Ledger) *Batch {
	t.Helper()
	sw, err := summary.NewWriter(nil)
	require.NoError(t, err)
	proc := NewProcessor(nil, tx, classify.New(nil), export.NewService(export.Config{}, nil), env.output, time.Minute)
	b := NewBatch(BatchConfig{InputDir: env.input, OutputDir: env.output}, ingest.NewScanner(nil), proc, sw, ledger, nil)
	b.newRunID = func() string { return "run-test" }
	return b
}

func readSummary(t *testing.T, path string) entity.BatchSummary {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var s entity.BatchSummary
	require.NoError(t, json.Unmarshal(b, &s))
	return s
}

func TestBatchWithCorruptFile(t *testing.T) {
	env := newTestEnv(t, "zinc.pdf", "corrupt.pdf", "acetone.pdf")
	tx := &fakeExtractor{
		texts: map[string]string{
			"acetone.pdf": acetoneText,
			"zinc.pdf":    "\n--- Page 1 ---\nProduct Name\nZinc oxide\nStorage\nKeep container dry",
		},
		errs: map[string]error{
			"corrupt.pdf": common.DocumentOpenError("corrupt.pdf", errors.New("malformed PDF")),
		},
	}

	s, err := newTestBatch(t, env, tx, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"acetone.pdf", "corrupt.pdf", "zinc.pdf"}, tx.calls)
	assert.Equal(t, constants.SummarySuccess, s.Status)
	assert.Equal(t, 2, s.ProcessedFilesCount)
	assert.Equal(t, 1, s.FailedFilesCount)
	require.Len(t, s.Results, 3)
	assert.Equal(t, constants.StatusFailed, s.Results[1].Status)
	assert.NotEmpty(t, s.Results[1].Error)

	for _, f := range []string{"acetone.xlsx", "acetone_extracted.txt", "zinc.xlsx", "zinc_extracted.txt"} {
		assert.FileExists(t, filepath.Join(env.output, f))
	}
	assert.NoFileExists(t, filepath.Join(env.output, "corrupt.xlsx"))

	onDisk := readSummary(t, filepath.Join(env.output, constants.SummaryFileName))
	assert.Equal(t, "run-test", onDisk.RunID)
	assert.Equal(t, 2, onDisk.ProcessedFilesCount)
	assert.Equal(t, env.output, onDisk.OutputDir)
	assert.Equal(t, constants.SummaryNote, onDisk.Note)
}

func TestBatchFailsDocumentWithCollidingOutputNames(t *testing.T) {
	env := newTestEnv(t, "acetone.PDF", "acetone.pdf", "zinc.pdf")
	entries, err := os.ReadDir(env.input)
	require.NoError(t, err)
	if len(entries) != 3 {
		t.Skip("case-insensitive file system")
	}
	tx := &fakeExtractor{
		texts: map[string]string{
			"acetone.PDF": acetoneText,
			"acetone.pdf": "\n--- Page 1 ---\nProduct Name\nAcetone (lab grade)",
			"zinc.pdf":    "\n--- Page 1 ---\nProduct Name\nZinc oxide",
		},
	}

	s, err := newTestBatch(t, env, tx, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"acetone.PDF", "zinc.pdf"}, tx.calls)
	assert.Equal(t, 2, s.ProcessedFilesCount)
	assert.Equal(t, 1, s.FailedFilesCount)
	require.Len(t, s.Results, 3)
	assert.Equal(t, "acetone.pdf", s.Results[1].File)
	assert.Equal(t, constants.StatusFailed, s.Results[1].Status)
	assert.Contains(t, s.Results[1].Error, "acetone.PDF")

	text, err := os.ReadFile(filepath.Join(env.output, "acetone_extracted.txt"))
	require.NoError(t, err)
	assert.NotContains(t, string(text), "lab grade")
}

func TestBatchEmptyDirectory(t *testing.T) {
	env := newTestEnv(t)
	tx := &fakeExtractor{}

	s, err := newTestBatch(t, env, tx, nil).Run(context.Background())
	require.NoError(t, err)

	assert.DirExists(t, env.input)
	assert.DirExists(t, env.output)
	assert.Empty(t, tx.calls)
	assert.Equal(t, constants.SummaryInfo, s.Status)
	assert.Zero(t, s.ProcessedFilesCount)
	assert.Empty(t, s.Results)

	onDisk := readSummary(t, filepath.Join(env.output, constants.SummaryFileName))
	assert.Equal(t, constants.SummaryInfo, onDisk.Status)
	assert.Zero(t, onDisk.ProcessedFilesCount)
}

func TestBatchSkipsEmptyExtraction(t *testing.T) {
	env := newTestEnv(t, "scan.pdf", "acetone.pdf")
	tx := &fakeExtractor{texts: map[string]string{"acetone.pdf": acetoneText}}

	s, err := newTestBatch(t, env, tx, nil).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, s.Results, 1)
	assert.Equal(t, "acetone.pdf", s.Results[0].File)
	assert.Equal(t, []string{"scan.pdf"}, s.SkippedFiles)
	assert.NoFileExists(t, filepath.Join(env.output, "scan_extracted.txt"))
}

func TestBatchAllDocumentsFailStillWritesSummary(t *testing.T) {
	env := newTestEnv(t, "a.pdf", "b.pdf")
	tx := &fakeExtractor{
		errs: map[string]error{
			"a.pdf": common.DocumentOpenError("a.pdf", errors.New("bad header")),
		},
		panics: map[string]bool{"b.pdf": true},
	}

	s, err := newTestBatch(t, env, tx, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, constants.SummarySuccess, s.Status)
	assert.Zero(t, s.ProcessedFilesCount)
	assert.Equal(t, 2, s.FailedFilesCount)
	assert.FileExists(t, filepath.Join(env.output, constants.SummaryFileName))
}

func TestBatchRecordsLedger(t *testing.T) {
	env := newTestEnv(t, "acetone.pdf", "corrupt.pdf", "scan.pdf")
	tx := &fakeExtractor{
		texts: map[string]string{"acetone.pdf": acetoneText},
		errs:  map[string]error{"corrupt.pdf": common.DocumentOpenError("corrupt.pdf", errors.New("malformed PDF"))},
	}

	ctx := context.Background()
	db, err := repository.Open(ctx, repository.Config{Path: filepath.Join(env.output, constants.LedgerFileName)}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { repository.Close(db, nil) })
	ledger := repository.NewLedgerRepository(db, nil)

	_, err = newTestBatch(t, env, tx, ledger).Run(ctx)
	require.NoError(t, err)

	run, err := ledger.GetRun(ctx, "run-test")
	require.NoError(t, err)
	assert.Equal(t, 1, run.Processed)
	assert.Equal(t, 1, run.Failed)
	assert.Equal(t, 1, run.Skipped)

	entries, err := ledger.ListResults(ctx, "run-test")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "acetone.pdf", entries[0].File)
	assert.Len(t, entries[0].ContentHash, 64)
	assert.Equal(t, "failed", entries[1].Status)
	assert.Equal(t, repository.StatusSkipped, entries[2].Status)
}

func TestBatchStopsOnCancelledContext(t *testing.T) {
	env := newTestEnv(t, "a.pdf", "b.pdf")
	tx := &fakeExtractor{texts: map[string]string{"a.pdf": acetoneText, "b.pdf": acetoneText}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := newTestBatch(t, env, tx, nil).Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, tx.calls)
	assert.Empty(t, s.Results)
	assert.FileExists(t, filepath.Join(env.output, constants.SummaryFileName))
}

func TestBatchSummaryWriteFailure(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Join(env.output, constants.SummaryFileName), 0o755))

	_, err := newTestBatch(t, env, &fakeExtractor{}, nil).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrArtifactWrite))
}

var _ TextExtractor = (*pdftext.Extractor)(nil)
