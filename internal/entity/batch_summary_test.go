package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/msds-extractor/constants"
)

func TestNewBatchSummary(t *testing.T) {
	ts := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		results   []ProcessResult
		status    constants.SummaryStatus
		processed int
		failed    int
	}{
		{name: "no results", results: nil, status: constants.SummaryInfo},
		{
			name: "mixed",
			results: []ProcessResult{
				{File: "a.pdf", Status: constants.StatusSuccess},
				{File: "b.pdf", Status: constants.StatusFailed, Error: "boom"},
				{File: "c.pdf", Status: constants.StatusSuccess},
			},
			status:    constants.SummarySuccess,
			processed: 2,
			failed:    1,
		},
		{
			name:    "only failures",
			results: []ProcessResult{{File: "x.pdf", Status: constants.StatusFailed}},
			status:  constants.SummarySuccess,
			failed:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewBatchSummary("run-1", ts, "output", tt.results, nil)
			assert.Equal(t, tt.status, s.Status)
			assert.Equal(t, tt.processed, s.ProcessedFilesCount)
			assert.Equal(t, tt.failed, s.FailedFilesCount)
			assert.NotNil(t, s.Results)
			assert.NotNil(t, s.SkippedFiles)
			assert.Equal(t, constants.SummaryNote, s.Note)
		})
	}
}

func TestBatchSummaryJSONKeys(t *testing.T) {
	s := NewBatchSummary("run-1", time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC), "output",
		[]ProcessResult{{File: "a.pdf", ExcelFile: "a.xlsx", TextFile: "a_extracted.txt", Status: constants.StatusSuccess, Pages: 2, PagesWithText: 1}},
		[]string{"blank.pdf"})

	b, err := json.Marshal(s)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, k := range []string{"status", "run_id", "timestamp", "processed_files_count", "failed_files_count", "skipped_files", "output_dir", "results", "note"} {
		assert.Contains(t, m, k)
	}
	assert.Equal(t, "2024-05-01T09:30:00Z", m["timestamp"])

	res := m["results"].([]any)[0].(map[string]any)
	assert.Equal(t, "a.pdf", res["file"])
	assert.Equal(t, "success", res["status"])
	assert.NotContains(t, res, "error")
	assert.NotContains(t, res, "message")
}
