package entity

import (
	"time"

	"github.com/joseph-ayodele/msds-extractor/constants"
)

// BatchSummary is the content of processing_summary.json.
type BatchSummary struct {
	Status              constants.SummaryStatus `json:"status"`
	RunID               string                  `json:"run_id"`
	Timestamp           time.Time               `json:"timestamp"`
	ProcessedFilesCount int                     `json:"processed_files_count"`
	FailedFilesCount    int                     `json:"failed_files_count"`
	SkippedFiles        []string                `json:"skipped_files"`
	OutputDir           string                  `json:"output_dir"`
	Results             []ProcessResult         `json:"results"`
	Note                string                  `json:"note"`
}

// NewBatchSummary derives counts and status from results. Slices are never nil
// so they serialize as [] rather than null.
func NewBatchSummary(runID string, ts time.Time, outputDir string, results []ProcessResult, skipped []string) BatchSummary {
	if results == nil {
		results = []ProcessResult{}
	}
	if skipped == nil {
		skipped = []string{}
	}

	s := BatchSummary{
		Status:       constants.SummaryInfo,
		RunID:        runID,
		Timestamp:    ts,
		SkippedFiles: skipped,
		OutputDir:    outputDir,
		Results:      results,
		Note:         constants.SummaryNote,
	}
	for _, r := range results {
		if r.Succeeded() {
			s.ProcessedFilesCount++
		} else {
			s.FailedFilesCount++
		}
	}
	if len(results) > 0 {
		s.Status = constants.SummarySuccess
	}
	return s
}
