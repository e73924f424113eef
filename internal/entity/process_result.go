package entity

import (
	"github.com/joseph-ayodele/msds-extractor/constants"
)

// ProcessResult is the outcome of processing one input PDF.
type ProcessResult struct {
	File          string                  `json:"file"`
	ExcelFile     string                  `json:"excel_file,omitempty"`
	TextFile      string                  `json:"text_file,omitempty"`
	Status        constants.ProcessStatus `json:"status"`
	Error         string                  `json:"error,omitempty"`
	Message       string                  `json:"message,omitempty"`
	Pages         int                     `json:"pages"`
	PagesWithText int                     `json:"pages_with_text"`
}

// Succeeded reports whether the document produced its artifacts.
func (r ProcessResult) Succeeded() bool {
	return r.Status == constants.StatusSuccess
}
