package constants

// ProcessStatus is the per-document outcome written to the summary.
type ProcessStatus string

const (
	StatusSuccess ProcessStatus = "success"
	StatusFailed  ProcessStatus = "failed"
)

// SummaryStatus is the batch-level status of processing_summary.json.
type SummaryStatus string

const (
	SummarySuccess SummaryStatus = "success" // at least one document processed
	SummaryInfo    SummaryStatus = "info"    // nothing processed
)

// SummaryNote is the bilingual note attached to every summary.
const SummaryNote = "모든 PDF가 input 폴더에서 처리되어 output 폴더에 저장됩니다. / All PDFs from input folder are processed and saved to output folder."
