package constants

import "strings"

// AllowedExtensions holds the extensions picked up from the input directory.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

const (
	ExtractedTextSuffix = "_extracted"
	TextExt             = ".txt"
	SpreadsheetExt      = ".xlsx"
	SummaryFileName     = "processing_summary.json"
	LedgerFileName      = "processing_ledger.db"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
