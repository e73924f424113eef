package summary

import (
	"github.com/joseph-ayodele/msds-extractor/constants"
)

// BuildSummaryJSONSchema returns the JSON-Schema of processing_summary.json as a generic map.
func BuildSummaryJSONSchema() map[string]any {
	result := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"file":       nonEmptyString(),
			"excel_file": map[string]any{"type": "string"},
			"text_file":  map[string]any{"type": "string"},
			"status": map[string]any{
				"type": "string",
				"enum": []string{string(constants.StatusSuccess), string(constants.StatusFailed)},
			},
			"error":           map[string]any{"type": "string"},
			"message":         map[string]any{"type": "string"},
			"pages":           countProp(),
			"pages_with_text": countProp(),
		},
		"required": []string{"file", "status"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"status": map[string]any{
				"type": "string",
				"enum": []string{string(constants.SummarySuccess), string(constants.SummaryInfo)},
			},
			"run_id":                nonEmptyString(),
			"timestamp":             map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`},
			"processed_files_count": countProp(),
			"failed_files_count":    countProp(),
			"skipped_files":         map[string]any{"type": "array", "items": nonEmptyString()},
			"output_dir":            nonEmptyString(),
			"results":               map[string]any{"type": "array", "items": result},
			"note":                  map[string]any{"type": "string"},
		},
		"required": []string{
			"status", "timestamp", "processed_files_count", "output_dir", "results", "note",
		},
	}
}

func nonEmptyString() map[string]any {
	return map[string]any{"type": "string", "minLength": 1}
}

func countProp() map[string]any {
	return map[string]any{"type": "integer", "minimum": 0}
}
