package summary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/msds-extractor/internal/common"
	"github.com/joseph-ayodele/msds-extractor/internal/entity"
)

const schemaURL = "processing_summary.schema.json"

// Writer validates and persists batch summaries.
type Writer struct {
	schema *jsonschema.Schema
	logger *slog.Logger
}

// NewWriter compiles the summary schema once.
func NewWriter(logger *slog.Logger) (*Writer, error) {
	schema, err := compileSchema(BuildSummaryJSONSchema())
	if err != nil {
		return nil, err
	}
	return &Writer{schema: schema, logger: common.OrDiscard(logger)}, nil
}

// Encode renders the summary as indented UTF-8 JSON and checks it against the schema.
func (w *Writer) Encode(s entity.BatchSummary) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}

	var v any
	if err := json.Unmarshal(buf.Bytes(), &v); err != nil {
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}
	if err := w.schema.Validate(v); err != nil {
		return nil, fmt.Errorf("summary does not match schema: %w", err)
	}
	return buf.Bytes(), nil
}

// Write saves the summary to path, creating the parent directory.
func (w *Writer) Write(s entity.BatchSummary, path string) error {
	b, err := w.Encode(s)
	if err != nil {
		return common.ArtifactWriteError(path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return common.ArtifactWriteError(path, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return common.ArtifactWriteError(path, err)
	}
	w.logger.Info("summary written",
		"path", path,
		"status", s.Status,
		"processed", s.ProcessedFilesCount,
		"failed", s.FailedFilesCount,
		"skipped", len(s.SkippedFiles),
	)
	return nil
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}
