package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/msds-extractor/constants"
	"github.com/joseph-ayodele/msds-extractor/internal/classify"
	"github.com/joseph-ayodele/msds-extractor/internal/common"
)

type Config struct {
	SheetName string // default "MSDS"
	Bilingual bool   // render labels as "English (한국어)"
}

// Service writes the per-document artifacts: a two-column workbook and the raw text.
type Service struct {
	cfg    Config
	logger *slog.Logger
}

func NewService(cfg Config, logger *slog.Logger) *Service {
	if cfg.SheetName == "" {
		cfg.SheetName = "MSDS"
	}
	return &Service{cfg: cfg, logger: common.OrDiscard(logger)}
}

// Paths are the artifact locations derived from one input document.
type Paths struct {
	Spreadsheet string
	Text        string
}

// ArtifactPaths maps input "name.pdf" to "<outputDir>/name.xlsx" and "<outputDir>/name_extracted.txt".
func ArtifactPaths(outputDir, inputPath string) Paths {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return Paths{
		Spreadsheet: filepath.Join(outputDir, stem+constants.SpreadsheetExt),
		Text:        filepath.Join(outputDir, stem+constants.ExtractedTextSuffix+constants.TextExt),
	}
}

// WriteSpreadsheet writes mapping as a Field/Value sheet to path.
func (s *Service) WriteSpreadsheet(mapping classify.FieldMapping, path string) error {
	start := time.Now()
	if err := ensureParent(path); err != nil {
		return common.ArtifactWriteError(path, err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("failed to close workbook", "path", path, "error", err)
		}
	}()

	sheet := s.cfg.SheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return common.ArtifactWriteError(path, fmt.Errorf("sheet name: %w", err))
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return common.ArtifactWriteError(path, fmt.Errorf("header style: %w", err))
	}
	labelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Vertical: "top"},
	})
	if err != nil {
		return common.ArtifactWriteError(path, fmt.Errorf("label style: %w", err))
	}
	valueStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		return common.ArtifactWriteError(path, fmt.Errorf("value style: %w", err))
	}

	write := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, v)
	}

	if err := write(1, 1, "Field"); err != nil {
		return common.ArtifactWriteError(path, err)
	}
	if err := write(2, 1, "Value"); err != nil {
		return common.ArtifactWriteError(path, err)
	}
	_ = f.SetCellStyle(sheet, "A1", "B1", headerStyle)

	row := 2
	for _, fv := range mapping {
		label := string(fv.Field)
		if s.cfg.Bilingual {
			label = fv.Field.BilingualLabel()
		}
		if err := write(1, row, label); err != nil {
			return common.ArtifactWriteError(path, err)
		}
		if err := write(2, row, fv.Value); err != nil {
			return common.ArtifactWriteError(path, err)
		}
		row++
	}
	if row > 2 {
		last := row - 1
		_ = f.SetCellStyle(sheet, "A2", fmt.Sprintf("A%d", last), labelStyle)
		_ = f.SetCellStyle(sheet, "B2", fmt.Sprintf("B%d", last), valueStyle)
	}

	// label column narrow, value column wide
	_ = f.SetColWidth(sheet, "A", "A", 25)
	_ = f.SetColWidth(sheet, "B", "B", 100)
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	if err := f.SaveAs(path); err != nil {
		return common.ArtifactWriteError(path, fmt.Errorf("xlsx write: %w", err))
	}

	s.logger.Debug("spreadsheet written",
		"path", path,
		"rows", len(mapping),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// WriteRawText persists the extracted text as UTF-8.
func (s *Service) WriteRawText(text, path string) error {
	if err := ensureParent(path); err != nil {
		return common.ArtifactWriteError(path, err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return common.ArtifactWriteError(path, err)
	}
	s.logger.Debug("raw text written", "path", path, "bytes", len(text))
	return nil
}

func ensureParent(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
