package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joseph-ayodele/msds-extractor/internal/common"
)

// Scanner lists input PDFs in a single directory.
type Scanner struct {
	logger *slog.Logger
}

func NewScanner(logger *slog.Logger) *Scanner {
	return &Scanner{logger: common.OrDiscard(logger)}
}

// Discover lists root non-recursively and returns the PDFs sorted by file name,
// so summaries are reproducible regardless of directory order.
func (s *Scanner) Discover(ctx context.Context, root string) ([]Document, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root_path is required")
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, DirStats{}, fmt.Errorf("read dir: %w", err)
	}

	var docs []Document
	var stats DirStats
	for _, d := range entries {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		stats.Scanned++
		if d.IsDir() {
			continue
		}
		if IsHidden(d.Name()) {
			stats.Hidden++
			continue
		}
		if !AllowedExt(filepath.Ext(d.Name())) {
			continue
		}
		stats.Matched++

		path := filepath.Join(root, d.Name())
		doc := Document{
			Path: path,
			Name: d.Name(),
			Stem: strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())),
		}
		size, sum, err := hashFile(path)
		if err != nil {
			s.logger.Warn("failed to hash input file", "path", path, "error", err)
			doc.Err = err.Error()
			stats.Failed++
		} else {
			doc.Size = size
			doc.HashHex = sum
		}
		docs = append(docs, doc)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })

	s.logger.Info("input directory scanned",
		"dir", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"hidden", stats.Hidden,
		"failed", stats.Failed,
	)
	return docs, stats, nil
}

func hashFile(path string) (int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return 0, "", err
	}
	return n, hex.EncodeToString(h.Sum(nil)), nil
}
