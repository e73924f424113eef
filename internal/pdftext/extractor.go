// Package pdftext turns a PDF file into page-delimited plain text.
package pdftext

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/msds-extractor/internal/common"
)

type Config struct {
	Backend   string // common.BackendNative | common.BackendPdftotext; if empty -> native
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	MaxPages  int    // 0 = no limit
}

// Page is the text of one 1-indexed page.
type Page struct {
	Number int
	Text   string
}

type Result struct {
	Text          string
	Pages         int   // page count reported by the document
	PagesWithText int   // pages that contributed text
	FailedPages   []int // pages whose extraction errored
	Method        string
	Duration      time.Duration
	Warnings      []string
}

// document is an opened PDF that yields text page by page.
type document interface {
	NumPages() int
	PageText(ctx context.Context, page int) (string, error)
	Close() error
}

type Extractor struct {
	cfg        Config
	runner     Runner
	countPages func(path string) (int, error)
	logger     *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if cfg.Backend == "" {
		cfg.Backend = common.BackendNative
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	return &Extractor{
		cfg:        cfg,
		runner:     execRunner{},
		countPages: pdfcpuPageCount,
		logger:     common.OrDiscard(logger),
	}
}

// Extract reads every page of the PDF at path in order. A document that cannot
// be opened returns an error wrapping common.ErrDocumentOpen; page failures are
// logged and skipped. Empty Text with a nil error means nothing was extractable.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	res := Result{Method: e.cfg.Backend}
	logger := e.logger
	if name := common.DocumentFromContext(ctx); name != "" {
		logger = logger.With("document", name)
	}
	logger.Debug("starting pdf text extraction", "path", path, "method", e.cfg.Backend)

	doc, err := e.open(ctx, path)
	if err != nil {
		res.Duration = time.Since(start)
		logger.Error("pdf open failed", "path", path, "method", e.cfg.Backend, "error", err)
		return res, common.DocumentOpenError(path, err)
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			logger.Warn("failed to close pdf", "path", path, "error", cerr)
		}
	}()

	res.Pages = doc.NumPages()
	limit := res.Pages
	if e.cfg.MaxPages > 0 && limit > e.cfg.MaxPages {
		limit = e.cfg.MaxPages
		res.Warnings = append(res.Warnings, fmt.Sprintf("page limit reached: read %d of %d pages", limit, res.Pages))
	}

	pages := make([]Page, 0, limit)
	for n := 1; n <= limit; n++ {
		if err := ctx.Err(); err != nil {
			res.Text = Assemble(pages)
			res.PagesWithText = len(pages)
			res.Duration = time.Since(start)
			return res, fmt.Errorf("extract %s: stopped at page %d: %w", path, n, err)
		}
		txt, err := doc.PageText(ctx, n)
		if err != nil {
			perr := common.PageExtractionError(n, err)
			logger.Warn("page extraction failed", "path", path, "page", n, "error", err)
			res.FailedPages = append(res.FailedPages, n)
			res.Warnings = append(res.Warnings, perr.Error())
			continue
		}
		txt = Normalize(txt)
		if txt == "" {
			logger.Debug("page has no text", "path", path, "page", n)
			continue
		}
		pages = append(pages, Page{Number: n, Text: txt})
	}

	res.Text = Assemble(pages)
	res.PagesWithText = len(pages)
	res.Duration = time.Since(start)
	logger.Debug("pdf text extraction done",
		"path", path,
		"pages", res.Pages,
		"pages_with_text", res.PagesWithText,
		"failed_pages", len(res.FailedPages),
		"bytes", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (e *Extractor) open(ctx context.Context, path string) (document, error) {
	switch e.cfg.Backend {
	case common.BackendNative:
		return openNative(path)
	case common.BackendPdftotext:
		return e.openPdftotext(ctx, path)
	default:
		return nil, fmt.Errorf("unsupported extraction backend: %q", e.cfg.Backend)
	}
}

// PageMarker is the delimiter written before the text of page n.
func PageMarker(n int) string {
	return "\n--- Page " + strconv.Itoa(n) + " ---\n"
}

// Assemble concatenates page texts in order, each prefixed with its page marker.
// Pages with empty text contribute nothing.
func Assemble(pages []Page) string {
	var b strings.Builder
	for _, p := range pages {
		if p.Text == "" {
			continue
		}
		b.WriteString(PageMarker(p.Number))
		b.WriteString(p.Text)
	}
	return b.String()
}
