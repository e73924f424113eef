package pdftext

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// popplerDocument runs pdftotext once per page. Page count comes from pdfcpu,
// which also acts as the document-level open check.
type popplerDocument struct {
	e     *Extractor
	path  string
	pages int
}

func (e *Extractor) openPdftotext(_ context.Context, path string) (document, error) {
	n, err := e.countPages(path)
	if err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}
	return &popplerDocument{e: e, path: path, pages: n}, nil
}

func pdfcpuPageCount(path string) (n int, err error) {
	defer func() {
		if p := recover(); p != nil {
			n, err = 0, fmt.Errorf("pdfcpu panic: %v", p)
		}
	}()
	return api.PageCountFile(path)
}

func (d *popplerDocument) NumPages() int { return d.pages }

func (d *popplerDocument) PageText(ctx context.Context, n int) (string, error) {
	page := strconv.Itoa(n)
	// pdftotext -f N -l N -enc UTF-8 -eol unix <path> -   (no -layout: reading order)
	out, errb, err := d.e.runner.Run(ctx, d.e.cfg.Pdftotext, d.e.logger,
		"-f", page, "-l", page, "-enc", "UTF-8", "-eol", "unix", d.path, "-")
	if err != nil {
		if msg := strings.TrimSpace(string(errb)); msg != "" {
			return "", fmt.Errorf("pdftotext: %w: %s", err, truncate(msg, 512))
		}
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	// pdftotext terminates each page with a form feed
	return strings.ReplaceAll(string(out), "\f", ""), nil
}

func (d *popplerDocument) Close() error { return nil }
