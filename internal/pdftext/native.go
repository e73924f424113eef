package pdftext

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// nativeDocument reads the embedded text layer with ledongthuc/pdf.
type nativeDocument struct {
	f *os.File
	r *pdf.Reader
}

func openNative(path string) (doc document, err error) {
	// the parser panics on some malformed cross-reference tables
	defer func() {
		if p := recover(); p != nil {
			doc, err = nil, fmt.Errorf("pdf parser panic: %v", p)
		}
	}()
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	return &nativeDocument{f: f, r: r}, nil
}

func (d *nativeDocument) NumPages() int { return d.r.NumPage() }

// PageText returns the plain text of page n, one output line per text line of
// the page. GetPlainText only breaks lines on T* and quote operators, so lines
// are rebuilt from glyph positions instead.
func (d *nativeDocument) PageText(_ context.Context, n int) (txt string, err error) {
	defer func() {
		if p := recover(); p != nil {
			txt, err = "", fmt.Errorf("pdf parser panic: %v", p)
		}
	}()
	p := d.r.Page(n)
	if p.V.IsNull() {
		return "", nil
	}
	return joinGlyphs(p.Content().Text), nil
}

func (d *nativeDocument) Close() error { return d.f.Close() }

// joinGlyphs lays glyphs out in content-stream order. A baseline change starts
// a new line; a horizontal gap wider than a quarter em inserts a space when the
// glyph widths are known.
func joinGlyphs(glyphs []pdf.Text) string {
	var (
		b       strings.Builder
		started bool
		prev    pdf.Text
	)
	for _, g := range glyphs {
		// TJ terminates with a synthetic "\n" glyph; undecodable codes map to U+FFFD
		if g.S == "" || g.S == "\n" || g.S == string(unicode.ReplacementChar) {
			continue
		}
		switch {
		case !started:
			started = true
		case newLine(prev, g):
			b.WriteByte('\n')
		case needsSpace(prev, g):
			b.WriteByte(' ')
		}
		b.WriteString(g.S)
		prev = g
	}
	return b.String()
}

func newLine(prev, g pdf.Text) bool {
	tol := math.Max(math.Abs(prev.FontSize)/2, 1)
	return math.Abs(g.Y-prev.Y) > tol
}

func needsSpace(prev, g pdf.Text) bool {
	if prev.W <= 0 || strings.HasSuffix(prev.S, " ") || strings.HasPrefix(g.S, " ") {
		return false
	}
	gap := g.X - (prev.X + prev.W)
	return gap > math.Abs(prev.FontSize)/4
}
