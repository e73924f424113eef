package pdftext

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/msds-extractor/internal/common"
)

// fakeRunner returns canned pdftotext output keyed by the page number argument.
type fakeRunner struct {
	pages map[string]string
	fail  map[string]error
	calls [][]string
}

func (f *fakeRunner) Run(_ context.Context, name string, _ *slog.Logger, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	page := args[1] // -f N
	if err, ok := f.fail[page]; ok {
		return nil, []byte("Syntax Error: bad page"), err
	}
	return []byte(f.pages[page]), nil, nil
}

func newPdftotextExtractor(t *testing.T, r Runner, pages int, countErr error, maxPages int) *Extractor {
	t.Helper()
	e := NewExtractor(Config{Backend: common.BackendPdftotext, MaxPages: maxPages}, nil)
	e.runner = r
	e.countPages = func(string) (int, error) { return pages, countErr }
	return e
}

func TestAssemble(t *testing.T) {
	tests := []struct {
		name  string
		pages []Page
		want  string
	}{
		{name: "no pages", pages: nil, want: ""},
		{
			name:  "single page",
			pages: []Page{{Number: 1, Text: "Hazards"}},
			want:  "\n--- Page 1 ---\nHazards",
		},
		{
			name:  "empty page skipped without marker",
			pages: []Page{{Number: 1, Text: "a"}, {Number: 2, Text: ""}, {Number: 3, Text: "c"}},
			want:  "\n--- Page 1 ---\na\n--- Page 3 ---\nc",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Assemble(tt.pages))
		})
	}
}

func TestExtractPdftotextSkipsFailedAndEmptyPages(t *testing.T) {
	r := &fakeRunner{
		pages: map[string]string{
			"1": "Product Name\r\nAcetone  \f",
			"2": "   \n\f",
			"4": "First Aid\nRinse with water\f",
		},
		fail: map[string]error{"3": errors.New("exit status 1")},
	}
	e := newPdftotextExtractor(t, r, 4, nil, 0)

	res, err := e.Extract(context.Background(), "sheet.pdf")
	require.NoError(t, err)

	assert.Equal(t, "\n--- Page 1 ---\nProduct Name\nAcetone\n--- Page 4 ---\nFirst Aid\nRinse with water", res.Text)
	assert.Equal(t, 4, res.Pages)
	assert.Equal(t, 2, res.PagesWithText)
	assert.Equal(t, []int{3}, res.FailedPages)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "page 3")
	assert.Equal(t, common.BackendPdftotext, res.Method)

	require.Len(t, r.calls, 4)
	assert.Equal(t, []string{"pdftotext", "-f", "1", "-l", "1", "-enc", "UTF-8", "-eol", "unix", "sheet.pdf", "-"}, r.calls[0])
	for _, c := range r.calls {
		assert.NotContains(t, c, "-layout")
	}
}

func TestExtractAllPagesFailingYieldsEmptyText(t *testing.T) {
	r := &fakeRunner{fail: map[string]error{"1": errors.New("boom"), "2": errors.New("boom")}}
	e := newPdftotextExtractor(t, r, 2, nil, 0)

	res, err := e.Extract(context.Background(), "broken.pdf")
	require.NoError(t, err)
	assert.Empty(t, res.Text)
	assert.Equal(t, []int{1, 2}, res.FailedPages)
}

func TestExtractHonorsMaxPages(t *testing.T) {
	r := &fakeRunner{pages: map[string]string{"1": "one", "2": "two", "3": "three"}}
	e := newPdftotextExtractor(t, r, 3, nil, 2)

	res, err := e.Extract(context.Background(), "long.pdf")
	require.NoError(t, err)
	assert.Equal(t, "\n--- Page 1 ---\none\n--- Page 2 ---\ntwo", res.Text)
	assert.Len(t, r.calls, 2)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "page limit")
}

func TestExtractDocumentOpenError(t *testing.T) {
	e := newPdftotextExtractor(t, &fakeRunner{}, 0, errors.New("not a pdf"), 0)

	_, err := e.Extract(context.Background(), "corrupt.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDocumentOpen))
}

func TestExtractStopsOnCancelledContext(t *testing.T) {
	r := &fakeRunner{pages: map[string]string{"1": "one"}}
	e := newPdftotextExtractor(t, r, 3, nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Extract(ctx, "slow.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, r.calls)
}

func TestExtractNativeRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o644))

	e := NewExtractor(Config{}, nil)
	res, err := e.Extract(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDocumentOpen))
	assert.Empty(t, res.Text)
	assert.Equal(t, common.BackendNative, res.Method)
}

func TestExtractUnknownBackend(t *testing.T) {
	e := NewExtractor(Config{Backend: "tika"}, nil)
	_, err := e.Extract(context.Background(), "x.pdf")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unsupported extraction backend"))
}

func TestNormalize(t *testing.T) {
	decomposed := "\u110c\u1166\u1111\u116e\u11b7\u1106\u1167\u11bc" // conjoining jamo
	assert.Equal(t, "제품명", Normalize(decomposed))
	assert.Equal(t, "  a\nb\n\nc", Normalize("\n  a  \r\nb\t\r\n\r\nc\n\n"))
	assert.Equal(t, "", Normalize(" \n \n"))
}

func TestExtractLogsDocumentName(t *testing.T) {
	var buf bytes.Buffer
	r := &fakeRunner{pages: map[string]string{"1": "one"}, fail: map[string]error{"2": errors.New("exit status 1")}}
	e := newPdftotextExtractor(t, r, 2, nil, 0)
	e.logger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := e.Extract(common.WithDocument(context.Background(), "sheet.pdf"), "/in/sheet.pdf")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"msg":"page extraction failed"`)
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.Contains(t, line, `"document":"sheet.pdf"`)
	}
}
