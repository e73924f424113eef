package pdftext

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var reCRLF = regexp.MustCompile(`\r\n?`)

// Normalize prepares page text for line-based matching.
// Keeps line breaks; composes Unicode (PDFs often carry decomposed Hangul),
// unifies line endings, trims trailing spaces on each line and drops blank
// leading/trailing lines. Leading indentation is preserved.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFC.String(s)
	s = reCRLF.ReplaceAllString(s, "\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}
