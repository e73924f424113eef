// Package classify maps MSDS text onto the fixed set of safety-data fields
// with an ordered keyword rule table.
package classify

import (
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/msds-extractor/constants"
)

// minContentRunes: trimmed lines must be longer than this to count as content.
const minContentRunes = 2

// FieldValue is one labeled entry of a FieldMapping.
type FieldValue struct {
	Field constants.Field
	Value string
}

// FieldMapping holds every fixed field, in presentation order.
type FieldMapping []FieldValue

// Value returns the value for f, or constants.NotAvailable when absent.
func (m FieldMapping) Value(f constants.Field) string {
	for _, fv := range m {
		if fv.Field == f {
			return fv.Value
		}
	}
	return constants.NotAvailable
}

// AsMap returns the mapping keyed by English label.
func (m FieldMapping) AsMap() map[string]string {
	out := make(map[string]string, len(m))
	for _, fv := range m {
		out[string(fv.Field)] = fv.Value
	}
	return out
}

type Classifier struct {
	rules []Rule
}

// New returns a classifier over rules; nil or empty rules mean DefaultRules.
func New(rules []Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Rules returns the rule table in priority order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Match returns the field of the first rule whose keywords occur in line.
func (c *Classifier) Match(line string) (constants.Field, bool) {
	lowered := normalizeLine(line)
	for _, r := range c.rules {
		if r.Matches(lowered) {
			return r.Field, true
		}
	}
	return "", false
}

// Classify scans text line by line. A header line moves the section cursor
// and is never content; other lines longer than two characters are collected
// under the current section. Lines before the first header are dropped.
func (c *Classifier) Classify(text string) FieldMapping {
	collected := make(map[constants.Field][]string)
	var cursor constants.Field

	for _, raw := range strings.Split(text, "\n") {
		if f, ok := c.Match(raw); ok {
			cursor = f
			continue
		}
		if cursor == "" {
			continue
		}
		line := strings.TrimSpace(raw)
		if utf8.RuneCountInString(line) > minContentRunes {
			collected[cursor] = append(collected[cursor], line)
		}
	}

	fields := constants.AllFields()
	out := make(FieldMapping, 0, len(fields))
	for _, f := range fields {
		out = append(out, FieldValue{Field: f, Value: joinLines(collected[f])})
	}
	return out
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return constants.NotAvailable
	}
	if len(lines) > constants.MaxFieldLines {
		lines = lines[:constants.MaxFieldLines]
	}
	return strings.Join(lines, constants.FieldDelimiter)
}
