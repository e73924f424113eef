package classify

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
	"golang.org/x/text/unicode/norm"

	"github.com/joseph-ayodele/msds-extractor/constants"
)

// Rule maps a set of header keywords to a field. A line is a header for the
// field when its lower-cased text contains any keyword as a substring.
type Rule struct {
	Field    constants.Field `yaml:"field"`
	Keywords []string        `yaml:"keywords"`
}

// Matches reports whether the lower-cased line contains one of the keywords.
func (r Rule) Matches(lowered string) bool {
	for _, kw := range r.Keywords {
		if kw != "" && strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// DefaultRules returns the built-in English/Korean header table in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{Field: constants.ProductName, Keywords: []string{"product name", "product identifier", "제품명", "제품 이름"}},
		{Field: constants.Supplier, Keywords: []string{"supplier", "manufacturer", "공급자", "제조사"}},
		{Field: constants.ChemicalName, Keywords: []string{"chemical name", "화학명"}},
		{Field: constants.CASNumber, Keywords: []string{"cas number", "cas no", "cas", "cas 번호"}},
		{Field: constants.Hazards, Keywords: []string{"hazard", "danger", "위험", "위험성"}},
		{Field: constants.PhysicalProperties, Keywords: []string{"physical property", "appearance", "물리적 성질", "외관"}},
		{Field: constants.ChemicalProperties, Keywords: []string{"chemical property", "화학적 성질"}},
		{Field: constants.SafetyInformation, Keywords: []string{"safety", "안전"}},
		{Field: constants.Storage, Keywords: []string{"storage", "보관"}},
		{Field: constants.Disposal, Keywords: []string{"disposal", "폐기"}},
		{Field: constants.PPE, Keywords: []string{"ppe", "protective equipment", "precaution", "개인보호장비", "보호"}},
		{Field: constants.FirstAid, Keywords: []string{"first aid", "응급처치"}},
	}
}

type rulesFile struct {
	Rules []struct {
		Field    string   `yaml:"field"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"rules"`
}

// LoadRules reads a YAML rule table. Order in the file is priority order.
//
//	rules:
//	  - field: Product Name
//	    keywords: [product name, 제품명]
func LoadRules(path string) ([]Rule, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return ParseRules(b)
}

// ParseRules decodes and validates a YAML rule table.
func ParseRules(b []byte) ([]Rule, error) {
	var rf rulesFile
	if err := yaml.Unmarshal(b, &rf); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	if len(rf.Rules) == 0 {
		return nil, fmt.Errorf("rules file has no rules")
	}
	out := make([]Rule, 0, len(rf.Rules))
	for i, r := range rf.Rules {
		f, ok := constants.ParseField(r.Field)
		if !ok {
			return nil, fmt.Errorf("rule %d: unknown field %q (want one of: %s)",
				i+1, r.Field, strings.Join(constants.AsStringSlice(), ", "))
		}
		kws := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			if kw = normalizeLine(kw); kw != "" {
				kws = append(kws, kw)
			}
		}
		if len(kws) == 0 {
			return nil, fmt.Errorf("rule %d (%s): no keywords", i+1, f)
		}
		out = append(out, Rule{Field: f, Keywords: kws})
	}
	return out, nil
}

// normalizeLine lower-cases, trims and composes s for keyword matching.
func normalizeLine(s string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(s)))
}
