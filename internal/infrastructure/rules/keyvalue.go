package rules

import (
	"strings"

	"github.com/kdworks/dataclerk/internal/core/domain"
)

// numeric-bearing canonical fields keep only the embedded digit run from
// the value side, per the same rules as the pattern library.
var numericFields = map[string]func(string) string{
	"Age":      extractAgeDigits,
	"Pincode":  findPincode,
	"Amount":   findAmount,
	"Quantity": extractDigits,
}

// LineParser detects explicit label:value lines. Recognized labels map to
// canonical field names; unrecognized ones are kept verbatim (Title-Cased)
// as dynamic fields, which is how the schema grows over time.
type LineParser struct {
	synonyms map[string]string
}

func NewLineParser(cfg LabelConfig) *LineParser {
	return &LineParser{synonyms: cfg.Synonyms}
}

// Parse splits the input on line boundaries and emits one candidate per
// label:value line. Lines without a colon are ignored here; they still
// reach the Notes fallback downstream. The first candidate per field wins.
func (p *LineParser) Parse(text string) []domain.FieldCandidate {
	var out []domain.FieldCandidate
	claimed := make(map[string]struct{})

	for _, line := range strings.Split(text, "\n") {
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		label := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if label == "" || value == "" {
			continue
		}

		field := p.canonicalField(label)
		if extract, ok := numericFields[field]; ok {
			value = extract(value)
			if value == "" {
				continue
			}
		}
		if _, dup := claimed[field]; dup {
			continue
		}
		claimed[field] = struct{}{}
		out = append(out, domain.FieldCandidate{
			Field:  field,
			Value:  value,
			Source: domain.SourceKeyValue,
		})
	}
	return out
}

func (p *LineParser) canonicalField(label string) string {
	if canonical, ok := p.synonyms[strings.ToLower(label)]; ok {
		return canonical
	}
	return titleCase(label)
}

// titleCase capitalizes the first letter of each space-separated word and
// lowercases the rest, so "invoice no" and "INVOICE NO" name one column.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		if len(runes) > 0 && runes[0] >= 'a' && runes[0] <= 'z' {
			runes[0] = runes[0] - 'a' + 'A'
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func extractDigits(value string) string {
	return digitRunPattern.FindString(value)
}

func extractAgeDigits(value string) string {
	run := digitRunPattern.FindString(value)
	if len(run) > 3 {
		return ""
	}
	return run
}
