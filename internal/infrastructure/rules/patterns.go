// Package rules implements the deterministic extraction passes: the
// pattern library of field regexes and the line-oriented label:value
// parser. Both are pure functions over the input text; absence of a match
// is not an error, the field is simply omitted from the candidates.
package rules

import (
	"regexp"
	"strings"

	"github.com/kdworks/dataclerk/internal/core/domain"
)

var (
	// 10-digit runs are tried first so a full mobile number wins over its
	// own 8/9-digit prefixes. The country-code prefix requires a literal
	// '+' so the group can never eat the leading digits of a bare run; it
	// is consumed but not captured. Runs longer than 10 digits yield their
	// first 10.
	phonePattern = regexp.MustCompile(`(?:\+\d{1,3}[\s-]?)?(\d{10}|\d{9}|\d{8})`)

	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// Thousands separators are stripped from the captured value, the
	// decimal point is preserved.
	amountPattern = regexp.MustCompile(`(?:₹|Rs|INR|\$)?\s*([0-9]{1,3}(?:[,.][0-9]{3})*(?:\.[0-9]+)?|[0-9]+(?:\.[0-9]+)?)`)

	// Postal codes are 5-6 digits, phones 8-10; the length split is the
	// only disambiguation between the two.
	pincodePattern = regexp.MustCompile(`\b(\d{5,6})\b`)

	ageLabelPattern = regexp.MustCompile(`\b[Aa]ge[\s:]*([0-9]{1,3})\b`)
	ageUnitPattern  = regexp.MustCompile(`(?i)\b(\d{2})\s*(?:years|yrs|y/o|yo)\b`)

	nameLabelPattern    = regexp.MustCompile(`(?:Name|name)[:\-\s]\s*([A-Z][a-z]+(?:\s[A-Z][a-z]+)?)`)
	nameFallbackPattern = regexp.MustCompile(`^([A-Z][a-z]+(?:\s[A-Z][a-z]+){0,2})`)

	femalePattern = regexp.MustCompile(`(?i)\bfemale\b`)
	malePattern   = regexp.MustCompile(`(?i)\bmale\b`)
	transPattern  = regexp.MustCompile(`(?i)\btrans\b`)

	companyPattern = regexp.MustCompile(`(?:Company|company|Co\.|Ltd|Pvt|Inc|LLP|LLC)[:\-\s]*([A-Z][A-Za-z0-9 &]*)`)
	cityPattern    = regexp.MustCompile(`(?:[Cc]ity|from|at)\s+([A-Za-z ]{3,30})`)

	digitRunPattern = regexp.MustCompile(`\d+`)
)

// Library is the fixed set of named matchers for atomic fields. Each
// matcher returns the first occurrence only; multiple hits per field are
// intentionally not aggregated.
type Library struct{}

func NewLibrary() *Library {
	return &Library{}
}

// Match runs every matcher over the full text and returns one candidate
// per field that matched, in the library's fixed field order.
func (l *Library) Match(text string) []domain.FieldCandidate {
	fields := []struct {
		name string
		find func(string) string
	}{
		{"Name", findName},
		{"Age", findAge},
		{"Gender", findGender},
		{"Phone", findPhone},
		{"Email", findEmail},
		{"City", findCity},
		{"Pincode", findPincode},
		{"Company", findCompany},
		{"Amount", findAmount},
	}

	var out []domain.FieldCandidate
	for _, f := range fields {
		value := f.find(text)
		if value == "" {
			continue
		}
		out = append(out, domain.FieldCandidate{
			Field:  f.name,
			Value:  value,
			Source: domain.SourcePattern,
		})
	}
	return out
}

func findPhone(text string) string {
	m := phonePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

func findEmail(text string) string {
	return strings.TrimSpace(emailPattern.FindString(text))
}

func findAmount(text string) string {
	m := amountPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.ReplaceAll(m[1], ",", "")
}

func findPincode(text string) string {
	m := pincodePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

func findAge(text string) string {
	if m := ageLabelPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := ageUnitPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func findName(text string) string {
	if m := nameLabelPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := nameFallbackPattern.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// findGender checks female before male: a plain substring scan would
// misread "female" as male.
func findGender(text string) string {
	switch {
	case femalePattern.MatchString(text):
		return "Female"
	case malePattern.MatchString(text):
		return "Male"
	case transPattern.MatchString(text):
		return "Trans"
	default:
		return ""
	}
}

func findCompany(text string) string {
	m := companyPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func findCity(text string) string {
	m := cityPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
