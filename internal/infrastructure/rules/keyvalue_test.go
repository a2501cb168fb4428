package rules

import (
	"testing"

	"github.com/kdworks/dataclerk/internal/core/domain"
)

func parse(t *testing.T, text string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	for _, c := range NewLineParser(DefaultLabelConfig()).Parse(text) {
		if c.Source != domain.SourceKeyValue {
			t.Fatalf("unexpected source %q", c.Source)
		}
		out[c.Field] = c.Value
	}
	return out
}

func TestParseCanonicalizesKnownLabels(t *testing.T) {
	got := parse(t, "name: Ravi Kumar\nprice: Rs 1,250.50\nqty: 3 units")

	if got["Name"] != "Ravi Kumar" {
		t.Errorf("Name = %q", got["Name"])
	}
	if got["Amount"] != "1250.50" {
		t.Errorf("Amount = %q (price synonym, digits only)", got["Amount"])
	}
	if got["Quantity"] != "3" {
		t.Errorf("Quantity = %q", got["Quantity"])
	}
}

func TestParseKeepsUnknownLabelsVerbatimTitleCased(t *testing.T) {
	got := parse(t, "invoice no: INV-2031\nGSTIN: 29ABCDE1234F1Z5")

	if got["Invoice No"] != "INV-2031" {
		t.Errorf("dynamic label = %v", got)
	}
	if got["Gstin"] != "29ABCDE1234F1Z5" {
		t.Errorf("dynamic label casing = %v", got)
	}
}

func TestParseIgnoresLinesWithoutColon(t *testing.T) {
	got := parse(t, "just a note line\nname: Priya")
	if len(got) != 1 || got["Name"] != "Priya" {
		t.Fatalf("unexpected candidates: %v", got)
	}
}

func TestParseNumericLabelWithoutDigitsOmitsCandidate(t *testing.T) {
	got := parse(t, "amount: to be confirmed\nage: thirty")
	if _, ok := got["Amount"]; ok {
		t.Errorf("Amount should be omitted when no digits present")
	}
	if _, ok := got["Age"]; ok {
		t.Errorf("Age should be omitted when no digits present")
	}
}

func TestParseFirstCandidatePerFieldWins(t *testing.T) {
	got := parse(t, "name: First Entry\nName: Second Entry")
	if got["Name"] != "First Entry" {
		t.Fatalf("Name = %q", got["Name"])
	}
}

func TestParsePincodeLabelExtractsDigitRun(t *testing.T) {
	got := parse(t, "pin: BLR 560001 south")
	if got["Pincode"] != "560001" {
		t.Fatalf("Pincode = %q", got["Pincode"])
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"invoice no", "Invoice No"},
		{"ORDER REF", "Order Ref"},
		{"  padded  label ", "Padded Label"},
	}
	for _, tt := range tests {
		if got := titleCase(tt.in); got != tt.want {
			t.Errorf("titleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
