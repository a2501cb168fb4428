package rules

import "testing"

func candidateValue(t *testing.T, text, field string) (string, bool) {
	t.Helper()
	for _, c := range NewLibrary().Match(text) {
		if c.Field == field {
			return c.Value, true
		}
	}
	return "", false
}

func TestFindPhonePrefersTenDigitRun(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"call me at 9876543210 today", "9876543210"},
		{"reach +91-9876543210 anytime", "9876543210"},
		{"landline 04412345678", "0441234567"},
		{"short number 98765432", "98765432"},
	}
	for _, tt := range tests {
		got, ok := candidateValue(t, tt.text, "Phone")
		if !ok || got != tt.want {
			t.Errorf("Phone(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestFindPhoneAbsentIsNotAnError(t *testing.T) {
	if _, ok := candidateValue(t, "no digits here", "Phone"); ok {
		t.Fatalf("expected no phone candidate")
	}
}

func TestFindEmail(t *testing.T) {
	got, ok := candidateValue(t, "write to ravi.kumar+x@example.co.in please", "Email")
	if !ok || got != "ravi.kumar+x@example.co.in" {
		t.Fatalf("Email = %q", got)
	}
}

func TestFindAmountStripsThousandsSeparators(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"paid Rs 1,250.50 by card", "1250.50"},
		{"total INR 12,345", "12345"},
		{"cost $99.99", "99.99"},
	}
	for _, tt := range tests {
		got, ok := candidateValue(t, tt.text, "Amount")
		if !ok || got != tt.want {
			t.Errorf("Amount(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestFindPincodeRequiresFiveOrSixDigits(t *testing.T) {
	got, ok := candidateValue(t, "ships to 560001 tomorrow", "Pincode")
	if !ok || got != "560001" {
		t.Fatalf("Pincode = %q", got)
	}
	if _, ok := candidateValue(t, "order 1234 only", "Pincode"); ok {
		t.Fatalf("4-digit run must not match a pincode")
	}
}

func TestFindAge(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"customer age: 34", "34"},
		{"Age 41, repeat buyer", "41"},
		{"he is 29 years old", "29"},
		{"about 35 yrs", "35"},
	}
	for _, tt := range tests {
		got, ok := candidateValue(t, tt.text, "Age")
		if !ok || got != tt.want {
			t.Errorf("Age(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestFindName(t *testing.T) {
	got, ok := candidateValue(t, "Name: Ravi Kumar\nage 30", "Name")
	if !ok || got != "Ravi Kumar" {
		t.Fatalf("labeled Name = %q", got)
	}
	got, ok = candidateValue(t, "Priya Sharma ordered two units", "Name")
	if !ok || got != "Priya Sharma" {
		t.Fatalf("fallback Name = %q", got)
	}
}

func TestFindGenderMatchesWholeWords(t *testing.T) {
	got, ok := candidateValue(t, "gender: female, age 30", "Gender")
	if !ok || got != "Female" {
		t.Fatalf("Gender = %q, want Female", got)
	}
	got, ok = candidateValue(t, "male customer from Pune", "Gender")
	if !ok || got != "Male" {
		t.Fatalf("Gender = %q, want Male", got)
	}
}

func TestFindCompanyAndCity(t *testing.T) {
	got, ok := candidateValue(t, "billing account under Ltd Acme Traders", "Company")
	if !ok || got != "Acme Traders" {
		t.Fatalf("Company = %q", got)
	}
	got, ok = candidateValue(t, "shipping from Mumbai next week", "City")
	if !ok || got != "Mumbai next week" {
		t.Fatalf("City = %q", got)
	}
}
