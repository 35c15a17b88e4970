package porter

import (
	"testing"
)

func TestMaskers(t *testing.T) {
	tests := []struct {
		name     string
		masker   Masker
		input    string
		expected string
	}{
		{"ssn dashed", SSNMasker(), "123-45-6789", "***-**-6789"},
		{"ssn digits", SSNMasker(), "123456789", "***-**-6789"},
		{"ssn too short", SSNMasker(), "123", "***"},
		{"email", EmailMasker(), "alice@example.com", "a***@example.com"},
		{"email single char", EmailMasker(), "a@b.com", "a***@b.com"},
		{"email no at", EmailMasker(), "noatsign", "********"},
		{"email leading at", EmailMasker(), "@x.io", "*****"},
		{"phone parens", PhoneMasker(), "(555) 123-4567", "(***) ***-4567"},
		{"phone dashed", PhoneMasker(), "555-123-4567", "***-***-4567"},
		{"phone short", PhoneMasker(), "123-4567", "***-4567"},
		{"phone too short", PhoneMasker(), "123", "***"},
		{"card plain", CardMasker(), "4111111111111111", "************1111"},
		{"card spaced", CardMasker(), "4111 1111 1111 1111", "**** **** **** 1111"},
		{"card dashed", CardMasker(), "4111-1111-1111-1111", "****-****-****-1111"},
		{"uuid", UUIDMasker(), "550e8400-e29b-41d4-a716-446655440000", "550e8400-****-****-****-************"},
		{"uuid invalid", UUIDMasker(), "not-a-uuid", "**********"},
		{"name", NameMasker(), "John Smith", "J*** S****"},
		{"name empty", NameMasker(), "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.masker.Mask(tt.input); got != tt.expected {
				t.Errorf("Mask(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestBuiltinMaskers_CoverMaskTypes(t *testing.T) {
	maskers := builtinMaskers()
	for _, mt := range []MaskType{MaskSSN, MaskEmail, MaskPhone, MaskCard, MaskUUID, MaskName} {
		if maskers[mt] == nil {
			t.Errorf("no builtin masker for %q", mt)
		}
	}
}

func TestMaskerFunc(t *testing.T) {
	m := MaskerFunc(func(string) string { return "x" })
	if m.Mask("anything") != "x" {
		t.Error("MaskerFunc should call the wrapped function")
	}
}
