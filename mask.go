package porter

import (
	"strings"
	"unicode"
)

// Masker applies content-aware masking to a string value.
type Masker interface {
	Mask(value string) string
}

// MaskerFunc adapts a function to the Masker interface.
type MaskerFunc func(value string) string

// Mask calls f(value).
func (f MaskerFunc) Mask(value string) string {
	return f(value)
}

// SSNMasker keeps the last four digits: 123-45-6789 -> ***-**-6789.
func SSNMasker() Masker {
	return MaskerFunc(func(value string) string {
		last4, ok := lastFourDigits(value)
		if !ok {
			return stars(value)
		}
		return "***-**-" + last4
	})
}

// EmailMasker keeps the first character of the local part and the domain.
func EmailMasker() Masker {
	return MaskerFunc(func(value string) string {
		at := strings.LastIndex(value, "@")
		if at < 1 {
			return stars(value)
		}
		return value[:1] + "***" + value[at:]
	})
}

// PhoneMasker keeps the last four digits and the leading parenthesis style.
func PhoneMasker() Masker {
	return MaskerFunc(func(value string) string {
		last4, ok := lastFourDigits(value)
		if !ok {
			return stars(value)
		}
		n := len(extractDigits(value))
		switch {
		case strings.HasPrefix(value, "(") && n >= 10:
			return "(***) ***-" + last4
		case n >= 10:
			return "***-***-" + last4
		default:
			return "***-" + last4
		}
	})
}

// CardMasker keeps the last four digits, preserving space or dash grouping.
func CardMasker() Masker {
	return MaskerFunc(func(value string) string {
		last4, ok := lastFourDigits(value)
		if !ok {
			return stars(value)
		}
		n := len(extractDigits(value))
		groups := make([]string, (n-4+3)/4)
		for i := range groups {
			groups[i] = "****"
		}
		switch {
		case strings.Contains(value, " "):
			return strings.Join(append(groups, last4), " ")
		case strings.Contains(value, "-"):
			return strings.Join(append(groups, last4), "-")
		default:
			return strings.Repeat("*", n-4) + last4
		}
	})
}

// UUIDMasker keeps the first segment of a canonical UUID.
func UUIDMasker() Masker {
	return MaskerFunc(func(value string) string {
		parts := strings.Split(value, "-")
		if len(parts) != 5 {
			return stars(value)
		}
		return parts[0] + "-****-****-****-************"
	})
}

// NameMasker keeps the first letter of each word: John Smith -> J*** S****.
func NameMasker() Masker {
	return MaskerFunc(func(value string) string {
		words := strings.Fields(value)
		for i, word := range words {
			runes := []rune(word)
			words[i] = string(runes[0]) + strings.Repeat("*", len(runes)-1)
		}
		return strings.Join(words, " ")
	})
}

func extractDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func lastFourDigits(s string) (string, bool) {
	digits := extractDigits(s)
	if len(digits) < 4 {
		return "", false
	}
	return digits[len(digits)-4:], true
}

func stars(s string) string {
	return strings.Repeat("*", len(s))
}

func builtinMaskers() map[MaskType]Masker {
	return map[MaskType]Masker{
		MaskSSN:   SSNMasker(),
		MaskEmail: EmailMasker(),
		MaskPhone: PhoneMasker(),
		MaskCard:  CardMasker(),
		MaskUUID:  UUIDMasker(),
		MaskName:  NameMasker(),
	}
}
