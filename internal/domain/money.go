package domain

import (
	"strings"
	"unicode"
)

// ParseAmountCents normalizes a price value carried as a formatted currency
// string (e.g. "৳42,999" or "1,299.50") into integer minor units. Every
// non-digit, non-decimal character is stripped before parsing, so currency
// symbols, thousands separators and whitespace are all tolerated. Returns
// false when no digits remain.
func ParseAmountCents(s string) (int64, bool) {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}

	whole := cleaned
	frac := ""
	if i := strings.IndexByte(cleaned, '.'); i >= 0 {
		whole = cleaned[:i]
		frac = strings.ReplaceAll(cleaned[i+1:], ".", "")
	}

	var cents int64
	for _, r := range whole {
		cents = cents*10 + int64(r-'0')
	}
	cents *= 100

	// Two fractional digits carry through; anything beyond is truncated.
	switch {
	case len(frac) == 1:
		cents += int64(frac[0]-'0') * 10
	case len(frac) >= 2:
		cents += int64(frac[0]-'0')*10 + int64(frac[1]-'0')
	}

	return cents, true
}
