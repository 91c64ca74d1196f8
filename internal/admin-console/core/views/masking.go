package views

import (
	"strings"
	"unicode"
)

// MaskAccount keeps the first three and last two characters. Values shorter
// than six characters are returned unchanged.
func MaskAccount(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) < 6 {
		return s
	}
	return string(r[:3]) + strings.Repeat("*", len(r)-5) + string(r[len(r)-2:])
}

// NormalizePhone rewrites a Tanzanian number from 255… or +255… to the local 0…
// form and drops separators.
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, "255") && len(digits) > 9 {
		return "0" + digits[3:]
	}
	return digits
}

// MaskPhone normalises and then masks a phone number. Numbers with fewer than
// nine digits are returned as given.
func MaskPhone(s string) string {
	n := NormalizePhone(s)
	if len(n) < 9 {
		return strings.TrimSpace(s)
	}
	return MaskAccount(n)
}
