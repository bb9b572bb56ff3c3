package validators

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Field length caps applied to booking input.
const (
	MaxName     = 100
	MaxPhone    = 20
	MaxEmail    = 254
	MaxAddress  = 500
	MaxAptSuite = 50
	MaxNotes    = 1000
)

// Sanitize trims s and cuts it to at most max runes.
func Sanitize(s string, max int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max]))
}

// IsEmail accepts a bare addr-spec. Display names ("Ada <a@b.c>") are
// rejected since the value is used as a calendar attendee as is.
func IsEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@"):], ".")
}
