package utils

import (
	"net/mail"
	"regexp"
	"strings"
)

var e164Regex = regexp.MustCompile(`^\+[1-9]\d{7,14}$`) // ITU-T E.164

// IsE164 reports basic E.164 compliance.
func IsE164(number string) bool { return e164Regex.MatchString(number) }

// NormalizePhone turns what a receptionist types ("300 123 4567",
// "+57-300-1234567") into E.164, prefixing the default calling code for
// bare national numbers. It returns false when the result is not E.164.
func NormalizePhone(raw, defaultCallingCode string) (string, bool) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", false
	}
	if !strings.HasPrefix(digits, "+") {
		digits = "+" + defaultCallingCode + digits
	}
	return digits, IsE164(digits)
}

// IsEmailSyntaxValid performs an RFC 5322 syntax check only.
func IsEmailSyntaxValid(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
