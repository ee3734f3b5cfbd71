package auth

import (
	"strings"
	"unicode/utf8"
)

// fieldCheck is one predicate in an ordered validation chain. Every check
// carries its own failure reason so clients can tell which rule tripped.
type fieldCheck struct {
	reason string
	ok     func(string) bool
}

var usernameChecks = []fieldCheck{
	{"Username is required", func(s string) bool { return s != "" }},
	{"Username must be at least 3 characters", func(s string) bool { return len(s) >= 3 }},
}

var passwordChecks = []fieldCheck{
	{"Password must be between 8 and 20 characters", func(s string) bool {
		n := utf8.RuneCountInString(s)
		return n >= 8 && n <= 20
	}},
	{"Password must contain at least one uppercase letter", func(s string) bool { return strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") }},
	{"Password must contain at least one lowercase letter", func(s string) bool { return strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") }},
	{"Password must contain at least one number", func(s string) bool { return strings.ContainsAny(s, "0123456789") }},
	{"Password must contain at least one special character", containsSpecial},
}

func containsSpecial(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return true
		}
	}
	return false
}

// ValidateSignup runs every check in order and returns the first failure
// reason, or "" when the credentials pass all rules.
func ValidateSignup(username, password string) string {
	for _, c := range usernameChecks {
		if !c.ok(username) {
			return c.reason
		}
	}
	for _, c := range passwordChecks {
		if !c.ok(password) {
			return c.reason
		}
	}
	return ""
}
